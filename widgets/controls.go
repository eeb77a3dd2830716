package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the row renderers
type Styles struct {
	Label    lipgloss.Style
	Value    lipgloss.Style
	Focused  lipgloss.Style
	Disabled lipgloss.Style
}

// Row is one line of the controls panel
type Row struct {
	Label    string
	Value    string
	Focused  bool
	Disabled bool
}

const labelWidth = 20

// RenderRow renders "▶ Label            ‹ value ›"
func RenderRow(st Styles, cursor rune, r Row) string {
	prefix := "  "
	if r.Focused {
		prefix = string(cursor) + " "
	}

	label := st.Label.Render(fmt.Sprintf("%-*s", labelWidth, r.Label))
	value := r.Value
	switch {
	case r.Disabled:
		value = st.Disabled.Render(value)
	case r.Focused:
		value = st.Focused.Render(value)
	default:
		value = st.Value.Render(value)
	}
	return prefix + label + value
}

// SelectorValue formats the current option of a selector with arrows
func SelectorValue(left, right rune, label string) string {
	return fmt.Sprintf("%c %s %c", left, label, right)
}

// CheckboxValue formats a checkbox
func CheckboxValue(on, off rune, checked bool) string {
	if checked {
		return string(on)
	}
	return string(off)
}

// RenderSection renders a dimmed section title followed by rows
func RenderSection(title lipgloss.Style, name string, rows []string) string {
	var out strings.Builder
	out.WriteString(title.Render(name))
	out.WriteString("\n")
	for _, r := range rows {
		out.WriteString(r)
		out.WriteString("\n")
	}
	return out.String()
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
