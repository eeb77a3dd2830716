package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func plainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Label: s, Value: s, Focused: s, Disabled: s}
}

func TestRenderRow(t *testing.T) {
	row := RenderRow(plainStyles(), '>', Row{Label: "Piano keys", Value: "49", Focused: true})
	assert.True(t, strings.HasPrefix(row, "> Piano keys"))
	assert.True(t, strings.HasSuffix(row, "49"))

	row = RenderRow(plainStyles(), '>', Row{Label: "MIDI input", Value: "--"})
	assert.True(t, strings.HasPrefix(row, "  MIDI input"))
}

func TestValues(t *testing.T) {
	assert.Equal(t, "‹ 88 ›", SelectorValue('‹', '›', "88"))
	assert.Equal(t, "x", CheckboxValue('x', 'o', true))
	assert.Equal(t, "o", CheckboxValue('x', 'o', false))
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{Title: "Panel", Keys: []KeyBinding{{"space", "toggle"}}}})
	assert.Equal(t, "Panel\n  space        toggle", out)
}
