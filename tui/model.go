package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"music-controls/bus"
	"music-controls/config"
	"music-controls/controls"
	"music-controls/debug"
	"music-controls/exercise"
	"music-controls/midi"
	"music-controls/theme"
	"music-controls/widgets"
)

const exportTimeout = 60 * time.Second

var keyHelp = []widgets.KeySection{
	{Title: "Panel", Keys: []widgets.KeyBinding{
		{Key: "↑↓ / jk", Desc: "move"},
		{Key: "←→ / hl", Desc: "change value"},
		{Key: "space/enter", Desc: "toggle or press"},
	}},
	{Title: "Global", Keys: []widgets.KeyBinding{
		{Key: "esc", Desc: "computer keyboard as piano on/off"},
		{Key: "r", Desc: "rescan MIDI devices"},
		{Key: "i", Desc: "this help"},
		{Key: "q", Desc: "quit"},
	}},
}

// Deps is everything the model drives
type Deps struct {
	Bus      *bus.Bus
	Panel    *controls.Panel
	Registry midi.Registry
	Notes    <-chan midi.NoteEvent
	Pipeline *exercise.Pipeline
	Theme    *theme.Theme
	Help     config.HelpConfig
}

// status is filled by bus and MIDI callbacks
type status struct {
	last string
	note string
}

type Model struct {
	deps     Deps
	registry *loopRegistry
	rows     []row
	notation notationState
	status   *status
	tap      *bus.Subscription

	cursor   int
	form     *exportForm
	alert    string
	info     bool
	busy     bool
	quitting bool
}

type devicesUpdatedMsg struct{}

type noteMsg midi.NoteEvent

type refreshDoneMsg struct{ err error }

type exportDoneMsg struct {
	dest exercise.Destination
	res  exercise.Result
	err  error
}

func NewModel(deps Deps) Model {
	m := Model{
		deps:     deps,
		registry: newLoopRegistry(deps.Registry),
		notation: notationState{},
		status:   &status{},
	}
	m.rows = buildRows(deps.Panel, m.notation)
	m.applyDefinition()
	m.tap = deps.Bus.SubscribeAll(func(e bus.Event) {
		m.status.last = describe(e)
	})
	deps.Panel.Devices.BindRegistry(m.registry)
	return m
}

// applyDefinition starts the panel from the settings stored with the
// current exercise, when there is one
func (m Model) applyDefinition() {
	if m.deps.Pipeline == nil {
		return
	}
	doc, err := m.deps.Pipeline.Load()
	if err != nil {
		return
	}
	def := doc.Definition()
	if def.KeySignature != "" && !m.deps.Panel.KeySignature.SelectValue(def.KeySignature) {
		debug.Log("tui", "unknown key signature %q", def.KeySignature)
	}
	m.notation.seed("analyze", def.Analysis)
	m.notation.seed("highlight", def.Highlight)
}

func describe(e bus.Event) string {
	if e.Payload == nil {
		return string(e.Channel)
	}
	return fmt.Sprintf("%s = %v", e.Channel, e.Payload)
}

func listenForDevices(r *loopRegistry) tea.Cmd {
	return func() tea.Msg {
		<-r.signals
		return devicesUpdatedMsg{}
	}
}

func listenForNotes(notes <-chan midi.NoteEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-notes
		if !ok {
			return nil
		}
		return noteMsg(ev)
	}
}

func refreshDevices(d *controls.DeviceBindingManager) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: d.Refresh()}
	}
}

func runExport(p *exercise.Pipeline, dest exercise.Destination, answers exercise.Answers) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		res, err := p.Export(ctx, dest, answers)
		return exportDoneMsg{dest: dest, res: res, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{listenForDevices(m.registry)}
	if m.deps.Notes != nil {
		cmds = append(cmds, listenForNotes(m.deps.Notes))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case devicesUpdatedMsg:
		m.registry.deliver()
		return m, listenForDevices(m.registry)

	case noteMsg:
		ev := midi.NoteEvent(msg)
		if ev.Type == midi.NoteOn {
			m.status.note = ev.Name()
		}
		return m, listenForNotes(m.deps.Notes)

	case refreshDoneMsg:
		if msg.err != nil {
			m.status.last = "device scan failed"
		}
		return m, nil

	case exportDoneMsg:
		m.busy = false
		m.alert = exportAlert(msg)
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		if m.alert != "" || m.info {
			m.alert = ""
			m.info = false
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.close()
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case "left", "h":
		m.step(-1)

	case "right", "l":
		m.step(1)

	case " ", "enter":
		return m.activate()

	case "esc":
		m.deps.Bus.Broadcast(bus.ChannelToggleShortcuts, !m.deps.Panel.Shortcuts.Checked())

	case "r":
		return m, refreshDevices(m.deps.Panel.Devices)

	case "i":
		m.info = true
	}
	return m, nil
}

func (m Model) step(delta int) {
	r := m.rows[m.cursor]
	if r.kind != rowSelector {
		return
	}
	if err := r.selector.Step(delta); err != nil {
		debug.Log("tui", "%s: %v", r.label, err)
	}
}

func (m Model) activate() (tea.Model, tea.Cmd) {
	r := m.rows[m.cursor]
	switch r.kind {
	case rowSelector:
		m.step(1)
	case rowCheckbox:
		r.toggle()
	case rowButton:
		switch r.action {
		case actRefresh:
			return m, refreshDevices(m.deps.Panel.Devices)
		case actPristine:
			m.deps.Panel.RequestPristine()
		case actDownload:
			return m.startExport(exercise.Download)
		case actUpload:
			return m.startExport(exercise.Upload)
		case actInfo:
			m.info = true
		}
	}
	return m, nil
}

// startExport opens the form only when there is a snapshot to export
func (m Model) startExport(dest exercise.Destination) (tea.Model, tea.Cmd) {
	if m.busy || m.deps.Pipeline == nil {
		return m, nil
	}
	if _, err := m.deps.Pipeline.Load(); err != nil {
		return m, nil
	}
	m.form = newExportForm(dest)
	return m, m.form.focus()
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.form = nil
		return m, nil
	case tea.KeyEnter:
		if cmd, more := m.form.next(); more {
			return m, cmd
		}
		dest, answers := m.form.dest, m.form.answers()
		m.form = nil
		m.busy = true
		return m, runExport(m.deps.Pipeline, dest, answers)
	}
	return m, m.form.update(msg)
}

func exportAlert(msg exportDoneMsg) string {
	switch {
	case errors.Is(msg.err, exercise.ErrNoSnapshot):
		return ""
	case msg.err != nil && msg.dest == exercise.Upload:
		return fmt.Sprintf("Upload failed: %v", msg.err)
	case msg.err != nil:
		return fmt.Sprintf("Download failed: %v", msg.err)
	case msg.res.Destination == exercise.Upload:
		return "Exercise uploaded! Exercise ID: " + msg.res.ExerciseID
	case msg.res.Path != "":
		return "Saved " + msg.res.Path
	default:
		return "Prepared " + msg.res.Artifact.Name
	}
}

func (m Model) close() {
	m.tap.Unsubscribe()
	m.deps.Panel.Close()
	m.registry.Close()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	t := m.deps.Theme
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.Muted())
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent()).
		Padding(0, 1)
	st := widgets.Styles{
		Label:    lipgloss.NewStyle().Foreground(t.FG()),
		Value:    lipgloss.NewStyle().Foreground(t.Active()),
		Focused:  lipgloss.NewStyle().Foreground(t.Cursor()).Bold(true),
		Disabled: dimStyle,
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render("music-controls"))
	out.WriteString("\n\n")
	out.WriteString(m.renderRows(st, dimStyle))

	switch {
	case m.form != nil:
		out.WriteString("\n")
		out.WriteString(boxStyle.Render(m.form.prompt() + "\n\n" + m.form.view()))
		out.WriteString("\n")
	case m.alert != "":
		out.WriteString("\n")
		out.WriteString(boxStyle.BorderForeground(t.Success()).Render(m.alert))
		out.WriteString("\n")
	case m.info:
		out.WriteString("\n")
		out.WriteString(boxStyle.Width(64).Render(headerStyle.Render(m.deps.Help.Title) + "\n\n" + m.deps.Help.Content + "\n\n" + widgets.RenderKeyHelp(keyHelp)))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render(m.statusLine()))
	out.WriteString("\n")
	out.WriteString(dimStyle.Render("↑↓:move  ←→:change  space:press  esc:keyboard  r:rescan  i:info  q:quit"))
	return out.String()
}

func (m Model) renderRows(st widgets.Styles, title lipgloss.Style) string {
	sym := m.deps.Theme.Symbols
	var out strings.Builder
	var section string
	var lines []string

	flush := func() {
		if len(lines) > 0 {
			out.WriteString(widgets.RenderSection(title, section, lines))
			out.WriteString("\n")
		}
		lines = nil
	}

	for i, r := range m.rows {
		if r.section != section {
			flush()
			section = r.section
		}
		wr := widgets.Row{Label: r.label, Focused: i == m.cursor}
		switch r.kind {
		case rowSelector:
			opt, ok := r.selector.Selected()
			label := opt.Label
			if !ok {
				label = controls.PlaceholderLabel
			}
			wr.Value = widgets.SelectorValue(sym.Left, sym.Right, label)
			wr.Disabled = r.selector.Disabled() || opt.Disabled
		case rowCheckbox:
			wr.Value = widgets.CheckboxValue(sym.Checked, sym.Unchecked, r.checked())
		case rowButton:
			wr.Value = "[enter]"
			wr.Disabled = m.busy && (r.action == actDownload || r.action == actUpload)
		}
		lines = append(lines, widgets.RenderRow(st, sym.Cursor, wr))
	}
	flush()
	return out.String()
}

func (m Model) statusLine() string {
	parts := []string{}
	if m.status.last != "" {
		parts = append(parts, m.status.last)
	}
	if m.status.note != "" {
		parts = append(parts, "note "+m.status.note)
	}
	if m.busy {
		parts = append(parts, "exporting...")
	}
	if len(parts) == 0 {
		return " "
	}
	return strings.Join(parts, "  ·  ")
}
