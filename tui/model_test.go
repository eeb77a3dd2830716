package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music-controls/bus"
	"music-controls/config"
	"music-controls/controls"
	"music-controls/exercise"
	"music-controls/instruments"
	"music-controls/midi"
	"music-controls/theme"
)

// stubRegistry is a synchronous in-memory registry
type stubRegistry struct {
	inputs, outputs []midi.Device
	observers       []func(midi.Registry)
	selected        []int
}

func (r *stubRegistry) Inputs() []midi.Device  { return r.inputs }
func (r *stubRegistry) Outputs() []midi.Device { return r.outputs }

func (r *stubRegistry) SelectInput(index, count int) error {
	if count != len(r.inputs) {
		return midi.ErrStaleSelection
	}
	r.selected = append(r.selected, index)
	return nil
}

func (r *stubRegistry) SelectOutput(index, count int) error { return nil }

func (r *stubRegistry) Update() error {
	for _, fn := range r.observers {
		fn(r)
	}
	return nil
}

func (r *stubRegistry) Subscribe(fn func(midi.Registry)) func() {
	r.observers = append(r.observers, fn)
	return func() { r.observers = nil }
}

type stubUploader struct {
	payload []byte
}

func (u *stubUploader) Upload(_ context.Context, payload []byte) (string, error) {
	u.payload = payload
	return "42", nil
}

type fixture struct {
	model    Model
	bus      *bus.Bus
	panel    *controls.Panel
	registry *stubRegistry
	events   []bus.Event
	uploader *stubUploader
}

func newFixture(t *testing.T, state exercise.StateProvider) *fixture {
	t.Helper()
	f := &fixture{
		bus:      bus.New(),
		registry: &stubRegistry{},
		uploader: &stubUploader{},
	}
	f.bus.SubscribeAll(func(e bus.Event) { f.events = append(f.events, e) })
	f.panel = controls.NewPanel(f.bus, config.DefaultConfig(), []instruments.Instrument{{Num: 0, Name: "Piano", Enabled: true}})
	f.model = NewModel(Deps{
		Bus:      f.bus,
		Panel:    f.panel,
		Registry: f.registry,
		Pipeline: &exercise.Pipeline{State: state, Uploader: f.uploader, Saver: exercise.DirSaver{Dir: t.TempDir()}},
		Theme:    theme.New(theme.Default()),
		Help:     config.DefaultConfig().Help,
	})
	return f
}

func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.model.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok)
	f.model = m
	return cmd
}

func (f *fixture) key(t *testing.T, k string) tea.Cmd {
	t.Helper()
	switch k {
	case "enter":
		return f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	case "right":
		return f.send(t, tea.KeyMsg{Type: tea.KeyRight})
	case "down":
		return f.send(t, tea.KeyMsg{Type: tea.KeyDown})
	}
	return f.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

func (f *fixture) focus(t *testing.T, label string) {
	t.Helper()
	for i, r := range f.model.rows {
		if r.label == label {
			f.model.cursor = i
			return
		}
	}
	t.Fatalf("no row %q", label)
}

func (f *fixture) on(channel bus.Channel) []any {
	var out []any
	for _, e := range f.events {
		if e.Channel == channel {
			out = append(out, e.Payload)
		}
	}
	return out
}

func snapshot(s string) exercise.StateProvider {
	return exercise.StateFunc(func() ([]byte, error) { return []byte(s), nil })
}

func noSnapshot() exercise.StateProvider {
	return exercise.StateFunc(func() ([]byte, error) { return nil, exercise.ErrNoSnapshot })
}

func TestDeviceUpdatesAreDeliveredOnTheLoop(t *testing.T) {
	f := newFixture(t, noSnapshot())
	assert.Equal(t, controls.PlaceholderLabel, f.panel.MIDIInput.Options()[0].Label)

	f.registry.inputs = []midi.Device{{Name: "Keystation", Index: 0}, {Name: "IAC Bus", Index: 1}}
	require.NoError(t, f.registry.Update())

	// nothing changes until the loop picks up the signal
	assert.Equal(t, controls.PlaceholderLabel, f.panel.MIDIInput.Options()[0].Label)

	<-f.model.registry.signals
	cmd := f.send(t, devicesUpdatedMsg{})
	assert.NotNil(t, cmd, "keeps listening")
	assert.Equal(t, 2, f.panel.MIDIInput.Len())
	assert.Equal(t, "Keystation", f.panel.MIDIInput.Options()[0].Label)
}

func TestStepSelectorBroadcasts(t *testing.T) {
	f := newFixture(t, noSnapshot())
	f.focus(t, "Piano keys")

	f.key(t, "right")
	f.key(t, "l")

	assert.Equal(t, []any{88, 25}, f.on(bus.ChannelKeyboardSize))
}

func TestSelectingInputGoesThroughRegistry(t *testing.T) {
	f := newFixture(t, noSnapshot())
	f.registry.inputs = []midi.Device{{Name: "A", Index: 0}, {Name: "B", Index: 1}}
	require.NoError(t, f.registry.Update())
	<-f.model.registry.signals
	f.send(t, devicesUpdatedMsg{})

	f.focus(t, "Input")
	f.key(t, "right")

	assert.Equal(t, []int{1}, f.registry.selected)
}

func TestEscTogglesShortcutsOnce(t *testing.T) {
	f := newFixture(t, noSnapshot())

	f.key(t, "esc")

	assert.Equal(t, []any{true}, f.on(bus.ChannelToggleShortcuts))
	assert.True(t, f.panel.Shortcuts.Checked())
}

func TestNotationCheckboxes(t *testing.T) {
	f := newFixture(t, noSnapshot())
	f.focus(t, "Analyze")

	f.key(t, " ")
	f.key(t, " ")

	want := []any{
		controls.SettingChange{Key: "enabled", Value: true},
		controls.SettingChange{Key: "enabled", Value: false},
	}
	assert.Equal(t, want, f.on(bus.ChannelAnalyzeNotes))
}

func TestPristineButton(t *testing.T) {
	f := newFixture(t, noSnapshot())
	f.focus(t, "Pristine sheet")

	f.key(t, "enter")

	require.Len(t, f.on(bus.ChannelPristine), 1)
}

func TestExportWithoutSnapshotOpensNothing(t *testing.T) {
	f := newFixture(t, noSnapshot())
	f.focus(t, "Download JSON")

	cmd := f.key(t, "enter")

	assert.Nil(t, cmd)
	assert.Nil(t, f.model.form)
	assert.Empty(t, f.model.alert)
}

func TestUploadFlow(t *testing.T) {
	f := newFixture(t, snapshot(`{"chords":[]}`))
	f.focus(t, "Upload JSON")

	f.key(t, "enter")
	require.NotNil(t, f.model.form)
	assert.Equal(t, exercise.TypePrompt, f.model.form.prompt())

	f.key(t, "2")
	f.key(t, "enter")
	assert.Equal(t, exercise.IntroPrompt, f.model.form.prompt())

	f.key(t, "Hi")
	cmd := f.key(t, "enter")
	require.NotNil(t, cmd)
	assert.Nil(t, f.model.form)
	assert.True(t, f.model.busy)

	msg := cmd()
	f.send(t, msg)

	assert.False(t, f.model.busy)
	assert.Equal(t, "Exercise uploaded! Exercise ID: 42", f.model.alert)
	assert.JSONEq(t, `{"chords":[],"type":"analytical","introText":"Hi"}`, string(f.uploader.payload))

	// any key dismisses the alert
	f.key(t, "x")
	assert.Empty(t, f.model.alert)
}

func TestDownloadFlowSavesFile(t *testing.T) {
	f := newFixture(t, snapshot(`{"introText":"Cadences in C"}`))
	f.focus(t, "Download JSON")

	f.key(t, "enter")
	f.key(t, "enter")
	cmd := f.key(t, "enter")
	require.NotNil(t, cmd)
	f.send(t, cmd())

	assert.True(t, strings.HasPrefix(f.model.alert, "Saved "))
	assert.True(t, strings.HasSuffix(f.model.alert, "Cadences_in_C.json"))
}

func TestFormEscCancels(t *testing.T) {
	f := newFixture(t, snapshot(`{}`))
	f.focus(t, "Download JSON")

	f.key(t, "enter")
	require.NotNil(t, f.model.form)
	f.key(t, "esc")

	assert.Nil(t, f.model.form)
	assert.Empty(t, f.on(bus.ChannelToggleShortcuts), "esc in the form does not toggle shortcuts")
}

func TestExportAlerts(t *testing.T) {
	assert.Empty(t, exportAlert(exportDoneMsg{dest: exercise.Upload, err: exercise.ErrNoSnapshot}))
	assert.Contains(t, exportAlert(exportDoneMsg{dest: exercise.Upload, err: exercise.ErrUpload}), "Upload failed")
	assert.Equal(t, "Prepared a.json", exportAlert(exportDoneMsg{
		dest: exercise.Download,
		res:  exercise.Result{Destination: exercise.Download, Artifact: exercise.Artifact{Name: "a.json"}},
	}))
}

func TestViewShowsRowsAndStatus(t *testing.T) {
	f := newFixture(t, noSnapshot())
	f.focus(t, "Octave adjustment")
	f.key(t, "right")

	out := f.model.View()
	assert.Contains(t, out, "Instrument")
	assert.Contains(t, out, "Piano")
	assert.Contains(t, out, "octave adjustment = 1")

	f.key(t, "i")
	assert.Contains(t, f.model.View(), "Harmony Lab")
}

func TestNotesUpdateStatus(t *testing.T) {
	f := newFixture(t, noSnapshot())
	notes := make(chan midi.NoteEvent, 1)
	f.model.deps.Notes = notes

	notes <- midi.NoteEvent{Type: midi.NoteOn, Note: 60, Velocity: 90}
	msg := listenForNotes(notes)()
	f.send(t, msg)

	assert.Equal(t, "C4", f.model.status.note)
}

func TestQuitClosesSubscriptions(t *testing.T) {
	f := newFixture(t, noSnapshot())
	require.Equal(t, 1, f.bus.Count(bus.ChannelToggleShortcuts))

	cmd := f.key(t, "q")

	require.NotNil(t, cmd)
	assert.Equal(t, 0, f.bus.Count(bus.ChannelToggleShortcuts))
	assert.Empty(t, f.model.View())
}

func TestPanelStartsFromStoredDefinition(t *testing.T) {
	f := newFixture(t, snapshot(`{
		"keySignature": "Eb",
		"analysis": {"enabled": true, "mode": {"roman_numerals": true}},
		"highlight": {"enabled": false, "mode": {"tritonehighlight": true}}
	}`))

	key, _ := f.panel.KeySignature.Selected()
	assert.Equal(t, "Eb", key.Value)
	assert.True(t, f.model.notation["analyze"])
	assert.True(t, f.model.notation["analyze/roman_numerals"])
	assert.False(t, f.model.notation["highlight"])
	assert.True(t, f.model.notation["highlight/tritonehighlight"])
	assert.Empty(t, f.events, "seeding is silent")

	// the seeded box turns off on the first press
	f.focus(t, "Analyze")
	f.key(t, " ")
	assert.Equal(t, []any{controls.SettingChange{Key: "enabled", Value: false}}, f.on(bus.ChannelAnalyzeNotes))
}

func TestPanelWithoutSnapshotStartsDefault(t *testing.T) {
	f := newFixture(t, noSnapshot())

	key, _ := f.panel.KeySignature.Selected()
	assert.Equal(t, controls.DefaultKeySignature, key.Value)
	assert.Empty(t, f.model.notation)
}

func TestKeySignatureRow(t *testing.T) {
	f := newFixture(t, noSnapshot())
	f.focus(t, "Key signature")

	f.key(t, "right")

	assert.Equal(t, []any{"G"}, f.on(bus.ChannelKeySignature))
}
