package controls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music-controls/bus"
	"music-controls/config"
	"music-controls/instruments"
)

// recorder collects every broadcast on the bus
type recorder struct {
	events []bus.Event
}

func record(b *bus.Bus) *recorder {
	r := &recorder{}
	b.SubscribeAll(func(e bus.Event) { r.events = append(r.events, e) })
	return r
}

func (r *recorder) on(channel bus.Channel) []any {
	var out []any
	for _, e := range r.events {
		if e.Channel == channel {
			out = append(out, e.Payload)
		}
	}
	return out
}

func newTestPanel(t *testing.T) (*Panel, *bus.Bus, *recorder) {
	t.Helper()
	b := bus.New()
	rec := record(b)
	cfg := config.DefaultConfig()
	list := []instruments.Instrument{{Num: 0, Name: "Piano", Enabled: true}, {Num: 19, Name: "Organ", Enabled: true}}
	p := NewPanel(b, cfg, list)
	t.Cleanup(p.Close)
	return p, b, rec
}

func TestPanelDefaults(t *testing.T) {
	p, _, rec := newTestPanel(t)

	size, ok := p.KeyboardSize.Selected()
	require.True(t, ok)
	assert.Equal(t, "49", size.Value)

	octave, _ := p.Octave.Selected()
	assert.Equal(t, "0", octave.Value)
	assert.Equal(t, 5, p.Octave.Len())
	assert.False(t, p.Shortcuts.Checked())
	assert.Empty(t, rec.events, "building the panel broadcasts nothing")
}

func TestSelectorBroadcasts(t *testing.T) {
	p, _, rec := newTestPanel(t)

	require.NoError(t, p.Instrument.Choose(1))
	require.NoError(t, p.KeyboardSize.Choose(4))
	require.NoError(t, p.Octave.Choose(0))

	assert.Equal(t, []any{"19"}, rec.on(bus.ChannelInstrument))
	assert.Equal(t, []any{88}, rec.on(bus.ChannelKeyboardSize))
	assert.Equal(t, []any{-2}, rec.on(bus.ChannelOctaveAdjustment))
}

func TestOctaveStepWraps(t *testing.T) {
	p, _, rec := newTestPanel(t)

	require.NoError(t, p.Octave.Step(1))
	require.NoError(t, p.Octave.Step(1))
	require.NoError(t, p.Octave.Step(1))

	assert.Equal(t, []any{1, 2, -2}, rec.on(bus.ChannelOctaveAdjustment))
}

func TestShortcutToggleBroadcastsOncePerToggle(t *testing.T) {
	p, _, rec := newTestPanel(t)

	p.Shortcuts.Toggle()
	p.Shortcuts.Toggle()

	assert.Equal(t, []any{true, false}, rec.on(bus.ChannelToggleShortcuts))
}

func TestShortcutExternalUpdateDoesNotRebroadcast(t *testing.T) {
	p, b, rec := newTestPanel(t)

	p.shortcut.OnExternalToggle(true)
	assert.True(t, p.Shortcuts.Checked())
	assert.Empty(t, rec.on(bus.ChannelToggleShortcuts))

	// ESC key elsewhere in the app broadcasts once; the checkbox follows without echoing
	b.Broadcast(bus.ChannelToggleShortcuts, false)
	assert.False(t, p.Shortcuts.Checked())
	assert.Equal(t, []any{false}, rec.on(bus.ChannelToggleShortcuts))
}

func TestShortcutCloseUnsubscribes(t *testing.T) {
	b := bus.New()
	cb := NewCheckbox(false)
	toggle := NewShortcutToggle(b, cb)
	require.Equal(t, 1, b.Count(bus.ChannelToggleShortcuts))

	toggle.Close()
	b.Broadcast(bus.ChannelToggleShortcuts, true)
	assert.False(t, cb.Checked())
	assert.Equal(t, 0, b.Count(bus.ChannelToggleShortcuts))
}

func TestNotationDispatch(t *testing.T) {
	p, _, rec := newTestPanel(t)

	p.Notation.ChangeCategory("analyze", true)
	p.Notation.ChangeOption("highlight", "roothighlight", false)

	assert.Equal(t, []any{SettingChange{Key: "enabled", Value: true}}, rec.on(bus.ChannelAnalyzeNotes))
	assert.Equal(t, []any{SettingChange{Key: "mode", Value: map[string]bool{"roothighlight": false}}}, rec.on(bus.ChannelHighlightNotes))
}

func TestNotationUnknownCategoryIsIgnored(t *testing.T) {
	p, _, rec := newTestPanel(t)

	p.Notation.ChangeCategory("staff", true)
	p.Notation.ChangeOption("staff", "treble", true)

	assert.Empty(t, rec.events)
}

func TestRequestPristine(t *testing.T) {
	p, _, rec := newTestPanel(t)

	p.RequestPristine()

	require.Len(t, rec.events, 1)
	assert.Equal(t, bus.ChannelPristine, rec.events[0].Channel)
	assert.Nil(t, rec.events[0].Payload)
}

func TestCategoriesHaveDispatchEntries(t *testing.T) {
	d := NewNotationDispatcher(bus.New())
	for _, c := range NotationCategories {
		_, ok := d.eventFor[c.Name]
		assert.True(t, ok, c.Name)
		assert.NotEmpty(t, c.Modes)
	}
}

func TestSelectorRejectsOutOfRange(t *testing.T) {
	s := NewSelector(Option{Label: "a", Value: "a"})
	assert.Error(t, s.Choose(3))
	s.SetDisabled(true)
	assert.ErrorIs(t, s.Choose(0), ErrDisabled)
	assert.ErrorIs(t, NewSelector().Step(1), ErrDisabled)
}

func TestKeySignatureBroadcasts(t *testing.T) {
	p, _, rec := newTestPanel(t)

	key, ok := p.KeySignature.Selected()
	require.True(t, ok)
	assert.Equal(t, DefaultKeySignature, key.Value)
	assert.Len(t, KeySignatures, 15)

	require.NoError(t, p.KeySignature.Step(-1))

	assert.Equal(t, []any{"Cb"}, rec.on(bus.ChannelKeySignature))
}
