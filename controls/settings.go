package controls

import (
	"strconv"

	"music-controls/bus"
	"music-controls/config"
	"music-controls/debug"
	"music-controls/instruments"
)

// EventBus is the part of the application bus the controls use
type EventBus interface {
	Broadcast(channel bus.Channel, payload any)
	Subscribe(channel bus.Channel, handler bus.Handler) *bus.Subscription
}

// broadcastHandler broadcasts the selected value on a channel.
// Integer handlers parse the value as base 10 first.
type broadcastHandler struct {
	bus     EventBus
	channel bus.Channel
	integer bool
}

func (h *broadcastHandler) OnChange(sel *Selector) {
	opt, ok := sel.Selected()
	if !ok {
		return
	}
	if !h.integer {
		h.bus.Broadcast(h.channel, opt.Value)
		return
	}
	n, err := strconv.Atoi(opt.Value)
	if err != nil {
		debug.Log("controls", "%s: bad value %q: %v", h.channel, opt.Value, err)
		return
	}
	h.bus.Broadcast(h.channel, n)
}

// NewInstrumentHandler broadcasts the instrument identifier string
func NewInstrumentHandler(b EventBus) ChangeHandler {
	return &broadcastHandler{bus: b, channel: bus.ChannelInstrument}
}

// NewKeyboardSizeHandler broadcasts the number of piano keys
func NewKeyboardSizeHandler(b EventBus) ChangeHandler {
	return &broadcastHandler{bus: b, channel: bus.ChannelKeyboardSize, integer: true}
}

// NewOctaveHandler broadcasts the octave adjustment
func NewOctaveHandler(b EventBus) ChangeHandler {
	return &broadcastHandler{bus: b, channel: bus.ChannelOctaveAdjustment, integer: true}
}

// ShortcutToggle connects the keyboard shortcut checkbox to the bus in both
// directions. External toggles only update the checkbox.
type ShortcutToggle struct {
	bus      EventBus
	checkbox *Checkbox
	sub      *bus.Subscription
}

// NewShortcutToggle wires checkbox to the toggle channel
func NewShortcutToggle(b EventBus, checkbox *Checkbox) *ShortcutToggle {
	t := &ShortcutToggle{bus: b, checkbox: checkbox}
	checkbox.OnToggle(t.OnUserToggle)
	t.sub = b.Subscribe(bus.ChannelToggleShortcuts, t.OnExternalToggle)
	return t
}

// OnUserToggle broadcasts the new state
func (t *ShortcutToggle) OnUserToggle(checked bool) {
	t.bus.Broadcast(bus.ChannelToggleShortcuts, checked)
}

// OnExternalToggle mirrors a broadcast into the checkbox (e.g. the ESC key)
func (t *ShortcutToggle) OnExternalToggle(payload any) {
	if enabled, ok := payload.(bool); ok {
		t.checkbox.SetChecked(enabled)
	}
}

// Close drops the bus subscription
func (t *ShortcutToggle) Close() {
	t.sub.Unsubscribe()
}

// Panel is the set of settings controls with their handlers attached
type Panel struct {
	KeySignature *Selector
	Instrument   *Selector
	KeyboardSize *Selector
	Octave       *Selector
	Shortcuts    *Checkbox
	MIDIInput    *Selector
	MIDIOutput   *Selector

	Notation *NotationDispatcher
	Devices  *DeviceBindingManager

	bus      EventBus
	shortcut *ShortcutToggle
}

// NewPanel builds the controls from config defaults and the instrument catalog
func NewPanel(b EventBus, cfg *config.Config, instrumentList []instruments.Instrument) *Panel {
	p := &Panel{
		KeySignature: NewSelector(KeySignatures...),
		Instrument:   NewSelector(instrumentOptions(instrumentList)...),
		KeyboardSize: NewSelector(intOptions(config.KeyboardSizes)...),
		Octave:       NewSelector(intOptions(config.OctaveAdjustments)...),
		Shortcuts:    NewCheckbox(cfg.General.KeyboardShortcutsEnabled),
		MIDIInput:    NewSelector(),
		MIDIOutput:   NewSelector(),
		Notation:     NewNotationDispatcher(b),
		bus:          b,
	}

	p.KeyboardSize.SelectValue(strconv.Itoa(cfg.General.DefaultKeyboardSize))
	p.Octave.SelectValue("0")
	p.KeySignature.SelectValue(DefaultKeySignature)

	p.KeySignature.SetHandler(NewKeySignatureHandler(b))
	p.Instrument.SetHandler(NewInstrumentHandler(b))
	p.KeyboardSize.SetHandler(NewKeyboardSizeHandler(b))
	p.Octave.SetHandler(NewOctaveHandler(b))
	p.shortcut = NewShortcutToggle(b, p.Shortcuts)

	p.Devices = NewDeviceBindingManager(
		&Binding{Type: DeviceInput, Selector: p.MIDIInput, ReadOnly: cfg.MIDI.InputReadOnly},
		&Binding{Type: DeviceOutput, Selector: p.MIDIOutput, ReadOnly: cfg.MIDI.OutputReadOnly},
	)
	return p
}

// RequestPristine asks for a clean copy of the sheet music
func (p *Panel) RequestPristine() {
	p.bus.Broadcast(bus.ChannelPristine, nil)
}

// Close tears down every subscription the panel holds
func (p *Panel) Close() {
	p.shortcut.Close()
	p.Devices.Close()
}

func instrumentOptions(list []instruments.Instrument) []Option {
	opts := make([]Option, len(list))
	for i, inst := range list {
		opts[i] = Option{Label: inst.Name, Value: inst.ID()}
	}
	return opts
}

func intOptions(values []int) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		s := strconv.Itoa(v)
		opts[i] = Option{Label: s, Value: s}
	}
	return opts
}
