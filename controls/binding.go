package controls

import (
	"strconv"

	"music-controls/debug"
	"music-controls/midi"
)

// DeviceType distinguishes the two device lists
type DeviceType string

const (
	DeviceInput  DeviceType = "input"
	DeviceOutput DeviceType = "output"
)

// PlaceholderLabel is shown when no device of a type is present
const PlaceholderLabel = "--"

// Binding ties a selector to one device list
type Binding struct {
	Type     DeviceType
	Selector *Selector
	ReadOnly bool
}

// DeviceBindingManager keeps the input and output selectors in sync with a
// device registry. Selection goes through the registry by position and the
// option count at the time of the choice; see midi.Registry.
type DeviceBindingManager struct {
	bindings    []*Binding
	registry    midi.Registry
	unsubscribe func()
}

// NewDeviceBindingManager creates a manager for the given bindings
func NewDeviceBindingManager(bindings ...*Binding) *DeviceBindingManager {
	return &DeviceBindingManager{bindings: bindings}
}

// BindRegistry renders on every "updated" notification from registry and
// once right away, for devices that were present before binding.
// A previous registry subscription is dropped first.
func (m *DeviceBindingManager) BindRegistry(registry midi.Registry) {
	m.Close()
	m.registry = registry
	m.unsubscribe = registry.Subscribe(m.Render)
	m.Render(registry)
}

// Close drops the registry subscription
func (m *DeviceBindingManager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Refresh asks the registry to rescan; its notification re-renders
func (m *DeviceBindingManager) Refresh() error {
	if m.registry == nil {
		return nil
	}
	if err := m.registry.Update(); err != nil {
		debug.Log("binding", "refresh failed: %v", err)
		return err
	}
	return nil
}

// Render rebuilds every selector from the registry's current lists
func (m *DeviceBindingManager) Render(registry midi.Registry) {
	for _, b := range m.bindings {
		var devices []midi.Device
		if b.Type == DeviceInput {
			devices = registry.Inputs()
		} else {
			devices = registry.Outputs()
		}

		b.Selector.SetOptions(deviceOptions(devices))
		markSelected(registry, b, devices)

		if b.ReadOnly {
			b.Selector.SetDisabled(true)
			b.Selector.SetHandler(nil)
			continue
		}
		b.Selector.SetDisabled(false)
		b.Selector.SetHandler(&deviceSelectHandler{registry: registry, deviceType: b.Type})
	}
	debug.Log("binding", "rendered %d inputs, %d outputs", len(registry.Inputs()), len(registry.Outputs()))
}

func deviceOptions(devices []midi.Device) []Option {
	if len(devices) == 0 {
		return []Option{{Label: PlaceholderLabel, Disabled: true}}
	}
	opts := make([]Option, len(devices))
	for i, d := range devices {
		opts[i] = Option{Label: d.Name, Value: strconv.Itoa(i)}
	}
	return opts
}

// selectionReporter is implemented by registries that know which ports are open
type selectionReporter interface {
	Selected() (in, out string)
}

// markSelected points the selector at the device the registry has open
func markSelected(registry midi.Registry, b *Binding, devices []midi.Device) {
	rep, ok := registry.(selectionReporter)
	if !ok {
		return
	}
	in, out := rep.Selected()
	name := out
	if b.Type == DeviceInput {
		name = in
	}
	if name == "" {
		return
	}
	for _, d := range devices {
		if d.Name == name {
			b.Selector.SelectValue(strconv.Itoa(d.Index))
			return
		}
	}
}

// deviceSelectHandler forwards a selector choice to the registry
type deviceSelectHandler struct {
	registry   midi.Registry
	deviceType DeviceType
}

func (h *deviceSelectHandler) OnChange(sel *Selector) {
	index, err := selectedInt(sel)
	if err != nil {
		debug.Log("binding", "%s: bad option value: %v", h.deviceType, err)
		return
	}
	count := sel.Len()

	if h.deviceType == DeviceInput {
		err = h.registry.SelectInput(index, count)
	} else {
		err = h.registry.SelectOutput(index, count)
	}
	if err != nil {
		debug.Log("binding", "select %s %d/%d: %v", h.deviceType, index, count, err)
	}
}
