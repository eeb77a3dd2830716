package midi

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"music-controls/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
)

var (
	// ErrStaleSelection is returned when a selection was made against a device
	// list that no longer matches the current one (hot-plug in between).
	ErrStaleSelection = errors.New("midi: device list changed since the selection was offered")

	// ErrNoSuchPort is returned when selecting by a name that is not present
	ErrNoSuchPort = errors.New("midi: no such port")

	// ErrNoOutput is returned by Send when no output is selected
	ErrNoOutput = errors.New("midi: no output selected")
)

// Device is one entry of an input or output list.
// Index is the position in the list at the time of the most recent scan.
type Device struct {
	Name  string
	Index int
}

// Registry is the device capability consumed by the controls panel.
//
// Selection is by position plus the list length observed when the choice was
// offered. A position computed before a topology change may point at a
// different device; implementations should reject a count that no longer
// matches their current list.
type Registry interface {
	Inputs() []Device
	Outputs() []Device
	SelectInput(index, count int) error
	SelectOutput(index, count int) error
	Update() error

	// Subscribe registers fn for "updated" notifications and returns the
	// function that removes it.
	Subscribe(fn func(Registry)) (unsubscribe func())
}

// PortSource lists and opens MIDI ports
type PortSource interface {
	Ports(ctx context.Context) (ins, outs []string, err error)
	OpenInput(name string, recv func(msg gomidi.Message, timestampms int32)) (stop func(), err error)
	OpenOutput(name string) (send func(msg gomidi.Message) error, closeFn func() error, err error)
}

type observer struct {
	id uint64
	fn func(Registry)
}

// PortRegistry tracks the ports of a PortSource, notifies observers on
// topology changes and keeps one input and one output open.
type PortRegistry struct {
	source      PortSource
	pollRate    time.Duration
	scanTimeout time.Duration

	mu      sync.RWMutex
	inputs  []string
	outputs []string

	selectedIn  string
	selectedOut string
	stopIn      func()
	send        func(gomidi.Message) error
	closeOut    func() error

	obsMu     sync.Mutex
	observers []observer
	nextObs   uint64

	notes  chan NoteEvent
	closed bool
}

// NewPortRegistry creates a registry over source. Call Update or Run to scan.
func NewPortRegistry(source PortSource, pollRate, scanTimeout time.Duration) *PortRegistry {
	if pollRate <= 0 {
		pollRate = time.Second
	}
	if scanTimeout <= 0 {
		scanTimeout = 3 * time.Second
	}
	return &PortRegistry{
		source:      source,
		pollRate:    pollRate,
		scanTimeout: scanTimeout,
		notes:       make(chan NoteEvent, 32),
	}
}

// Inputs returns the input list from the last scan
func (r *PortRegistry) Inputs() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return toDevices(r.inputs)
}

// Outputs returns the output list from the last scan
func (r *PortRegistry) Outputs() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return toDevices(r.outputs)
}

// Selected returns the names of the open input and output ("" if none)
func (r *PortRegistry) Selected() (in, out string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selectedIn, r.selectedOut
}

// Notes delivers note events from the selected input
func (r *PortRegistry) Notes() <-chan NoteEvent {
	return r.notes
}

// Subscribe registers fn for "updated" notifications
func (r *PortRegistry) Subscribe(fn func(Registry)) func() {
	r.obsMu.Lock()
	r.nextObs++
	id := r.nextObs
	r.observers = append(r.observers, observer{id: id, fn: fn})
	r.obsMu.Unlock()

	return func() {
		r.obsMu.Lock()
		defer r.obsMu.Unlock()
		r.observers = slices.DeleteFunc(slices.Clone(r.observers), func(o observer) bool {
			return o.id == id
		})
	}
}

func (r *PortRegistry) notify() {
	r.obsMu.Lock()
	list := slices.Clone(r.observers)
	r.obsMu.Unlock()

	for _, o := range list {
		o.fn(r)
	}
}

// Update rescans ports and always notifies observers on success
func (r *PortRegistry) Update() error {
	if _, err := r.scan(); err != nil {
		return err
	}
	r.notify()
	return nil
}

// Run polls for topology changes until ctx is done (blocking - run in goroutine).
// Observers are only notified when the port lists actually change.
func (r *PortRegistry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.pollRate)
	defer ticker.Stop()

	// Initial scan
	if changed, err := r.scan(); err == nil && changed {
		r.notify()
	}

	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-ticker.C:
			changed, err := r.scan()
			if err != nil {
				debug.Log("midi", "scan failed: %v", err)
				continue
			}
			if changed {
				r.notify()
			}
		}
	}
}

// scan refreshes the port lists and drops selections whose port vanished
func (r *PortRegistry) scan() (changed bool, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.scanTimeout)
	defer cancel()

	ins, outs, err := r.source.Ports(ctx)
	if err != nil {
		return false, fmt.Errorf("scan ports: %w", err)
	}

	r.mu.Lock()
	changed = !slices.Equal(r.inputs, ins) || !slices.Equal(r.outputs, outs)
	r.inputs = ins
	r.outputs = outs

	var stopIn func()
	var closeOut func() error
	if r.selectedIn != "" && !slices.Contains(ins, r.selectedIn) {
		debug.Log("midi", "input %q disconnected", r.selectedIn)
		stopIn = r.stopIn
		r.selectedIn, r.stopIn = "", nil
	}
	if r.selectedOut != "" && !slices.Contains(outs, r.selectedOut) {
		debug.Log("midi", "output %q disconnected", r.selectedOut)
		closeOut = r.closeOut
		r.selectedOut, r.send, r.closeOut = "", nil, nil
	}
	r.mu.Unlock()

	if stopIn != nil {
		stopIn()
	}
	if closeOut != nil {
		closeOut()
	}

	if changed {
		debug.Log("midi", "topology changed: %d inputs, %d outputs", len(ins), len(outs))
	}
	return changed, nil
}

// SelectInput opens the input at index. count must equal the current number of inputs.
func (r *PortRegistry) SelectInput(index, count int) error {
	name, err := r.resolve(r.Inputs(), index, count)
	if err != nil {
		return err
	}
	return r.openInput(name)
}

// SelectOutput opens the output at index. count must equal the current number of outputs.
func (r *PortRegistry) SelectOutput(index, count int) error {
	name, err := r.resolve(r.Outputs(), index, count)
	if err != nil {
		return err
	}
	return r.openOutput(name)
}

// SelectInputByName opens the input with the given port name
func (r *PortRegistry) SelectInputByName(name string) error {
	r.mu.RLock()
	ok := slices.Contains(r.inputs, name)
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: input %q", ErrNoSuchPort, name)
	}
	return r.openInput(name)
}

// SelectOutputByName opens the output with the given port name
func (r *PortRegistry) SelectOutputByName(name string) error {
	r.mu.RLock()
	ok := slices.Contains(r.outputs, name)
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: output %q", ErrNoSuchPort, name)
	}
	return r.openOutput(name)
}

func (r *PortRegistry) resolve(list []Device, index, count int) (string, error) {
	if count != len(list) || index < 0 || index >= len(list) {
		return "", fmt.Errorf("%w: index %d of %d (now %d)", ErrStaleSelection, index, count, len(list))
	}
	return list[index].Name, nil
}

func (r *PortRegistry) openInput(name string) error {
	r.mu.Lock()
	if r.selectedIn == name {
		r.mu.Unlock()
		return nil
	}
	prev := r.stopIn
	r.selectedIn, r.stopIn = "", nil
	r.mu.Unlock()

	// Stop outside the lock: the driver may wait for a running callback
	if prev != nil {
		prev()
	}

	stop, err := r.source.OpenInput(name, r.onMessage)
	if err != nil {
		return fmt.Errorf("open input %q: %w", name, err)
	}

	r.mu.Lock()
	r.selectedIn, r.stopIn = name, stop
	r.mu.Unlock()

	debug.Log("midi", "input selected: %s", name)
	return nil
}

func (r *PortRegistry) openOutput(name string) error {
	r.mu.Lock()
	if r.selectedOut == name {
		r.mu.Unlock()
		return nil
	}
	prev := r.closeOut
	r.selectedOut, r.send, r.closeOut = "", nil, nil
	r.mu.Unlock()

	if prev != nil {
		prev()
	}

	send, closeFn, err := r.source.OpenOutput(name)
	if err != nil {
		return fmt.Errorf("open output %q: %w", name, err)
	}

	r.mu.Lock()
	r.selectedOut, r.send, r.closeOut = name, send, closeFn
	r.mu.Unlock()

	debug.Log("midi", "output selected: %s", name)
	return nil
}

// Send writes msg to the selected output
func (r *PortRegistry) Send(msg gomidi.Message) error {
	r.mu.RLock()
	send := r.send
	r.mu.RUnlock()

	if send == nil {
		return ErrNoOutput
	}
	return send(msg)
}

func (r *PortRegistry) onMessage(msg gomidi.Message, timestampms int32) {
	ev, ok := parseNote(msg)
	if !ok {
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}

	debug.LogEvery(16, "midi", "note %s vel=%d", ev.Name(), ev.Velocity)
	select {
	case r.notes <- ev:
	default:
	}
}

// Close releases the open ports and closes the Notes channel
func (r *PortRegistry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	stopIn, closeOut := r.stopIn, r.closeOut
	r.selectedIn, r.stopIn = "", nil
	r.selectedOut, r.send, r.closeOut = "", nil, nil
	r.mu.Unlock()

	if stopIn != nil {
		stopIn()
	}
	var err error
	if closeOut != nil {
		err = closeOut()
	}

	r.mu.Lock()
	r.closed = true
	close(r.notes)
	r.mu.Unlock()

	return err
}

func toDevices(names []string) []Device {
	devices := make([]Device, len(names))
	for i, n := range names {
		devices[i] = Device{Name: n, Index: i}
	}
	return devices
}
