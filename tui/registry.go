package tui

import (
	"slices"

	"music-controls/midi"
)

// loopRegistry re-delivers registry notifications on the bubbletea loop so
// that selectors are only ever touched from Update.
type loopRegistry struct {
	midi.Registry

	signals     chan struct{}
	observers   []loopObserver
	nextID      int
	unsubscribe func()
}

type loopObserver struct {
	id int
	fn func(midi.Registry)
}

func newLoopRegistry(r midi.Registry) *loopRegistry {
	lr := &loopRegistry{
		Registry: r,
		signals:  make(chan struct{}, 16),
	}
	lr.unsubscribe = r.Subscribe(func(midi.Registry) {
		select {
		case lr.signals <- struct{}{}:
		default:
			// 16 renders already queued; each one reads the current lists
		}
	})
	return lr
}

// Subscribe is called from the loop (by the binding manager)
func (lr *loopRegistry) Subscribe(fn func(midi.Registry)) func() {
	lr.nextID++
	id := lr.nextID
	lr.observers = append(lr.observers, loopObserver{id: id, fn: fn})
	return func() {
		lr.observers = slices.DeleteFunc(lr.observers, func(o loopObserver) bool { return o.id == id })
	}
}

// deliver runs the loop-side observers; called from Update
func (lr *loopRegistry) deliver() {
	for _, o := range slices.Clone(lr.observers) {
		o.fn(lr)
	}
}

// Selected passes through when the wrapped registry tracks open ports
func (lr *loopRegistry) Selected() (in, out string) {
	if rep, ok := lr.Registry.(interface{ Selected() (string, string) }); ok {
		return rep.Selected()
	}
	return "", ""
}

func (lr *loopRegistry) Close() {
	if lr.unsubscribe != nil {
		lr.unsubscribe()
		lr.unsubscribe = nil
	}
}
