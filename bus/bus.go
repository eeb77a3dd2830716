package bus

import (
	"sync"

	"music-controls/debug"
)

// Channel names a broadcast topic
type Channel string

// Broadcast channels used by the controls panel
const (
	ChannelInstrument       Channel = "instrument"
	ChannelKeyboardSize     Channel = "keyboard size"
	ChannelOctaveAdjustment Channel = "octave adjustment"
	ChannelToggleShortcuts  Channel = "toggle shortcuts"
	ChannelHighlightNotes   Channel = "highlight notes"
	ChannelAnalyzeNotes     Channel = "analyze notes"
	ChannelPristine         Channel = "pristine sheet"
	ChannelKeySignature     Channel = "key signature"
)

// Event is a single broadcast
type Event struct {
	Channel Channel
	Payload any
}

// Handler receives the payload of a broadcast
type Handler func(payload any)

// Bus is a process-wide publish/subscribe hub with named channels.
// Handlers run synchronously in the broadcasting goroutine, in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Channel][]*Subscription
	taps   []*Subscription // receive every channel
}

// Subscription is returned by Subscribe and can be cancelled with Unsubscribe
type Subscription struct {
	bus     *Bus // set once by add
	id      uint64
	channel Channel
	all     bool
	fn      func(Event)
	removed bool // guarded by bus.mu
}

// New creates an empty bus
func New() *Bus {
	return &Bus{
		subs: make(map[Channel][]*Subscription),
	}
}

// Broadcast delivers payload to every subscriber of channel
func (b *Bus) Broadcast(channel Channel, payload any) {
	b.mu.RLock()
	targets := make([]*Subscription, 0, len(b.subs[channel])+len(b.taps))
	targets = append(targets, b.subs[channel]...)
	targets = append(targets, b.taps...)
	b.mu.RUnlock()

	debug.Log("bus", "broadcast %q payload=%v subscribers=%d", channel, payload, len(targets))

	// Call outside the lock so handlers may subscribe or broadcast themselves
	evt := Event{Channel: channel, Payload: payload}
	for _, s := range targets {
		s.fn(evt)
	}
}

// Subscribe registers handler for channel
func (b *Bus) Subscribe(channel Channel, handler Handler) *Subscription {
	return b.add(&Subscription{
		channel: channel,
		fn:      func(e Event) { handler(e.Payload) },
	})
}

// SubscribeAll registers fn for every channel (used for status displays and logs)
func (b *Bus) SubscribeAll(fn func(Event)) *Subscription {
	return b.add(&Subscription{all: true, fn: fn})
}

func (b *Bus) add(s *Subscription) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	s.id = b.nextID
	s.bus = b
	if s.all {
		b.taps = append(b.taps, s)
	} else {
		b.subs[s.channel] = append(b.subs[s.channel], s)
	}
	return s
}

// Unsubscribe removes the subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	b := s.bus

	b.mu.Lock()
	defer b.mu.Unlock()

	if s.removed {
		return
	}
	s.removed = true
	if s.all {
		b.taps = remove(b.taps, s.id)
	} else {
		b.subs[s.channel] = remove(b.subs[s.channel], s.id)
		if len(b.subs[s.channel]) == 0 {
			delete(b.subs, s.channel)
		}
	}
}

// Count returns the number of subscribers on channel (excluding SubscribeAll taps)
func (b *Bus) Count(channel Channel) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[channel])
}

// remove copies so that in-flight Broadcast snapshots stay valid
func remove(list []*Subscription, id uint64) []*Subscription {
	out := make([]*Subscription, 0, len(list))
	for _, s := range list {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}
