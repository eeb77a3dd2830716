package controls

import (
	"music-controls/bus"
)

// SettingChange is the payload of the highlight and analyze channels.
// Key is "enabled" (Value bool) or "mode" (Value map[string]bool).
type SettingChange struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// NotationCategory is a group of options in the notation tab
type NotationCategory struct {
	Name  string
	Label string
	Modes []Mode
}

// Mode is a single option inside a category
type Mode struct {
	Name  string
	Label string
}

// NotationCategories are the widgets shown in the notation tab
var NotationCategories = []NotationCategory{
	{
		Name:  "analyze",
		Label: "Analyze",
		Modes: []Mode{
			{"note_names", "Note names"},
			{"helmholtz", "Helmholtz pitch"},
			{"scientific_pitch", "Scientific pitch"},
			{"pitch_class", "Pitch class"},
			{"scale_degree", "Scale degrees"},
			{"solfege", "Solfege"},
			{"intervals", "Intervals"},
			{"roman_numerals", "Roman numerals"},
			{"figured_bass", "Figured bass"},
		},
	},
	{
		Name:  "highlight",
		Label: "Highlight",
		Modes: []Mode{
			{"roothighlight", "Roots"},
			{"tritonehighlight", "Tritones"},
			{"doublinghighlight", "Doublings"},
			{"octaveshighlight", "Parallel octaves"},
			{"fifthshighlight", "Parallel fifths"},
		},
	},
}

// NotationDispatcher maps category changes to broadcasts through a lookup
// table; categories without an entry are ignored.
type NotationDispatcher struct {
	bus      EventBus
	eventFor map[string]bus.Channel
}

// NewNotationDispatcher creates a dispatcher for the analyze and highlight widgets
func NewNotationDispatcher(b EventBus) *NotationDispatcher {
	return &NotationDispatcher{
		bus: b,
		eventFor: map[string]bus.Channel{
			"highlight": bus.ChannelHighlightNotes,
			"analyze":   bus.ChannelAnalyzeNotes,
		},
	}
}

// ChangeCategory is a whole category being switched on or off
func (d *NotationDispatcher) ChangeCategory(category string, enabled bool) {
	channel, ok := d.eventFor[category]
	if !ok {
		return
	}
	d.bus.Broadcast(channel, SettingChange{Key: "enabled", Value: enabled})
}

// ChangeOption is a single mode inside a category being switched
func (d *NotationDispatcher) ChangeOption(category, mode string, enabled bool) {
	channel, ok := d.eventFor[category]
	if !ok {
		return
	}
	d.bus.Broadcast(channel, SettingChange{Key: "mode", Value: map[string]bool{mode: enabled}})
}
