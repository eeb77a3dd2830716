package tui

import (
	"music-controls/controls"
	"music-controls/exercise"
)

type rowKind int

const (
	rowSelector rowKind = iota
	rowCheckbox
	rowButton
)

type action int

const (
	actNone action = iota
	actRefresh
	actPristine
	actDownload
	actUpload
	actInfo
)

// row is one focusable line of the panel
type row struct {
	section  string
	label    string
	kind     rowKind
	selector *controls.Selector
	checked  func() bool
	toggle   func()
	action   action
}

// notationState remembers which analyze/highlight boxes are ticked
type notationState map[string]bool

func notationKey(category, mode string) string {
	if mode == "" {
		return category
	}
	return category + "/" + mode
}

// seed marks the boxes an exercise was saved with; nothing is broadcast
func (s notationState) seed(category string, settings exercise.NotationSettings) {
	s[notationKey(category, "")] = settings.Enabled
	for mode, on := range settings.Mode {
		s[notationKey(category, mode)] = on
	}
}

func buildRows(p *controls.Panel, notation notationState) []row {
	rows := []row{
		{section: "Key", label: "Key signature", kind: rowSelector, selector: p.KeySignature},

		{section: "Sound", label: "Instrument", kind: rowSelector, selector: p.Instrument},
		{section: "Sound", label: "Piano keys", kind: rowSelector, selector: p.KeyboardSize},
		{section: "Sound", label: "Octave adjustment", kind: rowSelector, selector: p.Octave},
		{section: "Sound", label: "Computer keyboard", kind: rowCheckbox, checked: p.Shortcuts.Checked, toggle: p.Shortcuts.Toggle},

		{section: "MIDI", label: "Input", kind: rowSelector, selector: p.MIDIInput},
		{section: "MIDI", label: "Output", kind: rowSelector, selector: p.MIDIOutput},
		{section: "MIDI", label: "Refresh devices", kind: rowButton, action: actRefresh},
	}

	for _, cat := range controls.NotationCategories {
		rows = append(rows, notationRow(p.Notation, notation, cat.Label, cat.Label, cat.Name, ""))
		for _, mode := range cat.Modes {
			rows = append(rows, notationRow(p.Notation, notation, cat.Label, "  "+mode.Label, cat.Name, mode.Name))
		}
	}

	return append(rows,
		row{section: "Exercise", label: "Pristine sheet", kind: rowButton, action: actPristine},
		row{section: "Exercise", label: "Download JSON", kind: rowButton, action: actDownload},
		row{section: "Exercise", label: "Upload JSON", kind: rowButton, action: actUpload},
		row{section: "Exercise", label: "About", kind: rowButton, action: actInfo},
	)
}

func notationRow(d *controls.NotationDispatcher, state notationState, section, label, category, mode string) row {
	key := notationKey(category, mode)
	return row{
		section: section,
		label:   label,
		kind:    rowCheckbox,
		checked: func() bool { return state[key] },
		toggle: func() {
			state[key] = !state[key]
			if mode == "" {
				d.ChangeCategory(category, state[key])
			} else {
				d.ChangeOption(category, mode, state[key])
			}
		},
	}
}
