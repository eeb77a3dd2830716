package midi

import (
	"strconv"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// NoteEvent is a note played on the selected input device
type NoteEvent struct {
	Type     uint8 // NoteOn or NoteOff
	Channel  uint8
	Note     uint8
	Velocity uint8
}

// parseNote extracts a note event from a raw message.
// NoteOn with velocity 0 is reported as NoteOff.
func parseNote(msg gomidi.Message) (NoteEvent, bool) {
	var channel, note, velocity uint8
	switch {
	case msg.GetNoteOn(&channel, &note, &velocity):
		if velocity == 0 {
			return NoteEvent{Type: NoteOff, Channel: channel, Note: note}, true
		}
		return NoteEvent{Type: NoteOn, Channel: channel, Note: note, Velocity: velocity}, true
	case msg.GetNoteOff(&channel, &note, &velocity):
		return NoteEvent{Type: NoteOff, Channel: channel, Note: note, Velocity: velocity}, true
	}
	return NoteEvent{}, false
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Name returns scientific pitch notation, e.g. 60 -> C4
func (e NoteEvent) Name() string {
	octave := int(e.Note)/12 - 1
	return noteNames[e.Note%12] + strconv.Itoa(octave)
}

