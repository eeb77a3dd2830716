package controls

import "music-controls/bus"

// DefaultKeySignature has no sharps or flats
const DefaultKeySignature = "C"

// KeySignatures are the major keys by number of sharps, then flats.
// Values are what the key signature channel carries.
var KeySignatures = []Option{
	{Label: "C  (no accidentals)", Value: "C"},
	{Label: "G  (1 sharp)", Value: "G"},
	{Label: "D  (2 sharps)", Value: "D"},
	{Label: "A  (3 sharps)", Value: "A"},
	{Label: "E  (4 sharps)", Value: "E"},
	{Label: "B  (5 sharps)", Value: "B"},
	{Label: "F# (6 sharps)", Value: "F#"},
	{Label: "C# (7 sharps)", Value: "C#"},
	{Label: "F  (1 flat)", Value: "F"},
	{Label: "Bb (2 flats)", Value: "Bb"},
	{Label: "Eb (3 flats)", Value: "Eb"},
	{Label: "Ab (4 flats)", Value: "Ab"},
	{Label: "Db (5 flats)", Value: "Db"},
	{Label: "Gb (6 flats)", Value: "Gb"},
	{Label: "Cb (7 flats)", Value: "Cb"},
}

// NewKeySignatureHandler broadcasts the chosen key
func NewKeySignatureHandler(b EventBus) ChangeHandler {
	return &broadcastHandler{bus: b, channel: bus.ChannelKeySignature}
}
