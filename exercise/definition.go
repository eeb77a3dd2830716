package exercise

import (
	"encoding/json"

	"music-controls/debug"
)

// Notation settings fields an exercise may carry
const (
	FieldKeySignature = "keySignature"
	FieldAnalysis     = "analysis"
	FieldHighlight    = "highlight"
)

// NotationSettings is the stored state of the analyze or highlight options
type NotationSettings struct {
	Enabled bool            `json:"enabled"`
	Mode    map[string]bool `json:"mode,omitempty"`
}

// Definition holds the panel settings an exercise was saved with.
// Missing or malformed fields are left at their zero value.
type Definition struct {
	KeySignature string
	Analysis     NotationSettings
	Highlight    NotationSettings
}

// Definition reads the panel settings out of the document
func (d Document) Definition() Definition {
	def := Definition{KeySignature: d.String(FieldKeySignature)}
	d.decode(FieldAnalysis, &def.Analysis)
	d.decode(FieldHighlight, &def.Highlight)
	return def
}

func (d Document) decode(key string, v any) {
	raw, ok := d[key]
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, v); err != nil {
		debug.Log("export", "ignoring %s: %v", key, err)
	}
}
