package exercise

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoSnapshot means there is no usable current state to export:
// either nothing was stored or the stored value is not a JSON object.
var ErrNoSnapshot = errors.New("exercise: cannot find current state")

// Document is an exercise as stored in the current state. Fields are kept as
// raw JSON so everything the snapshot contains is carried through unchanged.
type Document map[string]json.RawMessage

// Well-known document fields
const (
	FieldIntroText = "introText"
	FieldType      = "type"
)

// ParseDocument decodes a stored snapshot. Empty input, null, and anything
// that is not a JSON object are all reported as ErrNoSnapshot.
func ParseDocument(data []byte) (Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, ErrNoSnapshot
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSnapshot, err)
	}
	if doc == nil {
		return nil, ErrNoSnapshot
	}
	return doc, nil
}

// Clone returns a copy that shares nothing with d
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// String returns a string field, or "" when absent or not a string
func (d Document) String(key string) string {
	raw, ok := d[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// SetString sets key to a JSON string
func (d Document) SetString(key, value string) {
	d[key] = encodeString(value)
}

// IntroText returns the introText field
func (d Document) IntroText() string {
	return d.String(FieldIntroText)
}

// Type returns the type field
func (d Document) Type() Type {
	return Type(d.String(FieldType))
}

// Marshal serializes the document compactly (no indentation, no HTML escaping)
func (d Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]json.RawMessage(d)); err != nil {
		return nil, fmt.Errorf("encode exercise: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func encodeString(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.Encode(s) // a string always encodes
	return bytes.TrimRight(buf.Bytes(), "\n")
}
