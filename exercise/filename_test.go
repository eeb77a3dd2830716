package exercise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Chapter One: The Beginning", "Chapter_One_The_Beginning"},
		{"A very long introduction text for the exercise", "A_very_long_introduction_text_"},
		{"“Hi” – there", "Hi_there"},
		{"two-part   inventions", "two-part_inventions"},
		{"“”", DefaultFilename},
		{"", DefaultFilename},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Filename(tt.in), "input %q", tt.in)
	}
}

func TestFilenameMaxLength(t *testing.T) {
	name := Filename("abcdefghijklmnopqrstuvwxyz abcdefghijklmnopqrstuvwxyz")
	assert.Len(t, name, 30)
}

func TestNewArtifact(t *testing.T) {
	doc := Document{}
	doc.SetString(FieldIntroText, "Chapter One: The Beginning")

	a := NewArtifact(doc, []byte(`{}`))
	assert.Equal(t, "Chapter_One_The_Beginning.json", a.Name)
	assert.Equal(t, "application/json;charset=utf-8", a.ContentType)

	a = NewArtifact(Document{}, []byte(`{}`))
	assert.Equal(t, "exercise_download.json", a.Name)
}
