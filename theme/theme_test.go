package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPalette(t *testing.T) {
	p := Default()
	assert.Equal(t, "staff", p.Name)
	assert.Len(t, p.Colors, 10)
	assert.Equal(t, RGB{24, 22, 36}, p.Lookup(0))
	assert.Equal(t, RGB{144, 216, 128}, p.Lookup(1))
}

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader("GIMP Palette\nName: two\n# comment\n0 0 0\n200 100 50 name\n"))
	require.NoError(t, err)
	assert.Equal(t, "two", p.Name)
	assert.Equal(t, RGB{100, 50, 25}, p.Lookup(0.5))

	_, err = ParseGPL(strings.NewReader("GIMP Palette\n"))
	assert.Error(t, err)
}

func TestThemeColors(t *testing.T) {
	th := New(Default())
	assert.Equal(t, "#181624", string(th.BG()))
	assert.NotEqual(t, th.Accent(), th.Muted())
}
