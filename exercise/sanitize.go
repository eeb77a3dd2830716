package exercise

import (
	"regexp"
	"strings"
)

var disallowed = regexp.MustCompile(`[^-\w\s.:;,!?/&*()\[\]'"“”‘’–—]+`)

// Applied in order, each globally. Angle brackets never get past
// disallowed: intro text is rendered as markup downstream.
var typography = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`^"`), "“"},
	{regexp.MustCompile(` "`), " “"},
	{regexp.MustCompile(`^'`), "‘"},
	{regexp.MustCompile(` '`), " ‘"},
	{regexp.MustCompile(`"$`), "”"},
	{regexp.MustCompile(`" `), "” "},
	{regexp.MustCompile(`'$`), "’"},
	{regexp.MustCompile(`' `), "’ "},
	{regexp.MustCompile(`'(s)\b`), "’$1"},
}

var (
	emDash = regexp.MustCompile(`-{3}`)
	enDash = regexp.MustCompile(`-{2}`)
)

// Sanitize strips characters outside the intro text whitelist and converts
// ASCII quotes and dashes to their typographic forms. Sanitize(Sanitize(s))
// equals Sanitize(s).
func Sanitize(text string) string {
	s := disallowed.ReplaceAllString(text, "")
	for _, rule := range typography {
		s = rule.re.ReplaceAllString(s, rule.repl)
	}
	s = contractions(s)
	s = emDash.ReplaceAllString(s, "—")
	s = enDash.ReplaceAllString(s, "–")
	return s
}

// contractions turns an apostrophe between two word characters (don't, o'clock)
// into a closing single quote
func contractions(s string) string {
	if !strings.Contains(s, "'") {
		return s
	}
	r := []rune(s)
	for i := 1; i < len(r)-1; i++ {
		if r[i] == '\'' && isWord(r[i-1]) && isWord(r[i+1]) {
			r[i] = '’'
		}
	}
	return string(r)
}

func isWord(r rune) bool {
	return r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
