package exercise

// Type is the kind of exercise
type Type string

const (
	TypeMatching       Type = "matching"
	TypeAnalytical     Type = "analytical"
	TypeAnalyticalPCS  Type = "analytical_pcs"
	TypeFiguredBass    Type = "figured_bass"
	TypeFiguredBassPCS Type = "figured_bass_pcs"
)

// TypeChoices maps the numbered menu entries to exercise types
var TypeChoices = map[string]Type{
	"1": TypeMatching,
	"2": TypeAnalytical,
	"3": TypeAnalyticalPCS,
	"4": TypeFiguredBass,
	"5": TypeFiguredBassPCS,
}

// TypePrompt is the question asked for the exercise type
const TypePrompt = "Enter a number for exercise type: (1) matching (2) analytical (3) analytical_pcs (4) figured_bass (5) figured_bass_pcs"

// IntroPrompt is the question asked for the intro text
const IntroPrompt = "Enter the Intro Text"

// ParseTypeChoice resolves a menu entry exactly as typed. Anything else,
// including padded input, means "no type chosen".
func ParseTypeChoice(input string) (Type, bool) {
	t, ok := TypeChoices[input]
	return t, ok
}

// Answers is what the user entered in the enrichment form
type Answers struct {
	TypeChoice string
	IntroText  string
}

// Enrich returns a copy of doc with the answers applied. An unrecognized type
// choice leaves the existing type alone; intro text is sanitized and only
// written when something survives sanitization.
func Enrich(doc Document, a Answers) Document {
	out := doc.Clone()
	if t, ok := ParseTypeChoice(a.TypeChoice); ok {
		out.SetString(FieldType, string(t))
	}
	if intro := Sanitize(a.IntroText); intro != "" {
		out.SetString(FieldIntroText, intro)
	}
	return out
}
