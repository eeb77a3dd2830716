package exercise

import "regexp"

// DefaultFilename is used when the intro text yields nothing usable
const DefaultFilename = "exercise_download"

const maxFilenameLen = 30

var (
	filenameStrip  = regexp.MustCompile(`[^-\w ]+`)
	filenameSpaces = regexp.MustCompile(` +`)
)

// Filename derives a download name (without extension) from intro text
func Filename(introText string) string {
	name := filenameStrip.ReplaceAllString(introText, "")
	name = filenameSpaces.ReplaceAllString(name, "_")
	// only ASCII is left, so byte length is character length
	if len(name) > maxFilenameLen {
		name = name[:maxFilenameLen]
	}
	if name == "" {
		return DefaultFilename
	}
	return name
}
