package exercise

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ContentType of a downloaded exercise
const ContentType = "application/json;charset=utf-8"

// Artifact is a file ready to be saved
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewArtifact builds the download artifact for a serialized document
func NewArtifact(doc Document, data []byte) Artifact {
	return Artifact{
		Name:        Filename(doc.IntroText()) + ".json",
		ContentType: ContentType,
		Data:        data,
	}
}

// Saver stores an artifact and returns where it ended up
type Saver interface {
	Save(a Artifact) (string, error)
}

// DirSaver writes artifacts into a directory. Existing files are never
// overwritten: "name.json" becomes "name (1).json" and so on.
type DirSaver struct {
	Dir string

	write func(f *os.File, b []byte) (int, error) // nil writes with f.Write
}

const maxDuplicates = 1000

func (s DirSaver) Save(a Artifact) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	ext := filepath.Ext(a.Name)
	base := strings.TrimSuffix(a.Name, ext)

	for i := 0; i < maxDuplicates; i++ {
		name := a.Name
		if i > 0 {
			name = fmt.Sprintf("%s (%d)%s", base, i, ext)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return "", fmt.Errorf("save %s: %w", name, err)
		}
		write := s.write
		if write == nil {
			write = (*os.File).Write
		}
		if _, err := write(f, a.Data); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("write %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", fmt.Errorf("close %s: %w", name, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("save %s: too many files with the same name", a.Name)
}
