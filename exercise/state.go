package exercise

import (
	"fmt"
	"os"
)

// StateProvider gives read-only access to the current notation state
type StateProvider interface {
	CurrentState() ([]byte, error)
}

// StateFunc adapts a function to StateProvider
type StateFunc func() ([]byte, error)

func (f StateFunc) CurrentState() ([]byte, error) { return f() }

// FileState reads the current state from a JSON file that the notation
// side keeps up to date. It is never written from here.
type FileState struct {
	Path string
}

func (f FileState) CurrentState() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNoSnapshot, f.Path)
		}
		return nil, fmt.Errorf("read current state: %w", err)
	}
	return data, nil
}
