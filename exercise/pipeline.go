package exercise

import (
	"context"
	"errors"
	"fmt"

	"music-controls/debug"
)

// Destination of an export
type Destination string

const (
	Download Destination = "download"
	Upload   Destination = "upload"
)

// Result describes a finished export
type Result struct {
	Destination Destination
	Document    Document
	Data        []byte

	// Upload
	ExerciseID string

	// Download
	Artifact Artifact
	Path     string
}

// Pipeline exports the current state as JSON
type Pipeline struct {
	State    StateProvider
	Uploader Uploader
	Saver    Saver
}

// Load reads and parses the current snapshot. Callers use it to decide
// whether to ask the enrichment questions at all.
func (p *Pipeline) Load() (Document, error) {
	if p.State == nil {
		return nil, ErrNoSnapshot
	}
	data, err := p.State.CurrentState()
	if err != nil {
		debug.Log("export", "Cannot find JSON data: %v", err)
		if errors.Is(err, ErrNoSnapshot) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrNoSnapshot, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		debug.Log("export", "Cannot find JSON data: %v", err)
		return nil, err
	}
	return doc, nil
}

// Export loads the snapshot, applies the answers, serializes it and delivers
// it. Any destination other than Upload downloads. Uploads are not retried.
func (p *Pipeline) Export(ctx context.Context, dest Destination, answers Answers) (Result, error) {
	doc, err := p.Load()
	if err != nil {
		return Result{}, err
	}

	doc = Enrich(doc, answers)
	data, err := doc.Marshal()
	if err != nil {
		return Result{}, err
	}

	res := Result{Document: doc, Data: data}

	if dest == Upload {
		res.Destination = Upload
		if p.Uploader == nil {
			return res, fmt.Errorf("%w: no uploader configured", ErrUpload)
		}
		debug.Log("export", "Upload %s", data)
		id, err := p.Uploader.Upload(ctx, data)
		if err != nil {
			debug.Log("export", "upload failed: %v", err)
			return res, err
		}
		res.ExerciseID = id
		debug.Log("export", "uploaded exercise id=%s", id)
		return res, nil
	}

	res.Destination = Download
	debug.Log("export", "Download %s", data)
	res.Artifact = NewArtifact(doc, data)
	if p.Saver == nil {
		return res, nil
	}
	path, err := p.Saver.Save(res.Artifact)
	if err != nil {
		return res, err
	}
	res.Path = path
	return res, nil
}
