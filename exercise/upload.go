package exercise

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// UploadPath is where new exercises are created, relative to the server base URL
const UploadPath = "exercises/add"

// ErrUpload wraps every upload failure
var ErrUpload = errors.New("exercise: upload failed")

// Uploader sends a serialized exercise to the server and returns its ID
type Uploader interface {
	Upload(ctx context.Context, payload []byte) (id string, err error)
}

// HTTPUploader posts exercises as a form with a single "data" field
type HTTPUploader struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPUploader creates an uploader with a bounded client timeout
func NewHTTPUploader(baseURL string) *HTTPUploader {
	return &HTTPUploader{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Endpoint returns the full creation URL
func (u *HTTPUploader) Endpoint() string {
	return strings.TrimRight(u.BaseURL, "/") + "/" + UploadPath
}

func (u *HTTPUploader) Upload(ctx context.Context, payload []byte) (string, error) {
	form := url.Values{}
	form.Set("data", string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.Endpoint(), bytes.NewReader([]byte(form.Encode())))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrUpload, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: server returned %s", ErrUpload, resp.Status)
	}

	var out struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrUpload, err)
	}
	id := parseID(out.ID)
	if id == "" {
		return "", fmt.Errorf("%w: response has no id", ErrUpload)
	}
	return id, nil
}

// parseID accepts both "id": 12 and "id": "12"
func parseID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
