package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// KeyboardSizes lists the piano sizes offered by the keyboard size selector
var KeyboardSizes = []int{25, 32, 37, 49, 88}

// OctaveAdjustments lists the offsets offered by the octave selector
var OctaveAdjustments = []int{-2, -1, 0, 1, 2}

// GeneralConfig holds panel defaults
type GeneralConfig struct {
	KeyboardShortcutsEnabled bool   `json:"keyboardShortcutsEnabled"`
	DefaultKeyboardSize      int    `json:"defaultKeyboardSize"`
	Palette                  string `json:"palette,omitempty"` // GIMP .gpl file; empty uses the built-in one
}

// MIDIConfig controls device scanning
type MIDIConfig struct {
	PollIntervalMs int  `json:"pollIntervalMs,omitempty"`
	ScanTimeoutMs  int  `json:"scanTimeoutMs,omitempty"`
	InputReadOnly  bool `json:"inputReadOnly,omitempty"`
	OutputReadOnly bool `json:"outputReadOnly,omitempty"`
}

// ExportConfig controls where exercises come from and go to
type ExportConfig struct {
	StatePath   string `json:"statePath,omitempty"`   // current notation state (read-only)
	DownloadDir string `json:"downloadDir,omitempty"` // where downloaded exercises are written
	UploadURL   string `json:"uploadURL,omitempty"`   // server base URL
}

// HelpConfig is the content of the info overlay
type HelpConfig struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	General GeneralConfig `json:"general"`
	MIDI    MIDIConfig    `json:"midi,omitempty"`
	Export  ExportConfig  `json:"export,omitempty"`
	Help    HelpConfig    `json:"help,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	dir, _ := ConfigDir()
	return &Config{
		General: GeneralConfig{
			KeyboardShortcutsEnabled: false,
			DefaultKeyboardSize:      49,
		},
		MIDI: MIDIConfig{
			PollIntervalMs: 1000,
			ScanTimeoutMs:  3000,
		},
		Export: ExportConfig{
			StatePath:   filepath.Join(dir, "current_state.json"),
			DownloadDir: ".",
			UploadURL:   "http://localhost:8000",
		},
		Help: HelpConfig{
			Title:   "Harmony Lab",
			Content: "Play notes on a MIDI keyboard (or the computer keyboard) to see them on the staff. Use the controls to change the instrument, keyboard size and analysis options, and export the current exercise as JSON.",
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "music-controls"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// Fields missing from the file keep their default values.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.normalize()

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// PollInterval returns the hot-plug scan interval
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.MIDI.PollIntervalMs) * time.Millisecond
}

// ScanTimeout returns how long a port scan may take before it is skipped
func (c *Config) ScanTimeout() time.Duration {
	return time.Duration(c.MIDI.ScanTimeoutMs) * time.Millisecond
}

// normalize replaces out-of-range values with defaults
func (c *Config) normalize() {
	def := DefaultConfig()
	if !validKeyboardSize(c.General.DefaultKeyboardSize) {
		c.General.DefaultKeyboardSize = def.General.DefaultKeyboardSize
	}
	if c.MIDI.PollIntervalMs <= 0 {
		c.MIDI.PollIntervalMs = def.MIDI.PollIntervalMs
	}
	if c.MIDI.ScanTimeoutMs <= 0 {
		c.MIDI.ScanTimeoutMs = def.MIDI.ScanTimeoutMs
	}
}

func validKeyboardSize(n int) bool {
	for _, s := range KeyboardSizes {
		if s == n {
			return true
		}
	}
	return false
}
