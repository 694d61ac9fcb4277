// Package toml loads the server configuration from a TOML file.
package toml

import (
	"fmt"
	"os"

	"github.com/awalczyk/qbank"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the server configuration. Zero values fall back to the
// defaults from Default.
type Config struct {
	// Addr is the listen address of the intake server.
	Addr string `toml:"addr"`

	// DBPath is the SQLite database file.
	DBPath string `toml:"db_path"`

	// ExtractionRoot holds the HTML and JSON artifacts, MediaRoot the
	// per-source image copies, NotesDir the markdown note stubs.
	ExtractionRoot string `toml:"extraction_root"`
	MediaRoot      string `toml:"media_root"`
	NotesDir       string `toml:"notes_dir"`

	// FrontendDir is served as a static SPA; empty disables it.
	FrontendDir string `toml:"frontend_dir"`

	// CaptureLogSize bounds the in-memory capture log.
	CaptureLogSize int `toml:"capture_log_size"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Addr:           "127.0.0.1:8000",
		DBPath:         "qbank.db",
		ExtractionRoot: "extractions",
		MediaRoot:      "media",
		NotesDir:       "notes",
		CaptureLogSize: 256,
	}
}

// Load parses the configuration file at path, filling omitted fields
// with defaults. A missing file yields the defaults unchanged; a
// malformed one is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Addr == "" {
		c.Addr = def.Addr
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.ExtractionRoot == "" {
		c.ExtractionRoot = def.ExtractionRoot
	}
	if c.MediaRoot == "" {
		c.MediaRoot = def.MediaRoot
	}
	if c.NotesDir == "" {
		c.NotesDir = def.NotesDir
	}
	if c.CaptureLogSize == 0 {
		c.CaptureLogSize = def.CaptureLogSize
	}
}

// Validate returns an error if the configuration is unusable.
func (c *Config) Validate() error {
	if c.CaptureLogSize < 0 {
		return qbank.Errorf(qbank.EINVALID, "capture_log_size must not be negative")
	}
	return nil
}
