// Package fs provides file-based storage for capture artifacts and notes.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/awalczyk/qbank"
)

// Ensure Writer implements qbank.ArtifactWriter at compile time.
var _ qbank.ArtifactWriter = (*Writer)(nil)

// Writer writes capture artifacts to disk. The page HTML and its JSON
// sidecar share a base filename within the capture directory.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteHTML writes the captured page HTML as <dir>/<base>.html, creating
// the directory if needed.
func (w *Writer) WriteHTML(ctx context.Context, dir, base, html string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, base+".html")
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteMetadata writes the JSON sidecar as <dir>/<base>.json.
func (w *Writer) WriteMetadata(ctx context.Context, dir, base string, meta *qbank.ArtifactMetadata) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, base+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
