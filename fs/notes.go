package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/awalczyk/qbank"
)

// Ensure NoteStore implements qbank.NoteService at compile time.
var _ qbank.NoteService = (*NoteStore)(nil)

// NoteStore writes markdown note stubs for stored questions. Notes live
// under baseDir/<source>/<key>.md; an existing note is never rewritten.
type NoteStore struct {
	baseDir string
	conv    qbank.Converter
}

// NewNoteStore creates a new NoteStore. conv renders the question HTML
// into the note body.
func NewNoteStore(baseDir string, conv qbank.Converter) *NoteStore {
	return &NoteStore{baseDir: baseDir, conv: conv}
}

// EnsureNote creates the note stub for a question if it does not already
// exist and returns its path.
func (s *NoteStore) EnsureNote(ctx context.Context, q *qbank.Question, sourceName string) (string, error) {
	if q.ID == "" {
		return "", qbank.Errorf(qbank.EINVALID, "question ID required")
	}

	dir := filepath.Join(s.baseDir, qbank.SanitizeName(sourceName))
	path := filepath.Join(dir, qbank.SanitizeName(q.SourceKey)+".md")

	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}

	body, err := s.conv.Convert(q.RawHTML)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	content := FormatNote(q, sourceName, body)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// FormatNote formats a note with YAML frontmatter followed by the
// rendered question body.
func FormatNote(q *qbank.Question, sourceName, body string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(sourceName)
	b.WriteString("\nquestion: ")
	b.WriteString(q.SourceKey)
	b.WriteString("\nstatus: ")
	b.WriteString(q.Status)
	b.WriteString("\ncreated: ")
	b.WriteString(time.Now().Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	return b.String()
}
