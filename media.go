package qbank

import (
	"path/filepath"
	"strings"
)

// MediaRoleImage is the role recorded for downloaded capture images.
const MediaRoleImage = "image"

// Media represents one stored file associated with a question. Media has
// no independent lifecycle: rows are created through a parent question
// and removed with it.
type Media struct {
	ID         string `json:"id"`
	QuestionID string `json:"questionId"`

	// Role classifies the media, e.g. "image".
	Role string `json:"mediaRole"`

	// Type is an optional subtype, e.g. "question_image".
	Type string `json:"mediaType,omitempty"`

	MimeType string `json:"mimeType"`

	// RelativePath locates the file relative to the configured media root.
	RelativePath string `json:"relativePath"`
}

// Validate returns an error if any field required for persistence is
// missing.
func (m *Media) Validate() error {
	if m.Role == "" {
		return Errorf(EINVALID, "media role required")
	}
	if m.MimeType == "" {
		return Errorf(EINVALID, "media MIME type required")
	}
	if m.RelativePath == "" {
		return Errorf(EINVALID, "media relative path required")
	}
	return nil
}

// MimeTypeForPath maps a file path's extension to an image MIME type,
// defaulting to application/octet-stream for anything unrecognized.
func MimeTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
