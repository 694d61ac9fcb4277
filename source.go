package qbank

import "time"

// Source represents a named origin of questions, e.g. one quiz bank.
// Sources are created lazily the first time a capture references them.
// Deleting a source cascades to its questions (and their media) at the
// storage layer.
type Source struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "source name required")
	}
	return nil
}
