package qbank

import (
	"context"
	"strings"
	"time"
)

// StatusExtracted is the lifecycle status assigned to newly captured
// questions.
const StatusExtracted = "extracted"

// Question represents one extracted capture stored durably. The pair
// (SourceID, SourceKey) is unique and serves as the idempotency key:
// re-submitting the same capture updates or skips rather than duplicating.
type Question struct {
	ID        string `json:"id"`
	SourceID  string `json:"sourceId"`
	SourceKey string `json:"sourceQuestionKey"`

	// RawHTML is the page HTML exactly as captured.
	RawHTML string `json:"rawHtml"`

	// RawMetadata is the artifact sidecar serialized as a JSON string.
	// Its bodyText field drives content-based duplicate detection.
	RawMetadata string `json:"rawMetadataJson"`

	Status         string `json:"status"`
	ExtractionPath string `json:"extractionPath,omitempty"`
	NotePath       string `json:"notePath,omitempty"`
	Tags           string `json:"tags,omitempty"`
	State          string `json:"state,omitempty"`

	// BodyHash is a fingerprint of the capture's body text, kept so the
	// fast duplicate pre-check can be rebuilt without re-parsing every
	// stored metadata blob.
	BodyHash string `json:"bodyHash,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if any field required for persistence is
// missing.
func (q *Question) Validate() error {
	if q.SourceID == "" {
		return Errorf(EINVALID, "question source ID required")
	}
	if q.SourceKey == "" {
		return Errorf(EINVALID, "question source key required")
	}
	if q.RawHTML == "" {
		return Errorf(EINVALID, "question raw HTML required")
	}
	if q.RawMetadata == "" {
		return Errorf(EINVALID, "question raw metadata required")
	}
	return nil
}

// QuestionSummary is the reduced listing shape: id, owning source name,
// and the per-source key.
type QuestionSummary struct {
	ID         string `json:"id"`
	SourceName string `json:"sourceName"`
	SourceKey  string `json:"sourceQuestionKey"`
}

// QuestionFilter represents a filter for Questions.
type QuestionFilter struct {
	SourceID *string `json:"sourceId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// QuestionUpdate represents metadata fields that can be updated on a
// stored question after capture (tags and free-form state, typically
// parsed back from note frontmatter).
type QuestionUpdate struct {
	Tags     *string `json:"tags"`
	State    *string `json:"state"`
	NotePath *string `json:"notePath"`
}

// NormalizeTags flattens a tags value decoded from JSON, which clients
// send either as a single string or as a list of strings, into the
// stored comma-separated form.
func NormalizeTags(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []string:
		return strings.Join(t, ", "), nil
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return "", Errorf(EINVALID, "tags must be strings")
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", Errorf(EINVALID, "tags must be a string or a list of strings")
	}
}

// QuestionStore opens transactions against the relational store.
// The store never owns a transaction boundary itself: callers Begin,
// perform operations on the returned Tx, and decide Commit or Rollback.
type QuestionStore interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one open store transaction. All mutations within a capture
// submission share a single Tx so the source, question, and media rows
// commit or roll back together.
type Tx interface {
	// GetOrCreateSource finds a source by unique name or inserts it.
	// Newly inserted rows are visible within the transaction (their ID
	// is assigned) but durable only after Commit.
	GetOrCreateSource(ctx context.Context, name, description string) (*Source, error)

	// SourceByName retrieves a source by its unique name.
	// Returns ENOTFOUND if it does not exist.
	SourceByName(ctx context.Context, name string) (*Source, error)

	// SourceByID retrieves a source by ID.
	// Returns ENOTFOUND if it does not exist.
	SourceByID(ctx context.Context, id string) (*Source, error)

	// QuestionByID retrieves a question by ID.
	// Returns ENOTFOUND if it does not exist.
	QuestionByID(ctx context.Context, id string) (*Question, error)

	// QuestionBySourceKey retrieves a question by its idempotency key.
	// Returns ENOTFOUND if it does not exist.
	QuestionBySourceKey(ctx context.Context, sourceID, key string) (*Question, error)

	// QuestionByBodyText retrieves a question under the source whose
	// stored metadata has exactly the given bodyText. Rows with
	// malformed metadata are skipped. Returns ENOTFOUND if no question
	// matches. This is a linear scan with per-row JSON parsing, an
	// accepted O(n) cost at this system's scale.
	QuestionByBodyText(ctx context.Context, sourceID, bodyText string) (*Question, error)

	// QuestionBodyHashes returns the body-text fingerprints of all
	// questions under the source, used to warm the duplicate pre-check.
	QuestionBodyHashes(ctx context.Context, sourceID string) ([]string, error)

	// Questions retrieves questions matching the filter.
	Questions(ctx context.Context, filter QuestionFilter) ([]*Question, error)

	// QuestionSummaries lists all questions joined with their source
	// name, newest first.
	QuestionSummaries(ctx context.Context) ([]*QuestionSummary, error)

	// UpsertQuestion inserts the question, or overwrites the mutable
	// fields of the existing row with the same (SourceID, SourceKey).
	// The question's ID and timestamps are populated on return; the
	// update timestamp is refreshed on every mutation.
	UpsertQuestion(ctx context.Context, q *Question) error

	// AddMedia records a stored file belonging to a question.
	AddMedia(ctx context.Context, questionID string, m *Media) error

	// MediaByQuestion lists media rows for a question in insertion order.
	MediaByQuestion(ctx context.Context, questionID string) ([]*Media, error)

	// UpdateQuestion applies a metadata update to an existing question.
	// Returns ENOTFOUND if the question does not exist.
	UpdateQuestion(ctx context.Context, id string, upd QuestionUpdate) (*Question, error)

	// DeleteQuestion removes a question; its media rows cascade.
	// Returns ENOTFOUND if the question does not exist.
	DeleteQuestion(ctx context.Context, id string) error

	// DeleteSource removes a source; its questions and their media
	// cascade. Returns ENOTFOUND if the source does not exist.
	DeleteSource(ctx context.Context, id string) error

	// Commit makes the transaction's changes durable.
	Commit() error

	// Rollback discards the transaction. Calling Rollback after Commit
	// is a no-op so callers can defer it unconditionally.
	Rollback() error
}
