// Package mock provides mock implementations of qbank interfaces for testing.
package mock

import (
	"context"

	"github.com/awalczyk/qbank"
)

var _ qbank.QuestionStore = (*QuestionStore)(nil)

// QuestionStore is a mock implementation of qbank.QuestionStore.
type QuestionStore struct {
	BeginFn func(ctx context.Context) (qbank.Tx, error)
}

func (s *QuestionStore) Begin(ctx context.Context) (qbank.Tx, error) {
	return s.BeginFn(ctx)
}

var _ qbank.Tx = (*Tx)(nil)

// Tx is a mock implementation of qbank.Tx. Commit and Rollback default
// to no-ops so read-only tests only set the functions they use.
type Tx struct {
	GetOrCreateSourceFn   func(ctx context.Context, name, description string) (*qbank.Source, error)
	SourceByNameFn        func(ctx context.Context, name string) (*qbank.Source, error)
	SourceByIDFn          func(ctx context.Context, id string) (*qbank.Source, error)
	QuestionByIDFn        func(ctx context.Context, id string) (*qbank.Question, error)
	QuestionBySourceKeyFn func(ctx context.Context, sourceID, key string) (*qbank.Question, error)
	QuestionByBodyTextFn  func(ctx context.Context, sourceID, bodyText string) (*qbank.Question, error)
	QuestionBodyHashesFn  func(ctx context.Context, sourceID string) ([]string, error)
	QuestionsFn           func(ctx context.Context, filter qbank.QuestionFilter) ([]*qbank.Question, error)
	QuestionSummariesFn   func(ctx context.Context) ([]*qbank.QuestionSummary, error)
	UpsertQuestionFn      func(ctx context.Context, q *qbank.Question) error
	AddMediaFn            func(ctx context.Context, questionID string, m *qbank.Media) error
	MediaByQuestionFn     func(ctx context.Context, questionID string) ([]*qbank.Media, error)
	UpdateQuestionFn      func(ctx context.Context, id string, upd qbank.QuestionUpdate) (*qbank.Question, error)
	DeleteQuestionFn      func(ctx context.Context, id string) error
	DeleteSourceFn        func(ctx context.Context, id string) error
	CommitFn              func() error
	RollbackFn            func() error
}

func (t *Tx) GetOrCreateSource(ctx context.Context, name, description string) (*qbank.Source, error) {
	return t.GetOrCreateSourceFn(ctx, name, description)
}

func (t *Tx) SourceByName(ctx context.Context, name string) (*qbank.Source, error) {
	return t.SourceByNameFn(ctx, name)
}

func (t *Tx) SourceByID(ctx context.Context, id string) (*qbank.Source, error) {
	return t.SourceByIDFn(ctx, id)
}

func (t *Tx) QuestionByID(ctx context.Context, id string) (*qbank.Question, error) {
	return t.QuestionByIDFn(ctx, id)
}

func (t *Tx) QuestionBySourceKey(ctx context.Context, sourceID, key string) (*qbank.Question, error) {
	return t.QuestionBySourceKeyFn(ctx, sourceID, key)
}

func (t *Tx) QuestionByBodyText(ctx context.Context, sourceID, bodyText string) (*qbank.Question, error) {
	return t.QuestionByBodyTextFn(ctx, sourceID, bodyText)
}

func (t *Tx) QuestionBodyHashes(ctx context.Context, sourceID string) ([]string, error) {
	return t.QuestionBodyHashesFn(ctx, sourceID)
}

func (t *Tx) Questions(ctx context.Context, filter qbank.QuestionFilter) ([]*qbank.Question, error) {
	return t.QuestionsFn(ctx, filter)
}

func (t *Tx) QuestionSummaries(ctx context.Context) ([]*qbank.QuestionSummary, error) {
	return t.QuestionSummariesFn(ctx)
}

func (t *Tx) UpsertQuestion(ctx context.Context, q *qbank.Question) error {
	return t.UpsertQuestionFn(ctx, q)
}

func (t *Tx) AddMedia(ctx context.Context, questionID string, m *qbank.Media) error {
	return t.AddMediaFn(ctx, questionID, m)
}

func (t *Tx) MediaByQuestion(ctx context.Context, questionID string) ([]*qbank.Media, error) {
	return t.MediaByQuestionFn(ctx, questionID)
}

func (t *Tx) UpdateQuestion(ctx context.Context, id string, upd qbank.QuestionUpdate) (*qbank.Question, error) {
	return t.UpdateQuestionFn(ctx, id, upd)
}

func (t *Tx) DeleteQuestion(ctx context.Context, id string) error {
	return t.DeleteQuestionFn(ctx, id)
}

func (t *Tx) DeleteSource(ctx context.Context, id string) error {
	return t.DeleteSourceFn(ctx, id)
}

func (t *Tx) Commit() error {
	if t.CommitFn == nil {
		return nil
	}
	return t.CommitFn()
}

func (t *Tx) Rollback() error {
	if t.RollbackFn == nil {
		return nil
	}
	return t.RollbackFn()
}
