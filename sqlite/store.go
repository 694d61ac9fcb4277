package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/awalczyk/qbank"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ qbank.QuestionStore = (*Store)(nil)

// Store implements qbank.QuestionStore using SQLite.
type Store struct {
	db *DB
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Begin starts a new transaction. The caller owns the boundary and must
// call Commit or Rollback.
func (s *Store) Begin(ctx context.Context) (qbank.Tx, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Compile-time interface verification.
var _ qbank.Tx = (*Tx)(nil)

// Tx implements qbank.Tx on top of a database/sql transaction.
type Tx struct {
	tx *sql.Tx
}

// Commit makes the transaction's changes durable.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback discards the transaction. Rolling back after Commit is a
// no-op so callers can defer it unconditionally.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

// GetOrCreateSource finds a source by unique name or inserts it.
func (t *Tx) GetOrCreateSource(ctx context.Context, name, description string) (*qbank.Source, error) {
	source, err := t.SourceByName(ctx, name)
	if err == nil {
		return source, nil
	}
	if qbank.ErrorCode(err) != qbank.ENOTFOUND {
		return nil, err
	}

	source = &qbank.Source{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := source.Validate(); err != nil {
		return nil, err
	}

	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO sources (id, name, description, created_at)
		VALUES (?, ?, ?, ?)
	`, source.ID, source.Name, source.Description, source.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	return source, nil
}

// SourceByName retrieves a source by its unique name.
func (t *Tx) SourceByName(ctx context.Context, name string) (*qbank.Source, error) {
	return t.scanSource(t.tx.QueryRowContext(ctx, `
		SELECT id, name, description, created_at FROM sources WHERE name = ?
	`, name))
}

// SourceByID retrieves a source by ID.
func (t *Tx) SourceByID(ctx context.Context, id string) (*qbank.Source, error) {
	return t.scanSource(t.tx.QueryRowContext(ctx, `
		SELECT id, name, description, created_at FROM sources WHERE id = ?
	`, id))
}

func (t *Tx) scanSource(row *sql.Row) (*qbank.Source, error) {
	var source qbank.Source
	var createdAt string

	err := row.Scan(&source.ID, &source.Name, &source.Description, &createdAt)
	if err == sql.ErrNoRows {
		return nil, qbank.Errorf(qbank.ENOTFOUND, "source not found")
	}
	if err != nil {
		return nil, err
	}

	if source.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &source, nil
}

const questionColumns = `id, source_id, source_question_key, raw_html, raw_metadata_json,
	status, extraction_path, note_path, tags, state, body_hash, created_at, updated_at`

// QuestionByID retrieves a question by ID.
func (t *Tx) QuestionByID(ctx context.Context, id string) (*qbank.Question, error) {
	return scanQuestion(t.tx.QueryRowContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = ?`, id))
}

// QuestionBySourceKey retrieves a question by its idempotency key.
func (t *Tx) QuestionBySourceKey(ctx context.Context, sourceID, key string) (*qbank.Question, error) {
	return scanQuestion(t.tx.QueryRowContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE source_id = ? AND source_question_key = ?`,
		sourceID, key))
}

// QuestionByBodyText retrieves a question under the source whose stored
// metadata has exactly the given bodyText. The scan is linear with JSON
// parsing per row; malformed metadata is treated as a non-match.
func (t *Tx) QuestionByBodyText(ctx context.Context, sourceID, bodyText string) (*qbank.Question, error) {
	questions, err := t.Questions(ctx, qbank.QuestionFilter{SourceID: &sourceID})
	if err != nil {
		return nil, err
	}

	for _, q := range questions {
		var meta struct {
			BodyText string `json:"bodyText"`
		}
		if err := json.Unmarshal([]byte(q.RawMetadata), &meta); err != nil {
			continue
		}
		if meta.BodyText == bodyText {
			return q, nil
		}
	}
	return nil, qbank.Errorf(qbank.ENOTFOUND, "question not found")
}

// QuestionBodyHashes returns the non-empty body-text fingerprints of all
// questions under the source.
func (t *Tx) QuestionBodyHashes(ctx context.Context, sourceID string) ([]string, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT body_hash FROM questions WHERE source_id = ? AND body_hash != ''
	`, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}
	return hashes, rows.Err()
}

// Questions retrieves questions matching the filter, oldest first.
func (t *Tx) Questions(ctx context.Context, filter qbank.QuestionFilter) ([]*qbank.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE 1=1`
	var args []any

	if filter.SourceID != nil {
		query += ` AND source_id = ?`
		args = append(args, *filter.SourceID)
	}

	query += ` ORDER BY created_at ASC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*qbank.Question
	for rows.Next() {
		q, err := scanQuestionRow(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// QuestionSummaries lists all questions joined with their source name,
// newest first.
func (t *Tx) QuestionSummaries(ctx context.Context) ([]*qbank.QuestionSummary, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT q.id, s.name, q.source_question_key
		FROM questions q
		JOIN sources s ON s.id = q.source_id
		ORDER BY q.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*qbank.QuestionSummary
	for rows.Next() {
		var s qbank.QuestionSummary
		if err := rows.Scan(&s.ID, &s.SourceName, &s.SourceKey); err != nil {
			return nil, err
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}

// UpsertQuestion inserts the question, or overwrites the mutable fields
// of the existing row with the same (SourceID, SourceKey). The identity
// pair and created_at are never overwritten; updated_at is refreshed on
// every mutation.
func (t *Tx) UpsertQuestion(ctx context.Context, q *qbank.Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if q.Status == "" {
		q.Status = qbank.StatusExtracted
	}

	now := time.Now().UTC()

	existing, err := t.QuestionBySourceKey(ctx, q.SourceID, q.SourceKey)
	if err != nil && qbank.ErrorCode(err) != qbank.ENOTFOUND {
		return err
	}

	if existing == nil {
		q.ID = uuid.New().String()
		q.CreatedAt = now
		q.UpdatedAt = now

		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO questions (id, source_id, source_question_key, raw_html,
				raw_metadata_json, status, extraction_path, note_path, tags, state,
				body_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, q.ID, q.SourceID, q.SourceKey, q.RawHTML, q.RawMetadata, q.Status,
			q.ExtractionPath, q.NotePath, q.Tags, q.State, q.BodyHash,
			q.CreatedAt.Format(time.RFC3339), q.UpdatedAt.Format(time.RFC3339))
		return err
	}

	q.ID = existing.ID
	q.CreatedAt = existing.CreatedAt
	q.UpdatedAt = now

	_, err = t.tx.ExecContext(ctx, `
		UPDATE questions
		SET raw_html = ?, raw_metadata_json = ?, status = ?, extraction_path = ?,
			note_path = ?, tags = ?, state = ?, body_hash = ?, updated_at = ?
		WHERE id = ?
	`, q.RawHTML, q.RawMetadata, q.Status, q.ExtractionPath, q.NotePath,
		q.Tags, q.State, q.BodyHash, q.UpdatedAt.Format(time.RFC3339), q.ID)
	return err
}

// AddMedia records a stored file belonging to a question.
func (t *Tx) AddMedia(ctx context.Context, questionID string, m *qbank.Media) error {
	if err := m.Validate(); err != nil {
		return err
	}

	m.ID = uuid.New().String()
	m.QuestionID = questionID

	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO media (id, question_id, media_role, media_type, mime_type, relative_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.QuestionID, m.Role, m.Type, m.MimeType, m.RelativePath,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// MediaByQuestion lists media rows for a question in insertion order.
func (t *Tx) MediaByQuestion(ctx context.Context, questionID string) ([]*qbank.Media, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, question_id, media_role, media_type, mime_type, relative_path
		FROM media WHERE question_id = ? ORDER BY created_at ASC, id ASC
	`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []*qbank.Media
	for rows.Next() {
		var m qbank.Media
		if err := rows.Scan(&m.ID, &m.QuestionID, &m.Role, &m.Type, &m.MimeType, &m.RelativePath); err != nil {
			return nil, err
		}
		media = append(media, &m)
	}
	return media, rows.Err()
}

// UpdateQuestion applies a metadata update to an existing question.
func (t *Tx) UpdateQuestion(ctx context.Context, id string, upd qbank.QuestionUpdate) (*qbank.Question, error) {
	q, err := t.QuestionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Tags != nil {
		q.Tags = *upd.Tags
	}
	if upd.State != nil {
		q.State = *upd.State
	}
	if upd.NotePath != nil {
		q.NotePath = *upd.NotePath
	}

	q.UpdatedAt = time.Now().UTC()

	_, err = t.tx.ExecContext(ctx, `
		UPDATE questions SET tags = ?, state = ?, note_path = ?, updated_at = ? WHERE id = ?
	`, q.Tags, q.State, q.NotePath, q.UpdatedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, err
	}

	return q, nil
}

// DeleteQuestion removes a question; its media rows cascade.
func (t *Tx) DeleteQuestion(ctx context.Context, id string) error {
	return t.deleteByID(ctx, "questions", id, "question not found")
}

// DeleteSource removes a source; its questions and their media cascade.
func (t *Tx) DeleteSource(ctx context.Context, id string) error {
	return t.deleteByID(ctx, "sources", id, "source not found")
}

func (t *Tx) deleteByID(ctx context.Context, table, id, notFound string) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return qbank.Errorf(qbank.ENOTFOUND, "%s", notFound)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for the question scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row *sql.Row) (*qbank.Question, error) {
	q, err := scanQuestionRow(row)
	if err == sql.ErrNoRows {
		return nil, qbank.Errorf(qbank.ENOTFOUND, "question not found")
	}
	return q, err
}

func scanQuestionRow(s scanner) (*qbank.Question, error) {
	var q qbank.Question
	var createdAt, updatedAt string

	err := s.Scan(&q.ID, &q.SourceID, &q.SourceKey, &q.RawHTML, &q.RawMetadata,
		&q.Status, &q.ExtractionPath, &q.NotePath, &q.Tags, &q.State, &q.BodyHash,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if q.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if q.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &q, nil
}
