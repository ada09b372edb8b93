package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kyckaro/internal/submission/metrics"
	"kyckaro/internal/submission/models"
	"kyckaro/pkg/domain"
	dErrors "kyckaro/pkg/domain-errors"
	"kyckaro/pkg/platform/sentinel"
)

// Postgres persists submissions in PostgreSQL. extracted_data and ai_scores
// live in json columns, not jsonb: jsonb re-sorts object keys and the payload
// order is part of the data. The models' order-preserving codecs handle the
// round-trip; nothing queries into the payloads, so the jsonb operators are
// not missed.
type Postgres struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// NewPostgres constructs a PostgreSQL-backed submission store.
func NewPostgres(db *sql.DB, m *metrics.Metrics) *Postgres {
	return &Postgres{db: db, metrics: m}
}

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id               uuid PRIMARY KEY,
	owner_id         uuid NOT NULL,
	end_user_email   text NOT NULL,
	status           text NOT NULL DEFAULT 'pending',
	id_image_ref     text,
	selfie_image_ref text,
	extracted_data   json NOT NULL DEFAULT '{}'::json,
	ai_scores        json NOT NULL DEFAULT '{}'::json,
	submitted_at     timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_owner_idx ON submissions (owner_id, submitted_at DESC);
CREATE INDEX IF NOT EXISTS submissions_submitted_at_idx ON submissions (submitted_at DESC);
`

// Migrate creates the submissions table when it does not exist yet.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate submissions: %w", err)
	}
	return nil
}

const submissionColumns = `id, owner_id, end_user_email, status, id_image_ref, selfie_image_ref, extracted_data, ai_scores, submitted_at`

func (s *Postgres) Create(ctx context.Context, submission *models.Submission) error {
	start := time.Now()
	defer s.observe("create", start)

	extracted, scores, err := encodePayloads(submission)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submissions (`+submissionColumns+`)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9)`,
		uuid.UUID(submission.ID),
		uuid.UUID(submission.OwnerID),
		submission.EndUserEmail,
		string(submission.Status),
		submission.IDImageRef,
		submission.SelfieImageRef,
		extracted,
		scores,
		submission.SubmittedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.SubmissionID) (*models.Submission, error) {
	start := time.Now()
	defer s.observe("find_by_id", start)

	row := s.db.QueryRowContext(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE id = $1`,
		uuid.UUID(id),
	)
	submission, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return submission, nil
}

func (s *Postgres) ListAll(ctx context.Context) ([]*models.Submission, error) {
	var all []*models.Submission
	err := s.ForEach(ctx, func(submission *models.Submission) error {
		all = append(all, submission)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

func (s *Postgres) ForEach(ctx context.Context, fn func(*models.Submission) error) error {
	start := time.Now()
	defer s.observe("for_each", start)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		ORDER BY submitted_at DESC, id DESC`)
	if err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return fmt.Errorf("scan submission: %w", err)
		}
		if err := fn(submission); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}
	return nil
}

func (s *Postgres) ListByOwner(ctx context.Context, owner domain.UserID) ([]*models.Submission, error) {
	start := time.Now()
	defer s.observe("list_by_owner", start)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE owner_id = $1
		ORDER BY submitted_at DESC, id DESC`,
		uuid.UUID(owner),
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions by owner: %w", err)
	}
	defer rows.Close()

	var result []*models.Submission
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		result = append(result, submission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions by owner: %w", err)
	}
	return result, nil
}

func (s *Postgres) UpdateStatus(ctx context.Context, id domain.SubmissionID, status models.Status) (*models.Submission, error) {
	start := time.Now()
	defer s.observe("update_status", start)

	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidStatus, "status must be one of pending, approved, rejected")
	}

	// Single-statement partial update: only status changes, and the RETURNING
	// clause hands back the fresh row so callers never merge locally.
	row := s.db.QueryRowContext(ctx, `
		UPDATE submissions
		SET status = $2
		WHERE id = $1
		RETURNING `+submissionColumns,
		uuid.UUID(id),
		string(status),
	)
	submission, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("update submission status: %w", err)
	}
	return submission, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var (
		id          uuid.UUID
		ownerID     uuid.UUID
		email       string
		status      string
		idImage     sql.NullString
		selfieImage sql.NullString
		extracted   []byte
		scores      []byte
		submittedAt time.Time
	)
	if err := row.Scan(&id, &ownerID, &email, &status, &idImage, &selfieImage, &extracted, &scores, &submittedAt); err != nil {
		return nil, err
	}

	submission := &models.Submission{
		ID:             domain.SubmissionID(id),
		OwnerID:        domain.UserID(ownerID),
		EndUserEmail:   email,
		Status:         models.Status(status),
		IDImageRef:     idImage.String,
		SelfieImageRef: selfieImage.String,
		SubmittedAt:    submittedAt,
	}
	if len(extracted) > 0 {
		if err := json.Unmarshal(extracted, &submission.ExtractedData); err != nil {
			return nil, fmt.Errorf("decode extracted_data: %w", err)
		}
	}
	if len(scores) > 0 {
		if err := json.Unmarshal(scores, &submission.AIScores); err != nil {
			return nil, fmt.Errorf("decode ai_scores: %w", err)
		}
	}
	return submission, nil
}

func encodePayloads(submission *models.Submission) ([]byte, []byte, error) {
	extracted, err := json.Marshal(submission.ExtractedData)
	if err != nil {
		return nil, nil, fmt.Errorf("encode extracted_data: %w", err)
	}
	scores, err := json.Marshal(submission.AIScores)
	if err != nil {
		return nil, nil, fmt.Errorf("encode ai_scores: %w", err)
	}
	return extracted, scores, nil
}

// isUniqueViolation matches Postgres error class 23505.
func isUniqueViolation(err error) bool {
	type coder interface{ SQLState() string }
	var c coder
	if errors.As(err, &c) {
		return c.SQLState() == "23505"
	}
	return false
}

func (s *Postgres) observe(operation string, start time.Time) {
	s.metrics.ObserveStoreDuration(operation, time.Since(start).Seconds())
}
