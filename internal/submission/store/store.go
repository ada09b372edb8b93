// Package store persists submissions. Implementations are interface-driven so
// the review service stays testable and persistence can move between
// in-memory and PostgreSQL without rewiring business code.
package store

import (
	"context"

	"kyckaro/internal/submission/models"
	"kyckaro/pkg/domain"
	"kyckaro/pkg/platform/sentinel"
)

// ErrNotFound keeps store-level 404s consistent across implementations.
var ErrNotFound = sentinel.ErrNotFound

// Store is the persisted collection of submissions. All list operations
// return rows ordered by SubmittedAt descending (newest first).
//
// Authorization is not this layer's job: the review service applies the
// access policy before every call.
type Store interface {
	// Create persists a new submission. Fails with sentinel.ErrConflict if
	// the id already exists.
	Create(ctx context.Context, submission *models.Submission) error

	// FindByID returns the full row, or sentinel.ErrNotFound.
	FindByID(ctx context.Context, id domain.SubmissionID) (*models.Submission, error)

	// ListAll returns every submission, newest first.
	ListAll(ctx context.Context) ([]*models.Submission, error)

	// ForEach streams every submission, newest first, without materializing
	// the full result set. fn returning an error stops the scan and
	// propagates.
	ForEach(ctx context.Context, fn func(*models.Submission) error) error

	// ListByOwner returns the owner's submissions, newest first.
	ListByOwner(ctx context.Context, owner domain.UserID) ([]*models.Submission, error)

	// UpdateStatus atomically sets the row's status and returns the fresh
	// post-write row. The update is all-or-nothing: no other field is
	// touched. Concurrent updates are last-writer-wins.
	UpdateStatus(ctx context.Context, id domain.SubmissionID, status models.Status) (*models.Submission, error)
}
