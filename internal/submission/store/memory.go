package store

import (
	"context"
	"sort"
	"sync"

	"kyckaro/internal/submission/models"
	"kyckaro/pkg/domain"
	"kyckaro/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded submission store for tests and local
// development. Rows are cloned on the way in and out so callers can never
// mutate shared state.
type InMemory struct {
	mu          sync.RWMutex
	submissions map[domain.SubmissionID]*models.Submission
}

func NewInMemory() *InMemory {
	return &InMemory{
		submissions: make(map[domain.SubmissionID]*models.Submission),
	}
}

func (s *InMemory) Create(ctx context.Context, submission *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.submissions[submission.ID]; exists {
		return sentinel.ErrConflict
	}
	s.submissions[submission.ID] = submission.Clone()
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, id domain.SubmissionID) (*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	submission, ok := s.submissions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return submission.Clone(), nil
}

func (s *InMemory) ListAll(ctx context.Context) ([]*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot(func(*models.Submission) bool { return true }), nil
}

func (s *InMemory) ForEach(ctx context.Context, fn func(*models.Submission) error) error {
	// Snapshot under the read lock, then iterate without it so fn can take
	// as long as it likes.
	s.mu.RLock()
	rows := s.snapshot(func(*models.Submission) bool { return true })
	s.mu.RUnlock()

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemory) ListByOwner(ctx context.Context, owner domain.UserID) ([]*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot(func(sub *models.Submission) bool { return sub.OwnerID == owner }), nil
}

func (s *InMemory) UpdateStatus(ctx context.Context, id domain.SubmissionID, status models.Status) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	submission, ok := s.submissions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := submission.CanSetStatus(status); err != nil {
		return nil, err
	}
	submission.ApplySetStatus(status)
	return submission.Clone(), nil
}

// snapshot copies matching rows newest-first. Callers hold at least the read
// lock.
func (s *InMemory) snapshot(match func(*models.Submission) bool) []*models.Submission {
	rows := make([]*models.Submission, 0, len(s.submissions))
	for _, submission := range s.submissions {
		if match(submission) {
			rows = append(rows, submission.Clone())
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SubmittedAt.Equal(rows[j].SubmittedAt) {
			// Stable tiebreak so equal timestamps order deterministically.
			return rows[i].ID.String() > rows[j].ID.String()
		}
		return rows[i].SubmittedAt.After(rows[j].SubmittedAt)
	})
	return rows
}
