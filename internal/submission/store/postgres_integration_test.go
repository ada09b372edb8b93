//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"kyckaro/internal/submission/models"
	"kyckaro/internal/submission/store"
	"kyckaro/pkg/domain"
	dErrors "kyckaro/pkg/domain-errors"
	"kyckaro/pkg/platform/sentinel"
	"kyckaro/pkg/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite
	ctx   context.Context
	store *store.Postgres
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.ctx = context.Background()
	pg := containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(pg.DB, nil)
	s.Require().NoError(s.store.Migrate(s.ctx))
}

func (s *PostgresSuite) newSubmission(owner domain.UserID, submittedAt time.Time) *models.Submission {
	sub, err := models.NewSubmission(domain.NewSubmissionID(), owner, "user@example.com", "uploads/id.png", "uploads/selfie.png", submittedAt)
	s.Require().NoError(err)
	return sub
}

func (s *PostgresSuite) TestRoundTrip() {
	owner := domain.UserID(uuid.New())
	sub := s.newSubmission(owner, time.Now().UTC().Truncate(time.Microsecond))
	// Longer keys first: storage that re-sorts keys would come back in a
	// different order than this.
	sub.ExtractedData.Set("document_number", "X123")
	sub.ExtractedData.Set("full_name", "Alice Example")
	sub.AIScores.Set("match_quality", models.Text("good"))
	sub.AIScores.Set(models.FraudScoreKey, models.Number(55))

	s.Require().NoError(s.store.Create(s.ctx, sub))

	found, err := s.store.FindByID(s.ctx, sub.ID)
	s.Require().NoError(err)
	s.Equal(sub.ID, found.ID)
	s.Equal(owner, found.OwnerID)
	s.Equal("user@example.com", found.EndUserEmail)
	s.Equal(models.StatusPending, found.Status)
	s.Equal("uploads/id.png", found.IDImageRef)
	s.True(sub.SubmittedAt.Equal(found.SubmittedAt))

	name, ok := found.ExtractedData.Get("full_name")
	s.Require().True(ok)
	s.Equal("Alice Example", name)

	score, ok := found.AIScores.FraudScore()
	s.Require().True(ok)
	s.Equal(float64(55), score)
	quality, ok := found.AIScores.Get("match_quality")
	s.Require().True(ok)
	s.Equal("good", quality.Display())

	// The payloads iterate in the order the fields were written, not in any
	// order the database prefers.
	var fieldKeys []string
	found.ExtractedData.Range(func(key, _ string) bool {
		fieldKeys = append(fieldKeys, key)
		return true
	})
	s.Equal([]string{"document_number", "full_name"}, fieldKeys)

	var metricKeys []string
	found.AIScores.Range(func(key string, _ models.Value) bool {
		metricKeys = append(metricKeys, key)
		return true
	})
	s.Equal([]string{"match_quality", models.FraudScoreKey}, metricKeys)
}

func (s *PostgresSuite) TestCreateDuplicate() {
	sub := s.newSubmission(domain.UserID(uuid.New()), time.Now().UTC())
	s.Require().NoError(s.store.Create(s.ctx, sub))
	s.Require().ErrorIs(s.store.Create(s.ctx, sub), sentinel.ErrConflict)
}

func (s *PostgresSuite) TestFindByIDNotFound() {
	_, err := s.store.FindByID(s.ctx, domain.NewSubmissionID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresSuite) TestListByOwnerNewestFirst() {
	owner := domain.UserID(uuid.New())
	base := time.Now().UTC().Truncate(time.Microsecond)

	first := s.newSubmission(owner, base.Add(-2*time.Hour))
	second := s.newSubmission(owner, base.Add(-time.Hour))
	third := s.newSubmission(owner, base)
	for _, sub := range []*models.Submission{second, third, first} {
		s.Require().NoError(s.store.Create(s.ctx, sub))
	}

	rows, err := s.store.ListByOwner(s.ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal(third.ID, rows[0].ID)
	s.Equal(second.ID, rows[1].ID)
	s.Equal(first.ID, rows[2].ID)
}

func (s *PostgresSuite) TestUpdateStatus() {
	sub := s.newSubmission(domain.UserID(uuid.New()), time.Now().UTC())
	s.Require().NoError(s.store.Create(s.ctx, sub))

	updated, err := s.store.UpdateStatus(s.ctx, sub.ID, models.StatusApproved)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, updated.Status)

	found, err := s.store.FindByID(s.ctx, sub.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, found.Status)
}

func (s *PostgresSuite) TestUpdateStatusInvalid() {
	sub := s.newSubmission(domain.UserID(uuid.New()), time.Now().UTC())
	s.Require().NoError(s.store.Create(s.ctx, sub))

	_, err := s.store.UpdateStatus(s.ctx, sub.ID, models.Status("escalated"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidStatus))
}

func (s *PostgresSuite) TestUpdateStatusNotFound() {
	_, err := s.store.UpdateStatus(s.ctx, domain.NewSubmissionID(), models.StatusApproved)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresSuite) TestForEachStreamsEverything() {
	before := 0
	s.Require().NoError(s.store.ForEach(s.ctx, func(*models.Submission) error {
		before++
		return nil
	}))

	owner := domain.UserID(uuid.New())
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.store.Create(s.ctx, s.newSubmission(owner, time.Now().UTC())))
	}

	after := 0
	s.Require().NoError(s.store.ForEach(s.ctx, func(*models.Submission) error {
		after++
		return nil
	}))
	s.Equal(before+3, after)
}
