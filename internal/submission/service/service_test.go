package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyckaro/internal/audit"
	"kyckaro/internal/submission/models"
	"kyckaro/internal/submission/store"
	"kyckaro/pkg/domain"
	dErrors "kyckaro/pkg/domain-errors"
	"kyckaro/pkg/testutil"
)

type fixture struct {
	svc   *ReviewService
	store *store.InMemory
	audit *audit.InMemory
	admin domain.Actor
	alice domain.Actor
	bob   domain.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewInMemory()
	sink := audit.NewInMemory()
	return &fixture{
		svc:   NewReviewService(st, WithAuditor(directPublisher{sink})),
		store: st,
		audit: sink,
		admin: testutil.NewAdmin(),
		alice: testutil.NewEndUser(),
		bob:   testutil.NewEndUser(),
	}
}

// directPublisher writes straight to the store so tests can assert on events
// without running the worker.
type directPublisher struct {
	store audit.Store
}

func (p directPublisher) Emit(ctx context.Context, event audit.Event) {
	_ = p.store.Append(ctx, event)
}

func (f *fixture) seed(t *testing.T, owner domain.Actor, submittedAt time.Time) *models.Submission {
	t.Helper()
	sub, err := models.NewSubmission(domain.NewSubmissionID(), owner.ID, "user@example.com", "", "", submittedAt)
	require.NoError(t, err)
	require.NoError(t, f.store.Create(context.Background(), sub))
	return sub
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC)
	ctx := testutil.ContextAt(now)

	sub, err := f.svc.Create(ctx, f.alice, CreateRequest{
		Email:      "alice@example.com",
		IDImageRef: "uploads/id.png",
	})
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, sub.OwnerID)
	assert.Equal(t, models.StatusPending, sub.Status)
	assert.Equal(t, now, sub.SubmittedAt)

	stored, err := f.store.FindByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)

	events := f.audit.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionSubmissionCreated, events[0].Action)
	assert.Equal(t, sub.ID.String(), events[0].Subject)
}

func TestCreateInvalidEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), f.alice, CreateRequest{Email: "not-an-email"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	assert.Empty(t, f.audit.Events())
}

func TestListAll(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	old := f.seed(t, f.alice, base)
	newer := f.seed(t, f.bob, base.Add(time.Hour))

	t.Run("admin sees everything newest first", func(t *testing.T) {
		rows, err := f.svc.ListAll(context.Background(), f.admin)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, newer.ID, rows[0].ID)
		assert.Equal(t, old.ID, rows[1].ID)
	})

	t.Run("end user is forbidden", func(t *testing.T) {
		_, err := f.svc.ListAll(context.Background(), f.alice)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func TestStreamAll(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.alice, time.Now().UTC())
	f.seed(t, f.bob, time.Now().UTC())

	var seen int
	err := f.svc.StreamAll(context.Background(), f.admin, func(*models.Submission) error {
		seen++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, seen)

	err = f.svc.StreamAll(context.Background(), f.bob, func(*models.Submission) error {
		t.Fatal("callback must not run for a forbidden caller")
		return nil
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestListForOwner(t *testing.T) {
	f := newFixture(t)
	sub := f.seed(t, f.alice, time.Now().UTC())
	sub2, err := f.store.UpdateStatus(context.Background(), sub.ID, models.StatusApproved)
	require.NoError(t, err)
	f.seed(t, f.bob, time.Now().UTC())

	t.Run("owner gets summaries only", func(t *testing.T) {
		summaries, err := f.svc.ListForOwner(context.Background(), f.alice, f.alice.ID)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, sub.ID, summaries[0].ID)
		assert.Equal(t, sub2.Status, summaries[0].Status)
	})

	t.Run("admin may list any owner", func(t *testing.T) {
		summaries, err := f.svc.ListForOwner(context.Background(), f.admin, f.bob.ID)
		require.NoError(t, err)
		assert.Len(t, summaries, 1)
	})

	t.Run("end user may not list another owner", func(t *testing.T) {
		_, err := f.svc.ListForOwner(context.Background(), f.bob, f.alice.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	sub := f.seed(t, f.alice, time.Now().UTC())

	t.Run("owner reads own", func(t *testing.T) {
		got, err := f.svc.GetByID(context.Background(), f.alice, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
	})

	t.Run("other owner is forbidden", func(t *testing.T) {
		_, err := f.svc.GetByID(context.Background(), f.bob, sub.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("unknown id is not_found for every role", func(t *testing.T) {
		missing := domain.NewSubmissionID()
		for _, actor := range []domain.Actor{f.admin, f.alice} {
			_, err := f.svc.GetByID(context.Background(), actor, missing)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
		}
	})
}

func TestGetForOwnerMasksForeignRows(t *testing.T) {
	f := newFixture(t)
	sub := f.seed(t, f.alice, time.Now().UTC())

	// Bob cannot distinguish Alice's submission from one that does not exist.
	_, err := f.svc.GetForOwner(context.Background(), f.bob, sub.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	assert.False(t, dErrors.HasCode(err, dErrors.CodeForbidden))

	_, err = f.svc.GetForOwner(context.Background(), f.bob, domain.NewSubmissionID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	sub := f.seed(t, f.alice, time.Now().UTC())

	t.Run("admin approves", func(t *testing.T) {
		updated, err := f.svc.SetStatus(context.Background(), f.admin, sub.ID, "approved")
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, updated.Status)

		events := f.audit.Events()
		require.Len(t, events, 1)
		assert.Equal(t, audit.ActionStatusChanged, events[0].Action)
		assert.Equal(t, "approved", events[0].Detail)
	})

	t.Run("re-approving is a no-op success", func(t *testing.T) {
		updated, err := f.svc.SetStatus(context.Background(), f.admin, sub.ID, "approved")
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, updated.Status)
	})

	t.Run("approved back to rejected is allowed", func(t *testing.T) {
		updated, err := f.svc.SetStatus(context.Background(), f.admin, sub.ID, "rejected")
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, updated.Status)
	})

	t.Run("end user is forbidden even on own row", func(t *testing.T) {
		_, err := f.svc.SetStatus(context.Background(), f.alice, sub.ID, "approved")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))

		stored, err := f.store.FindByID(context.Background(), sub.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, stored.Status, "denied call must not mutate")
	})

	t.Run("unknown status is rejected before the store", func(t *testing.T) {
		_, err := f.svc.SetStatus(context.Background(), f.admin, sub.ID, "escalated")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidStatus))

		stored, err := f.store.FindByID(context.Background(), sub.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, stored.Status)
	})

	t.Run("unknown id is not_found", func(t *testing.T) {
		_, err := f.svc.SetStatus(context.Background(), f.admin, domain.NewSubmissionID(), "approved")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

type failingStore struct {
	store.Store
}

func (failingStore) ListAll(context.Context) ([]*models.Submission, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailureIsUnavailable(t *testing.T) {
	svc := NewReviewService(failingStore{Store: store.NewInMemory()})

	_, err := svc.ListAll(context.Background(), testutil.NewAdmin())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}
