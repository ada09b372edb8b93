// Package service orchestrates the submission review lifecycle: every
// operation threads an explicit actor, applies the access policy before
// touching the store, and translates infrastructure errors into the domain
// taxonomy.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kyckaro/internal/audit"
	submissionmetrics "kyckaro/internal/submission/metrics"
	"kyckaro/internal/submission/models"
	"kyckaro/internal/submission/policy"
	"kyckaro/internal/submission/store"
	"kyckaro/pkg/domain"
	dErrors "kyckaro/pkg/domain-errors"
	"kyckaro/pkg/platform/sentinel"
	"kyckaro/pkg/requestcontext"
)

// ReviewService is the command and query surface over the submission store.
type ReviewService struct {
	store   store.Store
	auditor audit.Publisher
	metrics *submissionmetrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

type serviceConfig struct {
	auditor audit.Publisher
	metrics *submissionmetrics.Metrics
	logger  *slog.Logger
}

// Option configures the ReviewService.
type Option func(*serviceConfig)

func WithAuditor(p audit.Publisher) Option {
	return func(c *serviceConfig) { c.auditor = p }
}

func WithMetrics(m *submissionmetrics.Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = l }
}

func NewReviewService(s store.Store, opts ...Option) *ReviewService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.auditor == nil {
		cfg.auditor = audit.Nop{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &ReviewService{
		store:   s,
		auditor: cfg.auditor,
		metrics: cfg.metrics,
		logger:  cfg.logger,
		tracer:  otel.Tracer("kyckaro/submission"),
	}
}

// CreateRequest carries the intake fields an end user supplies. Scoring and
// extraction payloads arrive later from their collaborators, never from the
// client.
type CreateRequest struct {
	Email          string
	IDImageRef     string
	SelfieImageRef string
}

// Create opens a pending submission owned by the calling actor.
func (s *ReviewService) Create(ctx context.Context, actor domain.Actor, req CreateRequest) (*models.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.Create")
	defer span.End()

	if err := s.authorize(actor, policy.OpCreate, policy.Target{OwnerID: actor.ID}); err != nil {
		return nil, err
	}

	submission, err := models.NewSubmission(
		domain.NewSubmissionID(),
		actor.ID,
		req.Email,
		req.IDImageRef,
		req.SelfieImageRef,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, submission); err != nil {
		return nil, wrapStoreErr(err)
	}

	s.metrics.RecordSubmissionCreated()
	s.auditor.Emit(ctx, audit.Event{
		ActorID:   actor.ID.String(),
		Subject:   submission.ID.String(),
		Action:    audit.ActionSubmissionCreated,
		RequestID: requestcontext.RequestID(ctx),
	})
	return submission, nil
}

// ListAll returns every submission, newest first. Admin only.
func (s *ReviewService) ListAll(ctx context.Context, actor domain.Actor) ([]*models.Submission, error) {
	if err := s.authorize(actor, policy.OpListAll, policy.Target{}); err != nil {
		return nil, err
	}
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return all, nil
}

// StreamAll feeds every submission to fn, newest first, without
// materializing the table. Admin only.
func (s *ReviewService) StreamAll(ctx context.Context, actor domain.Actor, fn func(*models.Submission) error) error {
	if err := s.authorize(actor, policy.OpListAll, policy.Target{}); err != nil {
		return err
	}
	if err := s.store.ForEach(ctx, fn); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

// ListForOwner returns the owner's submissions as summaries, newest first.
// Admins may list any owner; an end user only their own.
func (s *ReviewService) ListForOwner(ctx context.Context, actor domain.Actor, owner domain.UserID) ([]models.Summary, error) {
	if err := s.authorize(actor, policy.OpListOwn, policy.Target{OwnerID: owner}); err != nil {
		return nil, err
	}
	rows, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	summaries := make([]models.Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.Summarize())
	}
	return summaries, nil
}

// GetByID returns the full row. A nonexistent id is not_found for every
// caller; an existing row owned by someone else is forbidden for a non-admin.
func (s *ReviewService) GetByID(ctx context.Context, actor domain.Actor, id domain.SubmissionID) (*models.Submission, error) {
	submission, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	if err := s.authorize(actor, policy.OpGet, policy.Target{OwnerID: submission.OwnerID}); err != nil {
		return nil, err
	}
	return submission, nil
}

// GetForOwner is the self-surface variant of GetByID: forbidden folds into
// not_found so an end user can never confirm the existence of another
// owner's submission.
func (s *ReviewService) GetForOwner(ctx context.Context, actor domain.Actor, id domain.SubmissionID) (*models.Submission, error) {
	submission, err := s.GetByID(ctx, actor, id)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeForbidden) {
			return nil, dErrors.New(dErrors.CodeNotFound, "submission not found")
		}
		return nil, err
	}
	return submission, nil
}

// SetStatus moves the submission to the target status. Admin only. Accepts
// only the three known statuses; re-issuing the current one is a no-op
// success. The returned row is the fresh post-write projection.
func (s *ReviewService) SetStatus(ctx context.Context, actor domain.Actor, id domain.SubmissionID, rawStatus string) (*models.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.SetStatus",
		trace.WithAttributes(
			attribute.String("submission.id", id.String()),
			attribute.String("submission.target_status", rawStatus),
		))
	defer span.End()

	if err := s.authorize(actor, policy.OpSetStatus, policy.Target{}); err != nil {
		return nil, err
	}

	status, err := models.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidStatus) {
			return nil, err
		}
		return nil, wrapStoreErr(err)
	}

	s.metrics.RecordStatusTransition(status.String())
	s.auditor.Emit(ctx, audit.Event{
		ActorID:   actor.ID.String(),
		Subject:   updated.ID.String(),
		Action:    audit.ActionStatusChanged,
		Detail:    status.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "submission status updated",
		"submission_id", updated.ID.String(),
		"status", status.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return updated, nil
}

func (s *ReviewService) authorize(actor domain.Actor, op policy.Operation, target policy.Target) error {
	if err := policy.Authorize(actor, op, target); err != nil {
		s.metrics.RecordPolicyDenial(string(op))
		return err
	}
	return nil
}

// wrapStoreErr translates infrastructure facts into the domain taxonomy: a
// missing row is not_found, anything else is a transient store failure
// surfaced once with no retry.
func wrapStoreErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "submission not found")
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, "submission already exists")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "submission store unavailable")
}
