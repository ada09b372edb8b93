package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kyckaro/internal/platform/metrics"
	"kyckaro/internal/platform/middleware"
	"kyckaro/internal/routing"
	"kyckaro/internal/submission/models"
	servicepkg "kyckaro/internal/submission/service"
	"kyckaro/internal/transport/http/shared"
	"kyckaro/pkg/domain"
	dErrors "kyckaro/pkg/domain-errors"
	"kyckaro/pkg/requestcontext"
)

// Service defines the review operations the HTTP layer needs.
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req servicepkg.CreateRequest) (*models.Submission, error)
	StreamAll(ctx context.Context, actor domain.Actor, fn func(*models.Submission) error) error
	ListForOwner(ctx context.Context, actor domain.Actor, owner domain.UserID) ([]models.Summary, error)
	GetByID(ctx context.Context, actor domain.Actor, id domain.SubmissionID) (*models.Submission, error)
	GetForOwner(ctx context.Context, actor domain.Actor, id domain.SubmissionID) (*models.Submission, error)
	SetStatus(ctx context.Context, actor domain.Actor, id domain.SubmissionID, status string) (*models.Submission, error)
}

// SignOuter revokes the presented credential.
type SignOuter interface {
	SignOut(ctx context.Context, bearer string) error
}

// Handler wires the submission review endpoints.
type Handler struct {
	logger   *slog.Logger
	review   Service
	signOut  SignOuter
	resolver middleware.SessionResolver
	metrics  *metrics.Metrics
}

// New creates the review Handler.
func New(review Service, signOut SignOuter, resolver middleware.SessionResolver, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		review:   review,
		signOut:  signOut,
		resolver: resolver,
		metrics:  m,
	}
}

// Register mounts every surface on the chi router. The shared middleware
// chain runs on all routes; the three groups differ only in how much
// authentication they demand.
func (h *Handler) Register(r chi.Router) {
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(h.metrics))

	// Entry surface: auth optional, no session is a valid answer.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(h.resolver, h.logger))
		r.Get("/landing", h.handleLanding)
	})

	// Self surface: authenticated, any role.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.resolver, h.logger))
		r.Post("/auth/logout", h.handleLogout)
		r.Post("/submissions", h.handleCreate)
		r.Get("/submissions", h.handleListOwn)
		r.Get("/submissions/{id}", h.handleGetOwn)
	})

	// Admin surface: authenticated + admin role.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.resolver, h.logger))
		r.Use(middleware.RequireRole(domain.RoleAdmin, h.logger))
		r.Get("/admin/submissions", h.handleListAll)
		r.Get("/admin/submissions/{id}", h.handleGet)
		r.Post("/admin/submissions/{id}/status", h.handleSetStatus)
	})
}

// handleLanding runs the routing decision once per entry to the application
// root. No side effects beyond the answer.
func (h *Handler) handleLanding(w http.ResponseWriter, r *http.Request) {
	var actorPtr *domain.Actor
	if actor, ok := requestcontext.Actor(r.Context()); ok {
		actorPtr = &actor
	}
	shared.WriteJSON(w, http.StatusOK, landingResponse{
		Landing: string(routing.Decide(actorPtr)),
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bearer := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(bearer) > len(prefix) {
		bearer = bearer[len(prefix):]
	}
	if err := h.signOut.SignOut(ctx, bearer); err != nil {
		h.logger.WarnContext(ctx, "sign-out failed",
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "session revoked",
		"token_id", requestcontext.TokenID(ctx),
		"request_id", middleware.GetRequestID(ctx),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	submission, err := h.review.Create(ctx, actor, servicepkg.CreateRequest{
		Email:          req.Email,
		IDImageRef:     req.IDImageRef,
		SelfieImageRef: req.SelfieImageRef,
	})
	if err != nil {
		h.logError(ctx, "failed to create submission", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, submission.Summarize())
}

func (h *Handler) handleListOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	summaries, err := h.review.ListForOwner(ctx, actor, actor.ID)
	if err != nil {
		h.logError(ctx, "failed to list own submissions", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, summaries)
}

func (h *Handler) handleGetOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	id, err := domain.ParseSubmissionID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	submission, err := h.review.GetForOwner(ctx, actor, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, submission)
}

// handleListAll streams the admin list as a JSON array row by row, so an
// unbounded table never materializes in this process.
func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")

	started := false
	err := h.review.StreamAll(ctx, actor, func(s *models.Submission) error {
		if !started {
			started = true
			if _, err := w.Write([]byte("[")); err != nil {
				return err
			}
		} else {
			if _, err := w.Write([]byte(",")); err != nil {
				return err
			}
		}
		row, err := json.Marshal(toAdminResponse(s))
		if err != nil {
			return err
		}
		_, err = w.Write(row)
		return err
	})
	if err != nil {
		if !started {
			h.logError(ctx, "failed to list submissions", err)
			shared.WriteError(w, err)
			return
		}
		// Mid-stream failure: the status line is gone; truncate and log.
		h.logError(ctx, "submission list stream aborted", err)
		return
	}
	if !started {
		if _, err := w.Write([]byte("[")); err != nil {
			return
		}
	}
	_, _ = w.Write([]byte("]"))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	id, err := domain.ParseSubmissionID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	submission, err := h.review.GetByID(ctx, actor, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toAdminResponse(submission))
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	id, err := domain.ParseSubmissionID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	updated, err := h.review.SetStatus(ctx, actor, id, req.Status)
	if err != nil {
		h.logError(ctx, "failed to update submission status", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toAdminResponse(updated))
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"error", err.Error(),
		"request_id", middleware.GetRequestID(ctx),
	)
}
