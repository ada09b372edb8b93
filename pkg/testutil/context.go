package testutil

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"kyckaro/pkg/domain"
	"kyckaro/pkg/requestcontext"
)

// NewAdmin returns an actor holding the admin role.
func NewAdmin() domain.Actor {
	return domain.Actor{ID: domain.UserID(uuid.New()), Role: domain.RoleAdmin}
}

// NewEndUser returns an actor holding the basic role.
func NewEndUser() domain.Actor {
	return domain.Actor{ID: domain.UserID(uuid.New()), Role: domain.RoleEndUser}
}

// WithActor adds an actor to the request context, simulating what the auth
// middleware does for authenticated requests.
func WithActor(req *http.Request, actor domain.Actor) *http.Request {
	ctx := requestcontext.WithActor(req.Context(), actor)
	return req.WithContext(ctx)
}

// ContextAt pins the request time, making creation timestamps deterministic.
func ContextAt(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}
