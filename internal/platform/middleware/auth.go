package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"kyckaro/pkg/domain"
	dErrors "kyckaro/pkg/domain-errors"
	"kyckaro/pkg/requestcontext"
)

// SessionResolver turns a bearer credential into an authenticated actor. The
// second return is the token's JTI, kept in context for sign-out.
type SessionResolver interface {
	Resolve(ctx context.Context, bearer string) (domain.Actor, string, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved actor in the request context. Unauthenticated callers get a 401
// and the client redirects to its login surface; protected content is never
// rendered without an actor.
func RequireAuth(resolver SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			bearer, ok := bearerToken(r)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			actor, jti, err := resolver.Resolve(ctx, bearer)
			if err != nil {
				// A backend outage is not the caller's fault; only credential
				// failures get the 401.
				if dErrors.HasCode(err, dErrors.CodeUnavailable) {
					logger.ErrorContext(ctx, "session resolution unavailable",
						"error", err,
						"request_id", GetRequestID(ctx),
					)
					writeUnavailable(w)
					return
				}
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithActor(ctx, actor)
			ctx = requestcontext.WithTokenID(ctx, jti)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves an actor when a bearer token is present but lets
// anonymous requests through. The routing decision uses it: no session is a
// valid input there, not an error.
func OptionalAuth(resolver SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if bearer, ok := bearerToken(r); ok {
				actor, jti, err := resolver.Resolve(ctx, bearer)
				if err != nil {
					logger.WarnContext(ctx, "ignoring invalid token on optional-auth route",
						"error", err,
						"request_id", GetRequestID(ctx),
					)
				} else {
					ctx = requestcontext.WithActor(ctx, actor)
					ctx = requestcontext.WithTokenID(ctx, jti)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on the actor's role. Must run after RequireAuth.
func RequireRole(role domain.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actor, ok := requestcontext.Actor(ctx)
			if !ok {
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}
			if actor.Role != role {
				logger.WarnContext(ctx, "forbidden - insufficient role",
					"required_role", role.String(),
					"request_id", GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"` + role.String() + ` role required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	const bearerPrefix = "Bearer "
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func writeUnauthorized(w http.ResponseWriter, desc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthenticated","error_description":"` + desc + `"}`))
}

func writeUnavailable(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`{"error":"unavailable","error_description":"could not verify session, try again"}`))
}
