// Package auth resolves bearer credentials into authenticated actors. It
// composes the JWT validator, the revocation store, and the role relation;
// nothing downstream ever inspects a raw token.
package auth

import (
	"context"
	"errors"
	"time"

	"kyckaro/internal/audit"
	"kyckaro/internal/auth/revocation"
	"kyckaro/internal/auth/rolestore"
	"kyckaro/internal/jwttoken"
	"kyckaro/pkg/domain"
	dErrors "kyckaro/pkg/domain-errors"
	"kyckaro/pkg/platform/sentinel"
	"kyckaro/pkg/requestcontext"
)

// Resolver is the session resolver: bearer credential in, actor out.
type Resolver struct {
	tokens      *jwttoken.JWTService
	roles       rolestore.Store
	revocations revocation.Store
	auditor     audit.Publisher
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithAuditor records sign-outs on the audit trail.
func WithAuditor(p audit.Publisher) Option {
	return func(r *Resolver) { r.auditor = p }
}

func NewResolver(tokens *jwttoken.JWTService, roles rolestore.Store, revocations revocation.Store, opts ...Option) *Resolver {
	r := &Resolver{
		tokens:      tokens,
		roles:       roles,
		revocations: revocations,
		auditor:     audit.Nop{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve validates the bearer token, rejects revoked sessions, and resolves
// the actor's role. The second return is the token's JTI for sign-out.
//
// Read-only: resolving a session never mutates state.
//
// Errors: CodeUnauthenticated for any invalid, expired, or revoked
// credential; CodeUnavailable when the revocation or role store cannot be
// reached.
func (r *Resolver) Resolve(ctx context.Context, bearer string) (domain.Actor, string, error) {
	claims, err := r.tokens.ValidateToken(bearer)
	if err != nil {
		return domain.Actor{}, "", err
	}
	if claims.ID == "" {
		return domain.Actor{}, "", dErrors.New(dErrors.CodeUnauthenticated, "token has no id")
	}

	revoked, err := r.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return domain.Actor{}, "", dErrors.Wrap(err, dErrors.CodeUnavailable, "could not check token revocation")
	}
	if revoked {
		return domain.Actor{}, "", dErrors.Wrap(sentinel.ErrRevoked, dErrors.CodeUnauthenticated, "token has been revoked")
	}

	userID, err := domain.ParseUserID(claims.UserID)
	if err != nil {
		return domain.Actor{}, "", dErrors.New(dErrors.CodeUnauthenticated, "invalid token subject")
	}

	role, err := r.resolveRole(ctx, userID)
	if err != nil {
		return domain.Actor{}, "", err
	}

	return domain.Actor{ID: userID, Role: role}, claims.ID, nil
}

// resolveRole looks up the role assignment. No row means end user: the basic
// role is the default, the elevated one never is.
func (r *Resolver) resolveRole(ctx context.Context, userID domain.UserID) (domain.Role, error) {
	role, err := r.roles.FindRole(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.RoleEndUser, nil
		}
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "could not resolve role")
	}
	return role, nil
}

// SignOut revokes the bearer token until its natural expiry. Subsequent
// Resolve calls with the same token fail unauthenticated.
func (r *Resolver) SignOut(ctx context.Context, bearer string) error {
	claims, err := r.tokens.ValidateToken(bearer)
	if err != nil {
		return err
	}
	ttl := time.Duration(0)
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := r.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "could not revoke token")
	}
	r.auditor.Emit(ctx, audit.Event{
		ActorID:   claims.UserID,
		Subject:   claims.ID,
		Action:    audit.ActionSignedOut,
		RequestID: requestcontext.RequestID(ctx),
	})
	return nil
}
