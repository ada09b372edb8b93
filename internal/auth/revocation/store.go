// Package revocation tracks signed-out access tokens by JTI until their
// natural expiry. The session resolver consults it on every request so a
// signed-out token never resolves to an actor again.
package revocation

import (
	"context"
	"time"
)

// Store records revoked token ids.
type Store interface {
	// Revoke marks the JTI revoked for ttl. A non-positive ttl is a no-op:
	// the token is already expired.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether the JTI has been revoked and not yet aged
	// out.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
