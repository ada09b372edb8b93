// Package rolestore persists the identity→role relation. An identity with no
// row is an end user; only explicit assignments grant the admin role.
package rolestore

import (
	"context"

	"kyckaro/pkg/domain"
)

// Store is the readable role-assignment relation.
type Store interface {
	// FindRole returns the assigned role, or sentinel.ErrNotFound when the
	// identity has no row. Callers treat not-found as RoleEndUser.
	FindRole(ctx context.Context, userID domain.UserID) (domain.Role, error)

	// Assign writes a role assignment, replacing any existing row.
	Assign(ctx context.Context, userID domain.UserID, role domain.Role) error
}
