// Package policy is the single enforcement point for submission access. Every
// read and mutation path through the review service calls Authorize before
// touching the store, so the matrix below is the whole access model.
package policy

import (
	"kyckaro/pkg/domain"
	dErrors "kyckaro/pkg/domain-errors"
)

// Operation names an action an actor can attempt against submissions.
type Operation string

const (
	OpListAll   Operation = "list_all"
	OpListOwn   Operation = "list_own"
	OpGet       Operation = "get"
	OpSetStatus Operation = "set_status"
	OpCreate    Operation = "create"
)

// Target carries the row-level facts a decision needs. For collection-level
// operations the zero value is fine.
type Target struct {
	OwnerID domain.UserID
}

// Authorize decides whether actor may perform op against target.
//
//	op        | admin | end_user (owner) | end_user (non-owner)
//	----------+-------+------------------+---------------------
//	list_all  | allow | deny             | deny
//	list_own  | allow | allow            | deny
//	get       | allow | allow            | deny
//	set_status| allow | deny             | deny
//	create    | allow | allow (self)     | deny
//
// Deny is always a forbidden error, never silent empty data. Callers that
// must mask existence from end users fold forbidden into not_found
// themselves; this layer keeps the two distinct.
func Authorize(actor domain.Actor, op Operation, target Target) error {
	if actor.IsAdmin() {
		return nil
	}

	switch op {
	case OpListAll, OpSetStatus:
		return deny("administrator role required")
	case OpListOwn, OpGet, OpCreate:
		if target.OwnerID == actor.ID {
			return nil
		}
		return deny("submission belongs to another user")
	default:
		return deny("unknown operation")
	}
}

func deny(reason string) error {
	return dErrors.New(dErrors.CodeForbidden, reason)
}
