package models

import dErrors "kyckaro/pkg/domain-errors"

// Status is the review state of a submission.
//
// The machine is deliberately unconstrained: there is no terminal state.
// Reviewers may flip approved to rejected (and back) after the fact, and
// re-issuing the current status is a no-op success. The only rejected input
// is a value outside the enum.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// validStatuses is the single source of truth for valid statuses.
var validStatuses = map[Status]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
}

// ParseStatus constructs a Status from external input.
//
// Errors: returns CodeInvalidStatus when the value is empty or unsupported.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidStatus, "status cannot be empty")
	}
	st := Status(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidStatus, "status must be one of pending, approved, rejected")
	}
	return st, nil
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether the target status is reachable. Every valid
// status is reachable from every other, including itself.
func (s Status) CanTransitionTo(target Status) bool {
	return target.IsValid()
}

// Category is the presentational grouping of a status. Total over arbitrary
// stored values: anything outside the enum maps to CategoryOther rather than
// failing the render.
type Category string

const (
	CategoryPending  Category = "pending"
	CategoryApproved Category = "approved"
	CategoryRejected Category = "rejected"
	CategoryOther    Category = "other"
)

// Category maps the status to its visual grouping.
func (s Status) Category() Category {
	switch s {
	case StatusApproved:
		return CategoryApproved
	case StatusRejected:
		return CategoryRejected
	case StatusPending:
		return CategoryPending
	default:
		return CategoryOther
	}
}
