// Package domain holds the shared identity types of the review gateway.
// Typed UUIDs keep user and submission identifiers from crossing wires at
// compile time; construct them via the Parse functions at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "kyckaro/pkg/domain-errors"
)

// UserID identifies an end user or administrator.
type UserID uuid.UUID

// SubmissionID identifies a KYC submission. Opaque by design: sequential
// identifiers would leak submission volume to end users.
type SubmissionID uuid.UUID

func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id SubmissionID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id SubmissionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText/UnmarshalText keep typed ids rendering as canonical UUID
// strings in JSON payloads.
func (id UserID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id SubmissionID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *SubmissionID) UnmarshalText(text []byte) error {
	parsed, err := ParseSubmissionID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewSubmissionID mints a fresh submission identifier.
func NewSubmissionID() SubmissionID { return SubmissionID(uuid.New()) }

// ParseUserID constructs a UserID from external input.
//
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil UUID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseSubmissionID constructs a SubmissionID from external input.
func ParseSubmissionID(s string) (SubmissionID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return SubmissionID{}, err
	}
	return SubmissionID(u), nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}
