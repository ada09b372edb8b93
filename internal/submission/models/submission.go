package models

import (
	"strings"
	"time"

	"kyckaro/pkg/domain"
	dErrors "kyckaro/pkg/domain-errors"
)

// Submission is the aggregate root for a KYC submission.
//
// Invariants:
//   - OwnerID is set at creation and never transfers
//   - EndUserEmail is captured at creation and immutable
//   - Status starts at pending; the only mutable field after creation is
//     Status (plus the collaborator-written image refs, extracted data, and
//     AI scores)
//   - SubmittedAt is immutable after construction
//   - Submissions are never deleted
//
// Status mutation is admin-only. That rule lives in the access policy, not
// here: the aggregate validates transitions, the policy decides who may ask.
type Submission struct {
	ID             domain.SubmissionID `json:"id"`
	OwnerID        domain.UserID       `json:"owner_id"`
	EndUserEmail   string              `json:"end_user_email"`
	Status         Status              `json:"status"`
	IDImageRef     string              `json:"id_image_ref,omitempty"`
	SelfieImageRef string              `json:"selfie_image_ref,omitempty"`
	ExtractedData  Fields              `json:"extracted_data"`
	AIScores       Metrics             `json:"ai_scores"`
	SubmittedAt    time.Time           `json:"submitted_at"`
}

// NewSubmission constructs a pending submission for the given owner. Image
// refs are optional; scoring and extraction payloads arrive later from their
// collaborators.
func NewSubmission(id domain.SubmissionID, owner domain.UserID, email string, idImageRef, selfieImageRef string, now time.Time) (*Submission, error) {
	email = strings.TrimSpace(email)
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "submission owner is required")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "end user email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "end user email must be an email address")
	}
	return &Submission{
		ID:             id,
		OwnerID:        owner,
		EndUserEmail:   email,
		Status:         StatusPending,
		IDImageRef:     idImageRef,
		SelfieImageRef: selfieImageRef,
		SubmittedAt:    now,
	}, nil
}

// CanSetStatus checks whether the submission may move to target. Returns an
// error only for values outside the status enum; re-applying the current
// status is allowed and callers treat it as a no-op success.
func (s *Submission) CanSetStatus(target Status) error {
	if !s.Status.CanTransitionTo(target) {
		return dErrors.New(dErrors.CodeInvalidStatus, "status must be one of pending, approved, rejected")
	}
	return nil
}

// ApplySetStatus moves the submission to target. Call CanSetStatus first.
func (s *Submission) ApplySetStatus(target Status) {
	s.Status = target
}

// Summary is the self-projection of a submission: the fields an owner sees in
// their dashboard list. Images, scores, and extracted data are deliberately
// absent from the type so they cannot leak through this shape.
type Summary struct {
	ID          domain.SubmissionID `json:"id"`
	Status      Status              `json:"status"`
	SubmittedAt time.Time           `json:"submitted_at"`
}

// Summarize projects the submission to its owner-visible summary.
func (s *Submission) Summarize() Summary {
	return Summary{
		ID:          s.ID,
		Status:      s.Status,
		SubmittedAt: s.SubmittedAt,
	}
}

// Clone returns a deep copy so store callers can never mutate shared rows.
func (s *Submission) Clone() *Submission {
	dup := *s
	dup.ExtractedData.entries = append([]fieldEntry(nil), s.ExtractedData.entries...)
	dup.AIScores.entries = append([]metricEntry(nil), s.AIScores.entries...)
	return &dup
}
