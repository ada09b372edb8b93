package audit

import "time"

// Action names an audited operation.
type Action string

const (
	ActionSubmissionCreated Action = "submission.created"
	ActionStatusChanged     Action = "submission.status_changed"
	ActionSignedOut         Action = "auth.signed_out"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id"`
	Subject   string    `json:"subject"`
	Action    Action    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}
