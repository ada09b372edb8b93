// Package shared centralizes the JSON envelopes used by every handler so
// error translation stays consistent across surfaces.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "kyckaro/pkg/domain-errors"
)

// errorEnvelope is the wire shape of every failure response.
type errorEnvelope struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// WriteError translates a domain error to its HTTP response. Uncoded errors
// become opaque 500s; infrastructure detail never reaches the wire.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := dErrors.MessageOf(err)
	if code == dErrors.CodeInternal {
		message = "internal error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Error:            string(code),
		ErrorDescription: message,
	})
}

// WriteJSON writes a success payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
