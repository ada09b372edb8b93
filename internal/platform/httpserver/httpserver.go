// Package httpserver builds the review gateway's http.Server.
package httpserver

import (
	"net/http"
	"time"
)

// New configures the server for the gateway's traffic shape. No WriteTimeout:
// the admin submission list streams rows of unbounded tables, so response
// deadlines belong to the per-request timeout middleware, not the server.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
