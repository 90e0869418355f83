package httpserver

import (
	"net/http"
	"time"
)

// New wraps the router in an http.Server with conservative timeouts.
// Scoring requests finish in milliseconds, so the write timeout mostly
// bounds slow clients draining large audit exports.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}
