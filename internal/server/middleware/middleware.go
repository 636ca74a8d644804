// Package middleware provides the HTTP middleware chain for the arbitrage
// API: per-client rate limiting, static API-key authentication, request
// logging, and CORS, applied in that order by the server.
package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// deny writes a small JSON error body. Middleware answers before the handler
// layer is reached, so it carries its own writer instead of importing the
// handler package.
func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, msg)
}

// clientIP resolves the requester's address, trusting the usual proxy
// headers before falling back to the socket peer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
