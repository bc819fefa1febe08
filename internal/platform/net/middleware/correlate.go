package middleware

import (
	"net/http"
	"strings"

	pnet "sentibot/internal/platform/net"
)

// SessionHeader carries an optional client chat session id
const SessionHeader = "X-Session-ID"

// Correlate copies the request id and client session id onto the request scoped logger
// and mirrors the request id in the response; run it after RequestID
func Correlate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			reqID := pnet.RequestID(ctx)
			ctx = pnet.WithRequest(ctx, reqID)
			ctx = pnet.WithSession(ctx, strings.TrimSpace(r.Header.Get(SessionHeader)))
			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
