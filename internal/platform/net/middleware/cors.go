// Package middleware holds the sentibot specific HTTP middleware: request correlation,
// JSON panic recovery, the zerolog access log and the CORS policy
package middleware

import (
	"net/http"

	pstrings "sentibot/internal/platform/strings"

	"github.com/go-chi/cors"
)

type CORSOptions struct {
	// AllowedOrigins empty means any origin
	AllowedOrigins []string
	// AllowedHeaders empty means Accept, Content-Type and the correlation headers
	AllowedHeaders []string
	MaxAge         int
}

// CORS answers preflights for GET and POST only; credentials are never allowed
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Content-Type", "X-Request-ID", SessionHeader}),
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         o.MaxAge,
	})
}
