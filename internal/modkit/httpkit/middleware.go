package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"sentibot/internal/platform/net/middleware"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	slowRequest    = 500 * time.Millisecond
	requestTimeout = 30 * time.Second
	corsMaxAge     = 300
)

// CommonStack is the middleware every /api/v1 route runs behind, outermost first.
// No origins means any origin may read the API.
func CommonStack(origins ...string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		chimw.RequestID,
		chimw.RealIP,
		middleware.Correlate(),
		middleware.RecoverJSON,

		chimw.NoCache,
		chimw.SetHeader("X-Content-Type-Options", "nosniff"),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: slowRequest}),

		middleware.CORS(middleware.CORSOptions{AllowedOrigins: origins, MaxAge: corsMaxAge}),
		chimw.AllowContentType("application/json"),
		chimw.NewCompressor(flate.BestSpeed).Handler,
		chimw.StripSlashes,
		chimw.Timeout(requestTimeout),
	}
}
