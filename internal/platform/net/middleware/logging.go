package middleware

import (
	"net/http"
	"time"

	"sentibot/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type AccessLogOptions struct {
	// Slow logs requests taking at least this long at warn; 0 disables it
	Slow time.Duration
	// Log is the base logger; nil uses the process logger
	Log *logger.Logger
}

// AccessLogZerolog writes one "request done" line per request. Mounted after
// Correlate, the line carries request_id and session_id.
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			began := time.Now()
			next.ServeHTTP(ww, r)
			took := time.Since(began)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.From(opt.Log, r.Context())

			evt := log.Info()
			if status >= http.StatusInternalServerError {
				evt = log.Error()
			} else if opt.Slow > 0 && took >= opt.Slow {
				evt = log.Warn().Bool("slow", true)
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", took).
				Msg("request done")
		})
	}
}
