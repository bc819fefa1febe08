package middleware

import (
	stdhttp "net/http"
	"runtime/debug"
	"strings"

	perr "sentibot/internal/platform/errors"
	"sentibot/internal/platform/logger"
	pnet "sentibot/internal/platform/net"
	phttp "sentibot/internal/platform/net/http"
)

// RecoverJSON converts panics into a 500 envelope and logs the stack with the request id
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			if v := recover(); v != nil {
				reqID := pnet.RequestID(r.Context())

				// format stack like chi recover
				lines := strings.Split(string(debug.Stack()), "\n")
				logger.C(r.Context()).Error().
					Interface("panic", v).
					Msgf("panic recovered\n%s", strings.Join(lines, "\n\t"))

				if reqID != "" {
					w.Header().Set("X-Request-ID", reqID)
				}
				// the panic value stays in the log, never on the wire
				phttp.RespondError(w, r, perr.New(perr.ErrorCodePanic, "panic recovered"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
