// Package http is the response envelope and router seam every sentibot endpoint goes through
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "sentibot/internal/platform/errors"
	"sentibot/internal/platform/logger"
	pnet "sentibot/internal/platform/net"
)

// Envelope wraps every JSON body; Code and Error are set only on failures
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

func envelope(r *stdhttp.Request, status int) Envelope {
	return Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  pnet.RequestID(r.Context()),
	}
}

// JSON writes v with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondData writes data inside a success envelope
func RespondData(w stdhttp.ResponseWriter, r *stdhttp.Request, status int, data any) {
	env := envelope(r, status)
	env.Data = data
	JSON(w, status, env)
}

// RespondError writes err as an error envelope with the status its code maps to
// server side failures are logged with their cause, which never reaches the client
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status := perr.HTTPStatus(err)
	wire := perr.WireFrom(err)
	if status >= stdhttp.StatusInternalServerError && wire.Code != perr.ErrorCodePanic {
		ev := logger.C(r.Context()).Error().Err(err).Stringer("code", wire.Code).Str("path", r.URL.Path)
		if e, ok := perr.As(err); ok && e.Op() != "" {
			ev = ev.Str("op", e.Op())
		}
		ev.Msg("request failed")
	}
	env := envelope(r, status)
	env.Code, env.Error = wire.Code, wire.Message
	JSON(w, status, env)
}

// Handle adapts fn to a Handler: its result becomes a 200 envelope, its error an error envelope
func Handle(fn func(*stdhttp.Request) (any, error)) Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		out, err := fn(r)
		if err != nil {
			RespondError(w, r, err)
			return
		}
		RespondData(w, r, stdhttp.StatusOK, out)
	}
}
