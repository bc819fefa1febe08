package httpkit

import (
	"net/http"

	phttp "sentibot/internal/platform/net/http"
)

// Get registers a read handler; its result is wrapped in the envelope
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.Handle(h))
}

// PostJSON mounts a JSON handler under POST; the body is decoded and validated
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}
