package modkit

import (
	"net/http"

	phttp "sentibot/internal/platform/net/http"
)

// Built is the resolved option set a module keeps for its lifetime
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
}

// Build applies opts in order; later options win except WithMiddlewares, which accumulates
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Mount gives own a subrouter at b.Prefix that runs the module middleware first
func (b Built) Mount(r phttp.Router, own func(phttp.Router)) {
	r.Route(b.Prefix, func(sub phttp.Router) {
		for _, mw := range b.Mw {
			sub.Use(mw)
		}
		own(sub)
	})
}
