// Package module mounts the meta endpoints (health, ready, version) on the API
package module

import (
	"time"

	modkit "sentibot/internal/modkit"
	"sentibot/internal/modkit/httpkit"
	str "sentibot/internal/platform/strings"
	metahttp "sentibot/internal/services/api/meta/http"
)

type Module struct {
	built modkit.Built
	deps  metahttp.Deps
}

// New constructs a meta module; backend names the interaction log store reported by /ready
func New(deps modkit.Deps, backend string, opts ...modkit.Option) *Module {
	return &Module{
		built: modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...),
		deps: metahttp.Deps{
			ServiceName: "sentibot-api",
			StartedAt:   time.Now(),
			Backend:     backend,
			Checks: []metahttp.Check{
				{Name: "pg", Pinger: pinger(deps.PG)},
				{Name: "ch", Pinger: pinger(deps.CH)},
				{Name: "sqlite", Pinger: pinger(deps.SQLite)},
			},
		},
	}
}

// pinger keeps typed nil seams reported as skipped
func pinger(v any) metahttp.Pinger {
	if v == nil {
		return nil
	}
	p, _ := v.(metahttp.Pinger)
	return p
}

func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(sub httpkit.Router) { metahttp.Register(sub, m.deps) })
}

func (m *Module) Name() string { return str.MustString(m.built.Name, "meta module name") }

func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Ports is nil; meta exports nothing
func (m *Module) Ports() any { return nil }
