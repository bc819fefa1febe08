// Package module wires the interaction log into the API and the console agent using modkit
package module

import (
	modkit "sentibot/internal/modkit"
	"sentibot/internal/modkit/httpkit"
	str "sentibot/internal/platform/strings"
	ihttp "sentibot/internal/services/interactions/http"
	isvc "sentibot/internal/services/interactions/service"
)

// Module owns the interaction log: its storage backend, the service over it and the read API
type Module struct {
	built   modkit.Built
	ports   any
	svc     isvc.Service
	backend string
}

// New constructs the interactions module; the backend comes from CORE_INTERACTIONS_BACKEND
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("interactions"), modkit.WithPrefix("/interactions")}, opts...)...)

	o := FromConfig(deps.Cfg)
	st, err := OpenStorage(deps, o)
	if err != nil {
		return nil, err
	}
	log := deps.Named(b.Name).With().Str("backend", o.BackendName()).Logger()
	svc := isvc.New(st, o.HardLimit, &log)

	return &Module{
		built:   b,
		ports:   adaptInteractionsPort{svc: svc},
		svc:     svc,
		backend: o.BackendName(),
	}, nil
}

// MountRoutes serves history and stats under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(sub httpkit.Router) { ihttp.Register(sub, m.svc) })
}

// Name implements module.Module
func (m *Module) Name() string { return str.MustString(m.built.Name, "interactions module name") }

// Prefix is the normalized mount path
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Backend returns the normalized name of the open interaction log backend
func (m *Module) Backend() string { return m.backend }
