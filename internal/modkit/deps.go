// Package modkit provides module wiring and core deps
package modkit

import (
	"sentibot/internal/modkit/repokit"
	"sentibot/internal/platform/config"
	"sentibot/internal/platform/logger"
	"sentibot/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse

	// SQLite is the embedded sql seam, nil unless the sqlite backend is selected
	SQLite repokit.TxRunner
}

// Named returns a child of Log tagged with the owning component
// A zero Deps yields a usable logger that writes nowhere
func (d Deps) Named(component string) logger.Logger {
	return d.Log.With().Str("component", component).Logger()
}
