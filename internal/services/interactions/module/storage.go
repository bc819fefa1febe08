package module

import (
	"strings"

	modkit "sentibot/internal/modkit"
	"sentibot/internal/platform/config"
	perr "sentibot/internal/platform/errors"
	"sentibot/internal/platform/store"
	"sentibot/internal/services/interactions/repo"
)

// BackendName returns the normalized backend; empty selects the file log
func (o Options) BackendName() string {
	b := strings.ToLower(strings.TrimSpace(o.Backend))
	if b == "" {
		return repo.BackendFile
	}
	return b
}

// StoreConfig enables exactly the store seam the selected backend needs
// root is the unprefixed env view; pg and ch read SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_*
func StoreConfig(root config.Conf, o Options) store.Config {
	c := store.Config{AppName: "sentibot"}
	switch o.BackendName() {
	case repo.BackendSQLite:
		c.SQLite = store.SQLiteConfig{Enabled: true, Path: o.SQLitePath}
	case repo.BackendPG:
		pg := root.Prefix("SERVICE_PGSQL_")
		c.PG = store.PGConfig{
			Enabled:     true,
			URL:         pg.MustURL("DBURL").String(),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		}
	case repo.BackendCH:
		ch := root.Prefix("SERVICE_CLICKHOUSE_")
		c.CH = store.CHConfig{
			Enabled:     true,
			URL:         ch.MustURL("DBURL").String(),
			DialTimeout: ch.MayDuration("DIAL_TIMEOUT", 0),
		}
	}
	return c
}

// OpenStorage picks the backend named in o and binds it to the matching deps seam
// An unknown name or a missing seam is a Config error
func OpenStorage(deps modkit.Deps, o Options) (repo.Storage, error) {
	switch o.BackendName() {
	case repo.BackendFile:
		log := deps.Named("interactions")
		return repo.NewFile(o.Path, &log), nil
	case repo.BackendSQLite:
		if deps.SQLite == nil {
			return nil, perr.Configf("sqlite backend selected but no sqlite store is open")
		}
		return repo.NewSQLite().Bind(deps.SQLite), nil
	case repo.BackendPG:
		if deps.PG == nil {
			return nil, perr.Configf("pg backend selected but postgres is not enabled")
		}
		return repo.NewPG().Bind(deps.PG), nil
	case repo.BackendCH:
		if deps.CH == nil {
			return nil, perr.Configf("ch backend selected but clickhouse is not enabled")
		}
		return repo.NewCH(deps.CH), nil
	}
	return nil, perr.Configf("unknown interactions backend %q (want one of %s)", o.Backend, strings.Join(repo.Backends, ", "))
}
