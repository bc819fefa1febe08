package store

import (
	"context"

	chx "sentibot/internal/platform/store/ch"
	"sentibot/internal/platform/store/pg"
)

// openPG builds the pool, waits for postgres to answer and wraps it in the traced adapter
var openPG = func(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	pcfg := pg.Config{
		URL:         cfg.PG.URL,
		AppName:     cfg.AppName,
		MaxConns:    cfg.PG.MaxConns,
		SlowMs:      cfg.PG.SlowQueryMs,
		Attempts:    cfg.PG.ConnectRetries,
		PingTimeout: cfg.PG.PingTimeout,
	}
	p, err := pg.Open(ctx, pcfg, tracer)
	if err != nil {
		return nil, err
	}
	err = p.WaitReady(ctx, pcfg, func(err error, attempt int) {
		s.Log.Warn().Err(err).Int("attempt", attempt).Msg("postgres not ready")
	})
	if err != nil {
		p.Close()
		return nil, err
	}
	return newPGAdapter(p), nil
}

var openCH = func(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:         cfg.CH.URL,
		Role:        cfg.AppName,
		Tag:         cfg.Version,
		DialTimeout: cfg.CH.DialTimeout,
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
