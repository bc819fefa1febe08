// Package pg opens the pgxpool behind the postgres interaction log and waits for it to answer
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultAttempts    = 6
	defaultPingTimeout = 3 * time.Second
	idleConnTTL        = 5 * time.Minute
)

type Config struct {
	URL      string
	AppName  string
	MaxConns int32
	SlowMs   int

	// Attempts and PingTimeout bound WaitReady; zero picks 6 and 3s
	Attempts    int
	PingTimeout time.Duration
}

// PG holds the pool and the tracer statements are reported to
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var (
	newPool  = pgxpool.NewWithConfig
	pingPool = func(ctx context.Context, p *pgxpool.Pool) error { return p.Ping(ctx) }
)

// Open builds the pool without touching the network; pgxpool dials lazily
func Open(ctx context.Context, cfg Config, tracer QueryTracer) (*PG, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := newPool(ctx, pc)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

func poolConfig(cfg Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pc.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	pc.MaxConnIdleTime = idleConnTTL
	return pc, nil
}

// WaitReady pings with exponential backoff until the server answers.
// notify sees every failed attempt, numbered from 1.
func (p *PG) WaitReady(ctx context.Context, cfg Config, notify func(err error, attempt int)) error {
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 150 * time.Millisecond
	eb.MaxInterval = 2 * time.Second
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)

	n := 0
	err := backoff.RetryNotify(func() error {
		n++
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return pingPool(pctx, p.Pool)
	}, policy, func(err error, _ time.Duration) {
		if notify != nil {
			notify(err, n)
		}
	})
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	}
	return fmt.Errorf("postgres ping failed after %d attempts: %w", n, err)
}

// Close is safe on a nil PG or pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
