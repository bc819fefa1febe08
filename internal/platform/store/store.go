// Package store provides a unified interface to the optional database
// backends the interaction log can be written to
package store

import (
	"context"
	"errors"
	"fmt"

	perr "sentibot/internal/platform/errors"
	"sentibot/internal/platform/logger"
)

// Store holds whichever interaction log backends were opened
// a nil field means that backend is disabled
type Store struct {
	Log logger.Logger

	PG     TxRunner
	CH     Clickhouse
	SQLite TxRunner
}

// Row is a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows is a forward only result set; callers must Close it
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a write did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface shared by every driver adapter and its transactions
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner commits when fn returns nil and rolls back otherwise
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar backend: batch inserts plus plain statements
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger reports backend readiness
type Pinger interface{ Ping(context.Context) error }

// Open connects every backend cfg enables, in pg, ch, sqlite order
// a failure closes whatever already opened; disabled backends stay nil
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Str("component", "store").Logger()

	backends := []struct {
		name string
		on   bool
		open func() error
	}{
		{"pg", cfg.PG.Enabled, func() (err error) { s.PG, err = openPG(ctx, cfg, s); return err }},
		{"ch", cfg.CH.Enabled, func() (err error) { s.CH, err = openCH(ctx, cfg, s); return err }},
		{"sqlite", cfg.SQLite.Enabled, func() (err error) { s.SQLite, err = openSQLite(ctx, cfg, s); return err }},
	}
	for _, b := range backends {
		if !b.on {
			continue
		}
		if err := b.open(); err != nil {
			_ = s.Close(ctx)
			s.Log.Error().Err(err).Str("backend", b.name).Msg("store open failed")
			return nil, err
		}
	}

	s.Log.Debug().
		Bool("pg", s.PG != nil).
		Bool("ch", s.CH != nil).
		Bool("sqlite", s.SQLite != nil).
		Msg("store opened")
	return s, nil
}

type seam struct {
	name string
	v    any
}

func (s *Store) seams() []seam {
	return []seam{{"pg", s.PG}, {"ch", s.CH}, {"sqlite", s.SQLite}}
}

// Guard pings each open backend that implements Pinger and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return perr.Unavailablef("store: not opened")
	}
	var errs []error
	for _, sm := range s.seams() {
		p, ok := sm.v.(Pinger)
		if !ok {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sm.name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every open backend; safe on a nil or empty Store
func (s *Store) Close(context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, sm := range s.seams() {
		c, ok := sm.v.(interface{ Close() error })
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sm.name, err))
		}
	}
	return errors.Join(errs...)
}
