package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// sqlQuerier is the surface *sql.DB and *sql.Tx share
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqlDBQuerier implements RowQuerier over database/sql
type sqlDBQuerier struct{ q sqlQuerier }

func (s sqlDBQuerier) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlTag{res: res, verb: verbOf(query)}, nil
}

func (s sqlDBQuerier) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rs, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlRows{r: rs}, nil
}

func (s sqlDBQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	return s.q.QueryRowContext(ctx, query, args...)
}

// sqliteAdapter wraps *sql.DB and implements TxRunner, Pinger and Close
type sqliteAdapter struct {
	sqlDBQuerier
	db *sql.DB
}

func (a *sqliteAdapter) Ping(ctx context.Context) error { return a.db.PingContext(ctx) }

func (a *sqliteAdapter) Close() error { return a.db.Close() }

// Tx runs fn inside a transaction; any error from fn rolls back
func (a *sqliteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(sqlDBQuerier{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// openSQLite opens the sqlite file, creating its directory when needed
var openSQLite = func(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	path := cfg.SQLite.Path
	if path == "" {
		return nil, fmt.Errorf("sqlite: empty path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// one writer; sqlite serializes anyway
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	s.Log.Debug().Str("path", path).Msg("sqlite opened")
	return &sqliteAdapter{sqlDBQuerier: sqlDBQuerier{q: db}, db: db}, nil
}

type sqlRows struct {
	r    *sql.Rows
	cols []string
}

func (x *sqlRows) Next() bool            { return x.r.Next() }
func (x *sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x *sqlRows) Err() error            { return x.r.Err() }
func (x *sqlRows) Close()                { _ = x.r.Close() }
func (x *sqlRows) Columns() []string {
	if x.cols == nil {
		x.cols, _ = x.r.Columns()
	}
	return x.cols
}

type sqlTag struct {
	res  sql.Result
	verb string
}

func (t sqlTag) RowsAffected() int64 {
	n, err := t.res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}

func (t sqlTag) String() string { return fmt.Sprintf("%s %d", t.verb, t.RowsAffected()) }

func verbOf(query string) string {
	if f := strings.Fields(query); len(f) > 0 {
		return strings.ToUpper(f[0])
	}
	return ""
}
