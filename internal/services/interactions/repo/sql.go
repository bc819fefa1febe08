package repo

import (
	"context"
	"math"
	"sync"
	"time"

	"sentibot/internal/core/sentiment"
	"sentibot/internal/modkit/repokit"
	perr "sentibot/internal/platform/errors"
	"sentibot/internal/platform/store"
	"sentibot/internal/services/interactions/domain"

	"github.com/google/uuid"
)

// dialect holds the statements and time codec of one SQL engine
type dialect struct {
	name       string
	create     []string
	insert     string
	selectRows string
	// filterArgs returns the selectRows args for f
	filterArgs func(f domain.Filter) []any
	tsArg      func(time.Time) any
	tsDest     func() (dest any, get func() time.Time)
	// ddlHooks run inside the create transaction before the statements
	ddlHooks []repokit.BeginHook
}

var pgDialect = dialect{
	name: BackendPG,
	create: []string{
		`create table if not exists ` + table + ` (
  seq bigserial,
  id uuid primary key,
  session_id text not null default '',
  ts timestamptz not null,
  user_input text not null,
  sentiment text not null check (sentiment in ('positive','negative','neutral','error')),
  polarity double precision not null,
  subjectivity double precision not null,
  response text not null
)`,
		`create index if not exists ` + table + `_ts_idx on ` + table + ` (ts)`,
	},
	insert: `
insert into ` + table + ` (id, session_id, ts, user_input, sentiment, polarity, subjectivity, response)
values ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
`,
	selectRows: `
select ts, user_input, sentiment, polarity, subjectivity, response, id::text, session_id
from ` + table + `
where ($1 = '' or sentiment = $1)
and ts >= $2
order by ts desc, seq desc
limit $3
`,
	filterArgs: func(f domain.Filter) []any {
		var limit any // null means no limit
		if f.Limit > 0 {
			limit = f.Limit
		}
		since := f.Since
		if since.IsZero() {
			since = time.Unix(0, 0).UTC()
		}
		return []any{string(f.Sentiment), since, limit}
	},
	tsArg: func(t time.Time) any { return t.UTC() },
	tsDest: func() (any, func() time.Time) {
		var ts time.Time
		return &ts, func() time.Time { return ts.UTC() }
	},
	ddlHooks: []repokit.BeginHook{
		func(ctx context.Context, q repokit.Queryer) error {
			_, err := q.Exec(ctx, `set local lock_timeout = '5s'`)
			return err
		},
	},
}

var sqliteDialect = dialect{
	name: BackendSQLite,
	create: []string{
		`create table if not exists ` + table + ` (
  seq integer primary key autoincrement,
  id text not null unique,
  session_id text not null default '',
  ts_unix_nano integer not null,
  user_input text not null,
  sentiment text not null check (sentiment in ('positive','negative','neutral','error')),
  polarity real not null,
  subjectivity real not null,
  response text not null
)`,
		`create index if not exists ` + table + `_ts_idx on ` + table + ` (ts_unix_nano)`,
	},
	insert: `
insert into ` + table + ` (id, session_id, ts_unix_nano, user_input, sentiment, polarity, subjectivity, response)
values (?, ?, ?, ?, ?, ?, ?, ?)
`,
	selectRows: `
select ts_unix_nano, user_input, sentiment, polarity, subjectivity, response, id, session_id
from ` + table + `
where (? = '' or sentiment = ?)
and ts_unix_nano >= ?
order by ts_unix_nano desc, seq desc
limit ?
`,
	filterArgs: func(f domain.Filter) []any {
		limit := -1
		if f.Limit > 0 {
			limit = f.Limit
		}
		var since int64 = math.MinInt64
		if !f.Since.IsZero() {
			since = f.Since.UnixNano()
		}
		return []any{string(f.Sentiment), string(f.Sentiment), since, limit}
	},
	tsArg: func(t time.Time) any { return t.UnixNano() },
	tsDest: func() (any, func() time.Time) {
		var ns int64
		return &ns, func() time.Time { return time.Unix(0, ns).UTC() }
	},
}

type (
	// SQL binds the interaction log to a relational engine
	SQL struct{ d dialect }

	// queries holds the database query methods
	queries struct {
		q repokit.Queryer
		d dialect

		mu    sync.Mutex
		ready bool
	}
)

// NewPG creates a Postgres storage binder
func NewPG() repokit.Binder[Storage] { return SQL{d: pgDialect} }

// NewSQLite creates a sqlite storage binder
func NewSQLite() repokit.Binder[Storage] { return SQL{d: sqliteDialect} }

// Bind binds a queryer to the Storage implementation
func (b SQL) Bind(q repokit.Queryer) Storage { return &queries{q: repokit.RequireQueryer(q), d: b.d} }

// ensure creates the table on first use; a failed attempt is retried on the next call
func (r *queries) ensure(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ready {
		return nil
	}
	err := repokit.InTx(ctx, r.q, func(q repokit.Queryer) error {
		return store.ExecAll(ctx, q, r.d.create...)
	}, r.d.ddlHooks...)
	if err != nil {
		return r.wrap(err, "create "+table)
	}
	r.ready = true
	return nil
}

func (r *queries) Append(ctx context.Context, t domain.Turn) error {
	if err := r.ensure(ctx); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.q.Exec(ctx, r.d.insert,
		t.ID,
		t.SessionID,
		r.d.tsArg(t.Timestamp),
		t.UserInput,
		string(t.Sentiment),
		t.Polarity,
		t.Subjectivity,
		t.Response,
	)
	if err != nil {
		r.forgetIfDropped(err)
		return r.wrap(err, "insert turn")
	}
	return nil
}

func (r *queries) Load(ctx context.Context, f domain.Filter) ([]domain.Turn, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	out, err := store.Many(ctx, r.q, r.scanTurn, r.d.selectRows, r.d.filterArgs(f)...)
	if err != nil {
		r.forgetIfDropped(err)
		return nil, r.wrap(err, "select turns")
	}
	reverse(out)
	return out, nil
}

func (r *queries) scanTurn(row store.Row) (domain.Turn, error) {
	var (
		t     domain.Turn
		class string
	)
	dest, ts := r.d.tsDest()
	if err := row.Scan(
		dest,
		&t.UserInput,
		&class,
		&t.Polarity,
		&t.Subjectivity,
		&t.Response,
		&t.ID,
		&t.SessionID,
	); err != nil {
		return t, err
	}
	t.Timestamp = ts()
	t.Sentiment = sentiment.Class(class)
	return t, nil
}

// forgetIfDropped lets the next call recreate a table removed behind our back
func (r *queries) forgetIfDropped(err error) {
	if !perr.IsUndefinedTable(err) {
		return
	}
	r.mu.Lock()
	r.ready = false
	r.mu.Unlock()
}

func (r *queries) wrap(err error, msg string) error {
	if r.d.name == BackendPG {
		err = perr.FromPostgres(err, "postgres")
	}
	return perr.WithOp(perr.Wrap(err, perr.ErrorCodePersistence, r.d.name+": "+msg), "interactions."+r.d.name)
}

// reverse flips newest-first query output back into log order
func reverse(ts []domain.Turn) {
	for i, j := 0, len(ts)-1; i < j; i, j = i+1, j-1 {
		ts[i], ts[j] = ts[j], ts[i]
	}
}
