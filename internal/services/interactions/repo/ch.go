package repo

import (
	"context"
	"strconv"
	"sync"
	"time"

	"sentibot/internal/core/sentiment"
	perr "sentibot/internal/platform/errors"
	"sentibot/internal/platform/store"
	"sentibot/internal/services/interactions/domain"

	"github.com/google/uuid"
)

const chCreate = `
CREATE TABLE IF NOT EXISTS ` + table + ` (
  id UUID,
  session_id String,
  ts DateTime64(9, 'UTC'),
  user_input String,
  sentiment LowCardinality(String),
  polarity Float64,
  subjectivity Float64,
  response String
) ENGINE = MergeTree
ORDER BY (ts, id)
`

const chSelect = `
SELECT ts, user_input, sentiment, polarity, subjectivity, response, toString(id), session_id
FROM ` + table + `
WHERE (? = '' OR sentiment = ?)
AND ts >= ?
ORDER BY ts DESC, id DESC
`

// CH writes turns to a ClickHouse MergeTree table through the store seam
type CH struct {
	c store.Clickhouse

	mu    sync.Mutex
	ready bool
}

// NewCH binds the ClickHouse seam
func NewCH(c store.Clickhouse) *CH {
	if c == nil {
		panic("interactions.NewCH requires a Clickhouse seam")
	}
	return &CH{c: c}
}

func (r *CH) ensure(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ready {
		return nil
	}
	if err := r.c.Exec(ctx, chCreate); err != nil {
		return chErr(err, "create "+table)
	}
	r.ready = true
	return nil
}

// Append inserts one turn as a single-row batch
func (r *CH) Append(ctx context.Context, t domain.Turn) error {
	if err := r.ensure(ctx); err != nil {
		return err
	}
	id, err := uuid.Parse(t.ID)
	if err != nil {
		id = uuid.New()
	}
	row := []any{
		id,
		t.SessionID,
		t.Timestamp.UTC(),
		t.UserInput,
		string(t.Sentiment),
		t.Polarity,
		t.Subjectivity,
		t.Response,
	}
	if err := r.c.Insert(ctx, table, [][]any{row}); err != nil {
		return chErr(err, "insert turn")
	}
	return nil
}

// Load returns filtered turns in log order
func (r *CH) Load(ctx context.Context, f domain.Filter) ([]domain.Turn, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	q := chSelect
	if f.Limit > 0 {
		q += "LIMIT " + strconv.Itoa(f.Limit)
	}
	since := f.Since
	if since.IsZero() {
		since = time.Unix(0, 0)
	}
	rows, err := r.c.Query(ctx, q, string(f.Sentiment), string(f.Sentiment), since.UTC())
	if err != nil {
		return nil, chErr(err, "select turns")
	}
	defer rows.Close()

	var out []domain.Turn
	for rows.Next() {
		var (
			t     domain.Turn
			class string
		)
		if err := rows.Scan(
			&t.Timestamp,
			&t.UserInput,
			&class,
			&t.Polarity,
			&t.Subjectivity,
			&t.Response,
			&t.ID,
			&t.SessionID,
		); err != nil {
			return nil, chErr(err, "scan turn")
		}
		t.Timestamp = t.Timestamp.UTC()
		t.Sentiment = sentiment.Class(class)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, chErr(err, "select turns")
	}
	reverse(out)
	return out, nil
}

func chErr(err error, msg string) error {
	return perr.WithOp(perr.Wrap(err, perr.ErrorCodePersistence, "ch: "+msg), "interactions.ch")
}
