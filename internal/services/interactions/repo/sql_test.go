package repo

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sentibot/internal/core/sentiment"
	perr "sentibot/internal/platform/errors"
	"sentibot/internal/platform/store"
	kit "sentibot/internal/platform/testkit"
	"sentibot/internal/services/interactions/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"
)

func openSQLite(t *testing.T) Storage {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{SQLite: store.SQLiteConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "chat.db")}})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(ctx) })
	return NewSQLite().Bind(st.SQLite)
}

func TestSQLite_RoundTripAndIDs(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	var want []domain.Turn
	for i := 0; i < 5; i++ {
		tr := turnAt(i, sentiment.Positive)
		tr.SessionID = "sess-1"
		if err := s.Append(ctx, tr); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
		want = append(want, tr)
	}

	got, err := s.Load(ctx, domain.Filter{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got, persisted); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	seen := map[string]bool{}
	for _, g := range got {
		if g.ID == "" || seen[g.ID] || g.SessionID != "sess-1" {
			t.Fatalf("bad ids on %+v", g)
		}
		seen[g.ID] = true
	}
}

func TestSQLite_FilterSinceAndLimit(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	classes := []sentiment.Class{sentiment.Positive, sentiment.Negative, sentiment.Neutral}
	for i := 0; i < 9; i++ {
		if err := s.Append(ctx, turnAt(i, classes[i%3])); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Load(ctx, domain.Filter{Sentiment: sentiment.Negative})
	if err != nil || len(got) != 3 || got[0].UserInput != "input 1" {
		t.Fatalf("class filter = %+v, %v", got, err)
	}
	got, _ = s.Load(ctx, domain.Filter{Limit: 2})
	if len(got) != 2 || got[0].UserInput != "input 7" || got[1].UserInput != "input 8" {
		t.Fatalf("limit = %+v", got)
	}
	got, _ = s.Load(ctx, domain.Filter{Since: base.Add(6 * time.Minute)})
	if len(got) != 3 {
		t.Fatalf("since = %+v", got)
	}
}

func TestSQLite_RejectsUnknownClass(t *testing.T) {
	s := openSQLite(t)
	err := s.Append(context.Background(), turnAt(0, sentiment.Class("ecstatic")))
	if !perr.IsCode(err, perr.ErrorCodePersistence) {
		t.Fatalf("err = %v, want persistence", err)
	}
}

// failingQueryer fails its first n Execs
type failingQueryer struct {
	store.RowQuerier
	fails int
	execs int
}

func (f *failingQueryer) Exec(ctx context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.execs++
	if f.fails > 0 {
		f.fails--
		return nil, errors.New("db down")
	}
	return nil, nil
}

func TestSQL_EnsureRetriesAfterFailure(t *testing.T) {
	q := &failingQueryer{fails: 1}
	s := NewPG().Bind(q)

	err := s.Append(context.Background(), turnAt(0, sentiment.Neutral))
	if !perr.IsCode(err, perr.ErrorCodePersistence) {
		t.Fatalf("first append err = %v", err)
	}
	if err := s.Append(context.Background(), turnAt(0, sentiment.Neutral)); err != nil {
		t.Fatalf("second append: %v", err)
	}
	// 1 failed create, 2 creates, 1 insert
	if q.execs != 4 {
		t.Fatalf("execs = %d", q.execs)
	}
	if err := s.Append(context.Background(), turnAt(1, sentiment.Neutral)); err != nil || q.execs != 5 {
		t.Fatalf("table should be created once; execs = %d err=%v", q.execs, err)
	}
}

// droppedTableQueryer reports a missing table on its first insert
type droppedTableQueryer struct {
	store.RowQuerier
	dropped bool
	creates int
}

func (d *droppedTableQueryer) Exec(ctx context.Context, sql string, args ...any) (store.CommandTag, error) {
	if strings.Contains(sql, "create table") {
		d.creates++
	}
	if strings.Contains(sql, "insert into") && !d.dropped {
		d.dropped = true
		return nil, &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
	}
	return nil, nil
}

func TestSQL_RecreatesDroppedTable(t *testing.T) {
	q := &droppedTableQueryer{}
	s := NewPG().Bind(q)

	if err := s.Append(context.Background(), turnAt(0, sentiment.Neutral)); !perr.IsCode(err, perr.ErrorCodePersistence) {
		t.Fatalf("first append err = %v", err)
	}
	if err := s.Append(context.Background(), turnAt(1, sentiment.Neutral)); err != nil {
		t.Fatalf("second append: %v", err)
	}
	if q.creates != 2 {
		t.Fatalf("creates = %d, want 2", q.creates)
	}
}

func TestSQL_BindNilPanics(t *testing.T) {
	kit.MustPanic(t, func() { NewPG().Bind(nil) })
}
