package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code string) *pgconn.PgError { return &pgconn.PgError{Code: code, Message: "boom " + code} }

func TestFromPostgres(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"not null", pgErr("23502"), ErrorCodeValidation},
		{"check", pgErr("23514"), ErrorCodeValidation},
		{"too long", pgErr("22001"), ErrorCodeInvalidArgument},
		{"bad text", fmt.Errorf("insert: %w", pgErr("22P02")), ErrorCodeInvalidArgument},
		{"replica", pgErr("25006"), ErrorCodeUnavailable},
		{"starting up", pgErr("57P03"), ErrorCodeUnavailable},
		{"missing table", pgErr("42P01"), ErrorCodeDB},
		{"unmapped state", pgErr("40001"), ErrorCodeDB},
		{"not a pg error", stderrs.New("plain"), ErrorCodeDB},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromPostgres(tc.err, "append turn")
			if CodeOf(got) != tc.want {
				t.Fatalf("code = %v, want %v", CodeOf(got), tc.want)
			}
			if !stderrs.Is(got, tc.err) {
				t.Fatalf("cause lost: %v", got)
			}
		})
	}
	if FromPostgres(nil, "x") != nil {
		t.Fatal("nil must stay nil")
	}
}

func TestIsUndefinedTable(t *testing.T) {
	if !IsUndefinedTable(fmt.Errorf("select: %w", pgErr("42P01"))) {
		t.Fatal("wrapped 42P01 not detected")
	}
	if IsUndefinedTable(pgErr("42P07")) || IsUndefinedTable(stderrs.New("42P01")) {
		t.Fatal("only a PgError with 42P01 counts")
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", fmt.Errorf("w: %w", context.Canceled), false},
		{"deadline", context.DeadlineExceeded, false},
		{"coded unavailable", Unavailablef("pool closed"), true},
		{"pg starting up", pgErr("57P03"), true},
		{"pg shutdown behind wrap", Wrap(pgErr("57P01"), ErrorCodeDB, "x"), true},
		{"pg constraint", pgErr("23502"), false},
		{"dial refused", stderrs.New("dial tcp 127.0.0.1:5432: Connection Refused"), true},
		{"syntax", stderrs.New("syntax error at or near"), false},
	}
	for _, tc := range cases {
		if got := IsTransient(tc.err); got != tc.want {
			t.Errorf("%s: IsTransient = %v, want %v", tc.name, got, tc.want)
		}
	}
}
