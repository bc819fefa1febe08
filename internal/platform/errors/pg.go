package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// sqlstateCodes maps the SQLSTATEs the interaction store can hit; anything else is ErrorCodeDB
var sqlstateCodes = map[string]ErrorCode{
	"23502": ErrorCodeValidation,      // not_null_violation
	"23514": ErrorCodeValidation,      // check_violation
	"22001": ErrorCodeInvalidArgument, // string_data_right_truncation
	"22P02": ErrorCodeInvalidArgument, // invalid_text_representation
	"25006": ErrorCodeUnavailable,     // read_only_sql_transaction
	"57P01": ErrorCodeUnavailable,     // admin_shutdown
	"57P03": ErrorCodeUnavailable,     // cannot_connect_now
}

const sqlstateUndefinedTable = "42P01"

// transientText matches driver failures that never reach the server
var transientText = []string{
	"connection refused",
	"broken pipe",
	"terminating connection due to administrator command",
}

func sqlstate(err error) (string, bool) {
	var pe *pgconn.PgError
	if !stderrs.As(err, &pe) {
		return "", false
	}
	return pe.Code, true
}

// IsUndefinedTable reports a query against a table that does not exist yet
func IsUndefinedTable(err error) bool {
	code, ok := sqlstate(err)
	return ok && code == sqlstateUndefinedTable
}

// FromPostgres wraps err with the ErrorCode its SQLSTATE maps to; nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code := ErrorCodeDB
	if state, ok := sqlstate(err); ok {
		if c, known := sqlstateCodes[state]; known {
			code = c
		}
	}
	return Wrap(err, code, msg)
}

// IsTransient reports whether a store failure is a dependency blip rather than a bad write.
// Cancellation and deadlines are the caller's choice and never count.
func IsTransient(err error) bool {
	switch {
	case err == nil, stderrs.Is(err, context.Canceled), stderrs.Is(err, context.DeadlineExceeded):
		return false
	case IsCode(err, ErrorCodeUnavailable):
		return true
	}
	if state, ok := sqlstate(err); ok {
		return sqlstateCodes[state] == ErrorCodeUnavailable
	}
	msg := strings.ToLower(Root(err).Error())
	for _, s := range transientText {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
