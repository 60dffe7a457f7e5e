package errors

// Postgres helpers: map pgx failures onto ErrorCode so catalog callers can tell
// a missing row from a database that is down

import (
	"context"
	stderrs "errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes with a dedicated mapping
const (
	pgErrInvalidTextRepresentation = "22P02"
	pgErrStringDataRightTruncation = "22001"
	pgErrUndefinedTable            = "42P01"
	pgErrInsufficientPrivilege     = "42501"
	pgErrReadOnlySQLTransaction    = "25006"
	pgErrAdminShutdown             = "57P01"
	pgErrCannotConnectNow          = "57P03"
	pgErrTooManyConnections        = "53300"
)

// ExtractPgError returns the PgError at the root of err, if any
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err is a Postgres error with the given SQLSTATE
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsNoRows reports whether err is pgx's empty result sentinel
func IsNoRows(err error) bool { return stderrs.Is(err, pgx.ErrNoRows) }

// IsUndefinedTable reports whether the queried relation does not exist
func IsUndefinedTable(err error) bool { return IsSQLState(err, pgErrUndefinedTable) }

// DBErrorCode maps a Postgres error to an ErrorCode
// ok is false when err carries no PgError and no pgx sentinel
func DBErrorCode(err error) (ErrorCode, bool) {
	if IsNoRows(err) {
		return ErrorCodeNotFound, true
	}
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch pgErr.Code {
	case pgErrInvalidTextRepresentation, pgErrStringDataRightTruncation:
		return ErrorCodeInvalidArgument, true
	case pgErrUndefinedTable, pgErrInsufficientPrivilege,
		pgErrReadOnlySQLTransaction, pgErrAdminShutdown,
		pgErrCannotConnectNow, pgErrTooManyConnections:
		// the catalog exists but cannot be read right now
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// codeFor picks the code for any database failure
// dial and network errors never carry a PgError so they land on Unavailable;
// caller cancellation keeps its own identity
func codeFor(err error) ErrorCode {
	if code, ok := DBErrorCode(err); ok {
		return code
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return ErrorCodeUnknown
	}
	return ErrorCodeUnavailable
}

// FromPostgres wraps a database error with a mapped ErrorCode and message
// nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, codeFor(err), msg)
}

// FromPostgresf is the formatted variant of FromPostgres
func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, codeFor(err), fmt.Sprintf(format, a...))
}

// AttachFieldFromPg sets the column named by a PgError as the error field
func AttachFieldFromPg(err error) error {
	if pgErr, ok := ExtractPgError(err); ok && pgErr.ColumnName != "" {
		return WithField(err, pgErr.ColumnName)
	}
	return err
}
