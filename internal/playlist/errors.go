package playlist

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrStreamExists indicates the (service_id, url) pair is already stored.
	ErrStreamExists = fmt.Errorf("stream already exists: %w", ErrDuplicate)

	// ErrConstraint indicates a foreign key or check constraint violation.
	ErrConstraint = errors.New("constraint violation")

	// ErrSchema indicates the database is missing a required table.
	ErrSchema = errors.New("unexpected database schema")
)

// streamURLConstraint is how SQLite reports a violation of the
// index_streams_service_id_url unique index.
const streamURLConstraint = "streams.service_id, streams.url"

// mapSQLiteError converts SQLite errors to custom error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check error message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") {
		if strings.Contains(errStr, streamURLConstraint) {
			return ErrStreamExists
		}
		return ErrDuplicate
	}
	if strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	if strings.Contains(errStr, "FOREIGN KEY constraint failed") ||
		strings.Contains(errStr, "CHECK constraint failed") {
		return ErrConstraint
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
