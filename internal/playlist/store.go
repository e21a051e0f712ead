package playlist

import (
	"database/sql"
	"fmt"

	"github.com/vmunix/npimport/internal/migrations"

	_ "modernc.org/sqlite"
)

// querier abstracts *sql.DB and *sql.Tx for shared query logic.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

// Store provides access to the playlist tables of a NewPipe database.
// It is not safe for concurrent use.
type Store struct {
	db *sql.DB
}

// NewStore creates a store on an already opened database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens the SQLite database at path and verifies it has the
// NewPipe playlist tables. The store owns the connection; call Close.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection for the whole run.
	db.SetMaxOpenConns(1)

	s := NewStore(db)
	if err := s.CheckSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CheckSchema returns ErrSchema if any required table is missing.
func (s *Store) CheckSchema() error {
	for _, table := range migrations.RequiredTables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: missing table %s", ErrSchema, table)
		}
		if err != nil {
			return fmt.Errorf("check schema: %w", err)
		}
	}
	return nil
}

// Begin starts a transaction.
func (s *Store) Begin() (*Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a database transaction with the same methods as Store.
type Tx struct {
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
