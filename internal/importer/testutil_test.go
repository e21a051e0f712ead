package importer_test

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmunix/npimport/internal/migrations"
	"github.com/vmunix/npimport/internal/playlist"

	_ "modernc.org/sqlite"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestStore(t *testing.T) (*playlist.Store, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err, "open db")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.NewPipeSQL)
	require.NoError(t, err, "apply schema")
	return playlist.NewStore(db), db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n), "count %s", table)
	return n
}

func info(url, title string) *playlist.StreamInfo {
	return &playlist.StreamInfo{
		URL:        url,
		Title:      title,
		Duration:   180,
		Uploader:   "Uploader",
		ViewCount:  10,
		UploadDate: "20240101",
	}
}
