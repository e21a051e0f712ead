package playlist

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmunix/npimport/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err, "open db")
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.NewPipeSQL)
	require.NoError(t, err, "apply schema")
	return db
}

func testInfo(url, title string) *StreamInfo {
	return &StreamInfo{
		URL:          url,
		Title:        title,
		Duration:     215,
		Uploader:     "Uploader",
		UploaderURL:  "https://www.youtube.com/@uploader",
		ThumbnailURL: "https://i.ytimg.com/vi/x/hqdefault.jpg",
		ViewCount:    1234,
		UploadDate:   "20240115",
	}
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n), "count %s", table)
	return n
}
