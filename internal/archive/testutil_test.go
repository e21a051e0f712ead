package archive

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/npimport/internal/migrations"

	_ "modernc.org/sqlite"
)

type testMember struct {
	name   string
	data   []byte
	method uint16
}

// writeTestZip creates a zip archive at path with the given members.
func writeTestZip(t *testing.T, path string, members ...testMember) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, m := range members {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: m.name, Method: m.method})
		require.NoError(t, err)
		_, err = w.Write(m.data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

// newPipeDB returns the bytes of an empty NewPipe database.
func newPipeDB(t *testing.T) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(migrations.NewPipeSQL)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

// newTestArchive writes a NewPipe-like archive into a fresh directory.
func newTestArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "NewPipeData-20261014_120000.zip")
	writeTestZip(t, path,
		testMember{name: "newpipe.db", data: newPipeDB(t), method: zip.Deflate},
		testMember{name: "newpipe.settings", data: []byte("settings-bytes"), method: zip.Store},
	)
	return path
}

// zipMembers returns name to method for each member of the archive.
func zipMembers(t *testing.T, path string) map[string]uint16 {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	members := make(map[string]uint16)
	for _, f := range r.File {
		members[f.Name] = f.Method
	}
	return members
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
