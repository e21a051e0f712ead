package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/npimport/internal/archive"
	"github.com/vmunix/npimport/internal/migrations"
	"github.com/vmunix/npimport/internal/playlist"

	_ "modernc.org/sqlite"
)

// fakeYtdlpScript answers --version and prints metadata for watch URLs.
// URLs containing "blocked" or "missing" fail the way yt-dlp does.
const fakeYtdlpScript = `#!/bin/sh
case "$1" in --version) echo 2026.01.01; exit 0;; esac
for last; do :; done
case "$last" in
  *blocked*) echo "ERROR: [youtube] x: Video unavailable" >&2; exit 1;;
  *missing*) echo "ERROR: [generic] HTTP Error 404: Not Found" >&2; exit 1;;
esac
id=${last##*v=}
printf '{"id":"%s","title":"Track %s","duration":61.4,"uploader":"Someone","extractor_key":"Youtube"}\n' "$id" "$id"
`

// testEnv is a directory holding an archive, a URL list and a config file
// pointing at a fake yt-dlp.
type testEnv struct {
	dir     string
	archive string
	config  string
	ytdlp   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	ytdlp := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(ytdlp, []byte(fakeYtdlpScript), 0755))

	cfgPath := filepath.Join(dir, "npimport.toml")
	cfg := "[fetcher]\nytdlp_path = \"" + ytdlp + "\"\nretries = 0\n\n[log]\nlevel = \"error\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	env := &testEnv{dir: dir, archive: filepath.Join(dir, "NewPipeData-20261014.zip"), config: cfgPath, ytdlp: ytdlp}
	env.writeArchive(t)
	return env
}

func (e *testEnv) writeArchive(t *testing.T) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(migrations.NewPipeSQL)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	dbData, err := os.ReadFile(dbPath)
	require.NoError(t, err)

	f, err := os.Create(e.archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, data := range map[string][]byte{"newpipe.db": dbData, "newpipe.settings": []byte("settings")} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

// writeList writes urls, one per line, and returns the file path.
func (e *testEnv) writeList(t *testing.T, urls ...string) string {
	t.Helper()
	path := filepath.Join(e.dir, "list.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(urls, "\n")+"\n"), 0644))
	return path
}

// entries returns the stream URLs of the named playlist inside the archive.
func (e *testEnv) entries(t *testing.T, name string) []string {
	t.Helper()
	ws, err := archive.Unzip(e.archive, archive.Options{})
	require.NoError(t, err)
	defer func() { require.NoError(t, ws.Close()) }()

	store, err := playlist.Open(ws.DBPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	p, err := store.GetPlaylistByName(name)
	require.NoError(t, err)
	list, err := store.ListEntries(p.ID)
	require.NoError(t, err)

	urls := make([]string, len(list))
	for i, entry := range list {
		urls[i] = entry.URL
	}
	return urls
}

func (e *testEnv) files(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(e.dir)
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

// execute runs the command line and captures its output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		args = []string{} // nil makes cobra fall back to os.Args
	}
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func watch(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
