package fetcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const sampleJSON = `{
  "_type": "video",
  "id": "dQw4w9WgXcQ",
  "title": "Never Gonna Give You Up",
  "duration": 212.0,
  "uploader": "Rick Astley",
  "uploader_url": "https://www.youtube.com/@RickAstleyYT",
  "channel_url": "https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw",
  "thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
  "view_count": 1500000000,
  "upload_date": "20091025",
  "webpage_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
  "extractor_key": "Youtube"
}`

// fakeYtdlp writes a shell script standing in for yt-dlp and returns its path.
func fakeYtdlp(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755))
	return path
}

func TestParseInfo(t *testing.T) {
	info, err := parseInfo([]byte(sampleJSON), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", info.URL)
	assert.Equal(t, "Never Gonna Give You Up", info.Title)
	assert.Equal(t, int64(212), info.Duration)
	assert.Equal(t, "Rick Astley", info.Uploader)
	assert.Equal(t, "https://www.youtube.com/@RickAstleyYT", info.UploaderURL)
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", info.ThumbnailURL)
	assert.Equal(t, int64(1500000000), info.ViewCount)
	assert.Equal(t, "20091025", info.UploadDate)
}

func TestParseInfo_NonYoutubeUsesWebpageURL(t *testing.T) {
	info, err := parseInfo([]byte(`{"id":"123","title":"Clip","extractor_key":"Vimeo","webpage_url":"https://vimeo.com/123","channel_url":"https://vimeo.com/user"}`), "https://vimeo.com/123?x=1")
	require.NoError(t, err)
	assert.Equal(t, "https://vimeo.com/123", info.URL)
	assert.Equal(t, "https://vimeo.com/user", info.UploaderURL)
}

func TestParseInfo_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "garbage"},
		{"playlist", `{"_type":"playlist","id":"PL1","title":"Mix"}`},
		{"no title", `{"id":"abc"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseInfo([]byte(tt.data), "https://x")
			assert.ErrorIs(t, err, ErrBadMetadata)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		stderr string
		want   error
	}{
		{"ERROR: [youtube] abc: Video unavailable. This video contains content from SME, who has blocked it in your country on copyright grounds", ErrUnavailable},
		{"ERROR: [youtube] abc: Private video. Sign in if you've been granted access to this video", ErrUnavailable},
		{"ERROR: Unsupported URL: https://example.com/", ErrNotFound},
		{"ERROR: [youtube] abc: Incomplete YouTube ID abc.", ErrNotFound},
		{"ERROR: [youtube] abc: Unable to download webpage: <urlopen error [Errno -3] Temporary failure in name resolution>", ErrNetwork},
		{"ERROR: unable to download video data: HTTP Error 503: Service Unavailable", ErrNetwork},
		{"ERROR: something new", nil},
	}
	for _, tt := range tests {
		got := classify(tt.stderr)
		if tt.want == nil {
			assert.NoError(t, got, tt.stderr)
			continue
		}
		assert.ErrorIs(t, got, tt.want, tt.stderr)
	}
}

func TestYtdlp_Fetch(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	path := fakeYtdlp(t, `echo "$@" > `+argsFile+`
cat <<'JSON'
`+sampleJSON+`
JSON`)

	f := New(Config{Path: path, ExtraArgs: []string{"--cookies", "c.txt"}}, testLogger())
	info, err := f.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Never Gonna Give You Up", info.Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", info.URL)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "-J --no-warnings --skip-download --no-playlist --cookies c.txt https://youtu.be/dQw4w9WgXcQ", strings.TrimSpace(string(args)))
}

func TestYtdlp_Fetch_Unavailable(t *testing.T) {
	path := fakeYtdlp(t, `echo "ERROR: [youtube] abc: Video unavailable. This video contains content from SME" >&2
exit 1`)

	f := New(Config{Path: path, Retries: 3, RetryDelay: time.Millisecond}, testLogger())
	_, err := f.Fetch(context.Background(), "https://youtu.be/abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "https://youtu.be/abc", fe.URL)
	assert.Contains(t, fe.Stderr, "content from SME")
}

func TestYtdlp_Fetch_RetriesNetworkErrors(t *testing.T) {
	counter := filepath.Join(t.TempDir(), "count")
	path := fakeYtdlp(t, `echo x >> `+counter+`
if [ "$(wc -l < `+counter+`)" -lt 3 ]; then
  echo "ERROR: Unable to download webpage: timed out" >&2
  exit 1
fi
cat <<'JSON'
`+sampleJSON+`
JSON`)

	f := New(Config{Path: path, Retries: 3, RetryDelay: time.Millisecond}, testLogger())
	info, err := f.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Never Gonna Give You Up", info.Title)

	data, err := os.ReadFile(counter)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "x"))
}

func TestYtdlp_Fetch_NetworkGivesUp(t *testing.T) {
	counter := filepath.Join(t.TempDir(), "count")
	path := fakeYtdlp(t, `echo x >> `+counter+`
echo "ERROR: HTTP Error 429: Too Many Requests" >&2
exit 1`)

	f := New(Config{Path: path, Retries: 2, RetryDelay: time.Millisecond}, testLogger())
	_, err := f.Fetch(context.Background(), "https://youtu.be/abc")
	assert.ErrorIs(t, err, ErrNetwork)

	data, err := os.ReadFile(counter)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "x"), "one attempt plus two retries")
}

func TestYtdlp_Fetch_UnclassifiedFailure(t *testing.T) {
	path := fakeYtdlp(t, `echo "ERROR: boom" >&2
exit 2`)

	f := New(Config{Path: path}, testLogger())
	_, err := f.Fetch(context.Background(), "https://youtu.be/abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "ERROR: boom")
}

func TestYtdlp_Fetch_Timeout(t *testing.T) {
	path := fakeYtdlp(t, `exec sleep 5`)

	f := New(Config{Path: path, Timeout: 50 * time.Millisecond}, testLogger())
	_, err := f.Fetch(context.Background(), "https://youtu.be/abc")
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestYtdlp_NotInstalled(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-yt-dlp")
	f := New(Config{Path: missing}, testLogger())

	assert.ErrorIs(t, f.CheckInstalled(context.Background()), ErrNotInstalled)

	_, err := f.Fetch(context.Background(), "https://youtu.be/abc")
	assert.ErrorIs(t, err, ErrNotInstalled)
}

func TestYtdlp_CheckInstalled(t *testing.T) {
	path := fakeYtdlp(t, `echo 2025.01.01`)
	f := New(Config{Path: path}, testLogger())
	assert.NoError(t, f.CheckInstalled(context.Background()))
}
