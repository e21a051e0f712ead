// Package fetcher resolves video URLs to stream metadata using yt-dlp.
package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os/exec"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/vmunix/npimport/internal/playlist"
)

const (
	defaultPath       = "yt-dlp"
	defaultTimeout    = 2 * time.Minute
	defaultRetryDelay = 2 * time.Second
	watchURLPrefix    = "https://www.youtube.com/watch?v="
)

// Config for the yt-dlp fetcher.
type Config struct {
	Path       string        // executable, defaults to "yt-dlp"
	Timeout    time.Duration // per invocation
	Retries    int           // extra attempts after a network failure
	RetryDelay time.Duration // initial backoff between attempts
	ExtraArgs  []string
}

// Ytdlp fetches metadata by running yt-dlp as a subprocess.
type Ytdlp struct {
	path       string
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	extraArgs  []string
	log        *slog.Logger
}

// New creates a yt-dlp fetcher.
func New(cfg Config, log *slog.Logger) *Ytdlp {
	if log == nil {
		log = slog.Default()
	}
	y := &Ytdlp{
		path:       cfg.Path,
		timeout:    cfg.Timeout,
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
		extraArgs:  cfg.ExtraArgs,
		log:        log,
	}
	if y.path == "" {
		y.path = defaultPath
	}
	if y.timeout <= 0 {
		y.timeout = defaultTimeout
	}
	if y.retryDelay <= 0 {
		y.retryDelay = defaultRetryDelay
	}
	if y.retries < 0 {
		y.retries = 0
	}
	return y
}

// CheckInstalled verifies that yt-dlp can be executed.
func (y *Ytdlp) CheckInstalled(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, y.path, "--version").Output()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotInstalled, y.path, err)
	}
	y.log.Debug("yt-dlp found", "path", y.path, "version", strings.TrimSpace(string(out)))
	return nil
}

// Fetch returns the metadata of the video at url.
// Failures are *FetchError values wrapping ErrUnavailable, ErrNotFound,
// ErrNetwork, ErrNotInstalled or ErrBadMetadata where they can be classified.
// Network failures are retried with exponential backoff.
func (y *Ytdlp) Fetch(ctx context.Context, url string) (*playlist.StreamInfo, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = y.retryDelay
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(y.retries)), ctx)

	var info *playlist.StreamInfo
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		var err error
		info, err = y.fetchOnce(ctx, url)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrNetwork) {
			y.log.Debug("fetch failed, will retry", "url", url, "attempt", attempt, "error", err)
			return err
		}
		return backoff.Permanent(err)
	}, policy)
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (y *Ytdlp) fetchOnce(ctx context.Context, url string) (*playlist.StreamInfo, error) {
	args := []string{"-J", "--no-warnings", "--skip-download", "--no-playlist"}
	args = append(args, y.extraArgs...)
	args = append(args, url)

	cmdCtx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, y.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	y.log.Debug("yt-dlp finished", "url", url, "duration_ms", time.Since(start).Milliseconds(), "error", err)
	if err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		switch {
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
			return nil, &FetchError{URL: url, Err: ErrNotInstalled}
		case errors.Is(cmdCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
			return nil, &FetchError{URL: url, Err: fmt.Errorf("%w: timed out after %s", ErrNetwork, y.timeout)}
		case ctx.Err() != nil:
			return nil, &FetchError{URL: url, Err: ctx.Err()}
		}
		if class := classify(errMsg); class != nil {
			return nil, &FetchError{URL: url, Err: class, Stderr: errMsg}
		}
		return nil, &FetchError{URL: url, Err: fmt.Errorf("yt-dlp failed: %w", err), Stderr: errMsg}
	}

	info, err := parseInfo(stdout.Bytes(), url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return info, nil
}

// videoInfo is the subset of yt-dlp's info dict used here.
type videoInfo struct {
	Type         string  `json:"_type"`
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Duration     float64 `json:"duration"`
	Uploader     string  `json:"uploader"`
	UploaderURL  string  `json:"uploader_url"`
	ChannelURL   string  `json:"channel_url"`
	Thumbnail    string  `json:"thumbnail"`
	ViewCount    int64   `json:"view_count"`
	UploadDate   string  `json:"upload_date"`
	WebpageURL   string  `json:"webpage_url"`
	ExtractorKey string  `json:"extractor_key"`
}

func parseInfo(data []byte, url string) (*playlist.StreamInfo, error) {
	var v videoInfo
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: parse yt-dlp output: %v", ErrBadMetadata, err)
	}
	if v.Type == "playlist" {
		return nil, fmt.Errorf("%w: %s is a playlist, not a video", ErrBadMetadata, url)
	}
	if v.Title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrBadMetadata)
	}

	uploaderURL := v.UploaderURL
	if uploaderURL == "" {
		uploaderURL = v.ChannelURL
	}
	return &playlist.StreamInfo{
		URL:          canonicalURL(v, url),
		Title:        v.Title,
		Duration:     int64(math.Round(v.Duration)),
		Uploader:     v.Uploader,
		UploaderURL:  uploaderURL,
		ThumbnailURL: v.Thumbnail,
		ViewCount:    v.ViewCount,
		UploadDate:   v.UploadDate,
	}, nil
}

// canonicalURL returns the URL NewPipe stores for the video. YouTube videos
// use the watch URL so that short links and playlist links deduplicate.
func canonicalURL(v videoInfo, input string) string {
	if v.ID != "" && (v.ExtractorKey == "" || v.ExtractorKey == "Youtube") {
		return watchURLPrefix + v.ID
	}
	if v.WebpageURL != "" {
		return v.WebpageURL
	}
	return strings.TrimSpace(input)
}
