package fetcher

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable indicates the video exists but cannot be viewed
	// (blocked, private, removed, region locked).
	ErrUnavailable = errors.New("video unavailable")

	// ErrNotFound indicates the URL does not resolve to a video.
	ErrNotFound = errors.New("video not found")

	// ErrNetwork indicates a transient transport failure.
	ErrNetwork = errors.New("network error")

	// ErrNotInstalled indicates the yt-dlp executable could not be run.
	ErrNotInstalled = errors.New("yt-dlp not installed")

	// ErrBadMetadata indicates yt-dlp output could not be used.
	ErrBadMetadata = errors.New("invalid metadata")
)

// FetchError describes a failed metadata fetch.
type FetchError struct {
	URL    string
	Err    error  // one of the sentinel errors above, or the raw failure
	Stderr string // trimmed yt-dlp diagnostics
}

func (e *FetchError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("fetch %s: %v: %s", e.URL, e.Err, e.Stderr)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Substrings of yt-dlp error output, checked in order.
var (
	unavailablePatterns = []string{
		"content from SME",
		"blocked it",
		"blocked in your country",
		"Video unavailable",
		"This video is unavailable",
		"Private video",
		"has been removed",
		"account associated with this video has been terminated",
		"Sign in to confirm your age",
	}
	notFoundPatterns = []string{
		"HTTP Error 404",
		"Unsupported URL",
		"is not a valid URL",
		"Incomplete YouTube ID",
		"does not exist",
	}
	networkPatterns = []string{
		"Unable to download webpage",
		"Unable to download API page",
		"timed out",
		"Temporary failure in name resolution",
		"Name or service not known",
		"Connection reset",
		"Connection refused",
		"HTTP Error 429",
		"HTTP Error 500",
		"HTTP Error 502",
		"HTTP Error 503",
		"HTTP Error 504",
	}
)

// classify maps yt-dlp stderr output to a sentinel error.
// Returns nil when the output matches no known class.
func classify(stderr string) error {
	switch {
	case containsAny(stderr, unavailablePatterns):
		return ErrUnavailable
	case containsAny(stderr, notFoundPatterns):
		return ErrNotFound
	case containsAny(stderr, networkPatterns):
		return ErrNetwork
	}
	return nil
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
