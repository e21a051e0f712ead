package importer

import (
	"fmt"

	"github.com/vmunix/npimport/internal/playlist"
)

// Status is the outcome of one track.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Kind classifies a track outcome.
type Kind string

const (
	KindAdded       Kind = "added"
	KindInvalid     Kind = "invalid"
	KindUnavailable Kind = "unavailable"
	KindNotFound    Kind = "not_found"
	KindNetwork     Kind = "network"
	KindDuplicate   Kind = "duplicate"
	KindFailed      Kind = "failed"
)

// Result is the outcome of importing one URL.
type Result struct {
	URL       string `json:"url"`                  // as listed in the input
	StreamURL string `json:"stream_url,omitempty"` // as stored, set on success
	Title     string `json:"title,omitempty"`
	Status    Status `json:"status"`
	Kind      Kind   `json:"kind"`
	Message   string `json:"message"`
}

// OK reports whether the track was added.
func (r Result) OK() bool { return r.Status == StatusOK }

func addedResult(url string, info *playlist.StreamInfo) Result {
	return Result{
		URL:       url,
		StreamURL: info.URL,
		Title:     info.Title,
		Status:    StatusOK,
		Kind:      KindAdded,
		Message:   fmt.Sprintf("Track added: [%s](%s)", info.Title, info.URL),
	}
}

func errorResult(url string, kind Kind, msg string) Result {
	return Result{URL: url, Status: StatusError, Kind: kind, Message: msg}
}

// Summary counts the outcomes of a run.
type Summary struct {
	Total  int          `json:"total"`
	Added  int          `json:"added"`
	Failed int          `json:"failed"`
	ByKind map[Kind]int `json:"by_kind"`
}

// Summarize counts results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results), ByKind: make(map[Kind]int)}
	for _, r := range results {
		if r.OK() {
			s.Added++
		} else {
			s.Failed++
		}
		s.ByKind[r.Kind]++
	}
	return s
}

// CheckAdded returns ErrNothingAdded if no result succeeded.
func CheckAdded(results []Result) error {
	if Summarize(results).Added == 0 {
		return ErrNothingAdded
	}
	return nil
}
