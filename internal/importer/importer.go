// Package importer adds tracks listed by URL to a NewPipe playlist.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmunix/npimport/internal/fetcher"
	"github.com/vmunix/npimport/internal/playlist"
)

// Driver fetches and stores tracks one URL at a time.
// It holds no state between runs and is not safe for concurrent use.
type Driver struct {
	fetcher    Fetcher
	store      Store
	validator  Validator
	streamOpts []playlist.StreamOption
	log        *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithValidator sets the URL validator. The default accepts every URL.
func WithValidator(v Validator) Option {
	return func(d *Driver) {
		if v != nil {
			d.validator = v
		}
	}
}

// WithStreamType sets the stream_type of added streams.
func WithStreamType(t string) Option {
	return func(d *Driver) { d.streamOpts = append(d.streamOpts, playlist.WithStreamType(t)) }
}

// WithServiceID sets the service_id of added streams.
func WithServiceID(id int) Option {
	return func(d *Driver) { d.streamOpts = append(d.streamOpts, playlist.WithServiceID(id)) }
}

// New creates a driver.
func New(f Fetcher, s Store, log *slog.Logger, opts ...Option) *Driver {
	if log == nil {
		log = slog.Default()
	}
	d := &Driver{
		fetcher:   f,
		store:     s,
		validator: NopValidator{},
		log:       log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run imports urls into the playlist named playlistName and returns one
// result per URL, in input order. Per-track failures are recorded in the
// results and never stop the run. A playlist that cannot be created aborts
// the run with ErrCreatePlaylist, as does context cancellation; the results
// collected so far are returned with the error.
func (d *Driver) Run(ctx context.Context, urls []string, playlistName string) ([]Result, error) {
	d.log.Info("import started", "playlist", playlistName, "urls", len(urls))

	results := make([]Result, 0, len(urls))
	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		r, err := d.importURL(ctx, url, playlistName)
		if err != nil {
			return results, err
		}
		results = append(results, r)

		if r.OK() {
			d.log.Debug("track added", "url", r.StreamURL, "title", r.Title)
		} else {
			d.log.Debug("track failed", "url", url, "kind", r.Kind, "message", r.Message)
		}
	}

	s := Summarize(results)
	d.log.Info("import complete", "playlist", playlistName, "added", s.Added, "failed", s.Failed)
	return results, nil
}

// importURL processes one URL. The error return is reserved for failures
// that abort the run.
func (d *Driver) importURL(ctx context.Context, url, playlistName string) (Result, error) {
	if err := d.validator.Validate(url); err != nil {
		return errorResult(url, KindInvalid, fmt.Sprintf("Error. Bad track url: [%s]. Cause: %v", url, err)), nil
	}

	info, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return fetchErrorResult(url, err), nil
	}

	playlistID, err := d.store.GetOrCreatePlaylist(playlistName)
	if err != nil {
		return Result{}, fmt.Errorf("%w %q: %w", ErrCreatePlaylist, playlistName, err)
	}

	if _, err := d.store.AddStream(info, playlistID, d.streamOpts...); err != nil {
		if errors.Is(err, playlist.ErrStreamExists) {
			return errorResult(url, KindDuplicate, fmt.Sprintf("Error. Track with url [%s] already exists", url)), nil
		}
		return errorResult(url, KindFailed, fmt.Sprintf("Error. Failed to add track with [%s]. Cause: %v", url, err)), nil
	}

	return addedResult(url, info), nil
}

func fetchErrorResult(url string, err error) Result {
	switch {
	case errors.Is(err, fetcher.ErrUnavailable):
		return errorResult(url, KindUnavailable, fmt.Sprintf("Error. Track with url [%s] unavailable (video blocked)", url))
	case errors.Is(err, fetcher.ErrNotFound):
		return errorResult(url, KindNotFound, fmt.Sprintf("Error. Track with url [%s] not found", url))
	case errors.Is(err, fetcher.ErrNetwork):
		return errorResult(url, KindNetwork, fmt.Sprintf("Error. Network failure fetching [%s]. Cause: %v", url, err))
	default:
		return errorResult(url, KindFailed, fmt.Sprintf("Error. Failed to add track with [%s]. Cause: %v", url, err))
	}
}
