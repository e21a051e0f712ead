package importer

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"

	"github.com/vmunix/npimport/internal/playlist"
)

// Fetcher resolves a URL to stream metadata.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*playlist.StreamInfo, error)
}

// Validator checks a URL before it is fetched.
type Validator interface {
	Validate(url string) error
}

// Store persists playlists and their streams. Satisfied by *playlist.Store.
type Store interface {
	GetOrCreatePlaylist(name string) (int64, error)
	AddStream(info *playlist.StreamInfo, playlistID int64, opts ...playlist.StreamOption) (*playlist.Entry, error)
}

// NopValidator accepts every URL.
type NopValidator struct{}

// Validate always returns nil.
func (NopValidator) Validate(string) error { return nil }

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(url string) error

// Validate calls f(url).
func (f ValidatorFunc) Validate(url string) error { return f(url) }
