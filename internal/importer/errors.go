package importer

import "errors"

var (
	// ErrCreatePlaylist indicates the target playlist could not be found or
	// created. No track can be attached, so the run is aborted.
	ErrCreatePlaylist = errors.New("failed to get or create playlist")

	// ErrNothingAdded indicates a run finished without adding any track.
	ErrNothingAdded = errors.New("nothing to add")

	// ErrInvalidURL indicates a URL was rejected by the validator.
	ErrInvalidURL = errors.New("invalid track url")
)
