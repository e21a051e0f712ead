// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
	"time"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if c.Fetcher.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("fetcher.timeout: must be positive, got %s", c.Fetcher.Timeout))
	}
	if c.Fetcher.Retries < 0 {
		errs = append(errs, fmt.Sprintf("fetcher.retries: must not be negative, got %d", c.Fetcher.Retries))
	}

	if c.Store.ServiceID < 0 {
		errs = append(errs, fmt.Sprintf("store.service_id: must not be negative, got %d", c.Store.ServiceID))
	}
	if strings.TrimSpace(c.Store.StreamType) != c.Store.StreamType {
		errs = append(errs, fmt.Sprintf("store.stream_type: must not have surrounding spaces, got %q", c.Store.StreamType))
	}

	// A layout without any time element formats to itself.
	probe := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	if c.Playlist.NameFormat != "" && probe.Format(c.Playlist.NameFormat) == c.Playlist.NameFormat {
		errs = append(errs, fmt.Sprintf("playlist.name_format: %q contains no date or time element", c.Playlist.NameFormat))
	}

	return errs
}
