package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvVar names an explicit config file and bypasses the search.
const EnvVar = "NPIMPORT_CONFIG"

// ErrNotFound is returned by Discover when no config file exists.
var ErrNotFound = errors.New("config not found")

// DefaultPath returns $XDG_CONFIG_HOME/npimport/config.toml, falling back to
// ~/.config and finally to ./npimport.toml when no home is known.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return localPath
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "npimport", "config.toml")
}

const localPath = "./npimport.toml"

// SearchPaths lists the files Discover tries, in order, after EnvVar.
func SearchPaths() []string {
	return []string{localPath, DefaultPath()}
}

// Discover returns the path named by EnvVar, which must exist, or the first
// regular file among SearchPaths.
func Discover() (string, error) {
	if envPath := os.Getenv(EnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvVar, envPath, err)
		}
		return envPath, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}
