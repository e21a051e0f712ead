// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Fetcher  FetcherConfig  `toml:"fetcher"`
	Store    StoreConfig    `toml:"store"`
	Archive  ArchiveConfig  `toml:"archive"`
	Playlist PlaylistConfig `toml:"playlist"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// FetcherConfig configures the yt-dlp subprocess.
type FetcherConfig struct {
	YtdlpPath string        `toml:"ytdlp_path"`
	Timeout   time.Duration `toml:"timeout"`
	Retries   int           `toml:"retries"`
	ExtraArgs []string      `toml:"extra_args"`
}

// StoreConfig sets the values written to new stream rows.
type StoreConfig struct {
	StreamType string `toml:"stream_type"`
	ServiceID  int    `toml:"service_id"`
}

// ArchiveConfig selects archive members and backup behaviour.
type ArchiveConfig struct {
	Backup         bool   `toml:"backup"`
	DBMember       string `toml:"db_member"`
	SettingsMember string `toml:"settings_member"`
}

type PlaylistConfig struct {
	NameFormat string `toml:"name_format"` // Go time layout for the default playlist name
}

const (
	defaultLogLevel   = "info"
	defaultYtdlpPath  = "yt-dlp"
	defaultTimeout    = 2 * time.Minute
	defaultRetries    = 2
	defaultStreamType = "VIDEO_STREAM"
	defaultNameFormat = "02.01.2006"
)

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{Fetcher: FetcherConfig{Retries: defaultRetries}}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Fetcher.YtdlpPath == "" {
		c.Fetcher.YtdlpPath = defaultYtdlpPath
	}
	if c.Fetcher.Timeout == 0 {
		c.Fetcher.Timeout = defaultTimeout
	}
	if c.Store.StreamType == "" {
		c.Store.StreamType = defaultStreamType
	}
	if c.Playlist.NameFormat == "" {
		c.Playlist.NameFormat = defaultNameFormat
	}
}

// Load reads, parses, and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file and applies
// defaults. Unresolved environment variables are still an error.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	// Decoding over the defaults keeps them for absent keys.
	cfg := Default()
	if _, err := toml.Decode(content, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOrDefault loads the file at path, or the discovered one when path is
// empty. With no explicit path and no file found it returns Default.
func LoadOrDefault(path string) (*Config, string, error) {
	if path == "" {
		found, err := Discover()
		if errors.Is(err, ErrNotFound) {
			return Default(), "", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = found
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// substituteEnvVars replaces ${VAR} with environment variable values. Unset
// variables without a default are left unchanged and reported. Comment
// lines are not substituted.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	seen := make(map[string]bool)

	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
			parts := envVarPattern.FindStringSubmatch(match)
			name, hasDefault, def := parts[1], parts[2] != "", parts[3]

			value, ok := os.LookupEnv(name)
			if ok && (value != "" || !hasDefault) {
				return value
			}
			if hasDefault {
				return def
			}
			if !seen[name] {
				seen[name] = true
				missing = append(missing, name)
			}
			return match
		})
	}
	return strings.Join(lines, ""), missing
}
