package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid matches every *ConfigError through errors.Is.
var ErrInvalid = errors.New("invalid config")

// ConfigError reports everything wrong with one config file at once:
// unresolved ${VAR} references and failed field checks.
type ConfigError struct {
	Path    string
	Missing []string // environment variables without a value or default
	Errors  []string // "<section>.<key>: <problem>"
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "config %s:", e.Path)
	}
	if len(e.Missing) > 0 {
		sep(&b)
		fmt.Fprintf(&b, "missing environment variables: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		sep(&b)
		b.WriteString("validation failed:")
		for _, msg := range e.Errors {
			fmt.Fprintf(&b, "\n  - %s", msg)
		}
	}
	return b.String()
}

func sep(b *strings.Builder) {
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
}

// Is reports whether target is ErrInvalid.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalid }

// HasErrors reports whether any problem was recorded.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
