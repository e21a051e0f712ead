package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadURLs reads one URL per line. Input is UTF-8; a byte order mark
// (UTF-8 or UTF-16) is honoured and stripped. Surrounding whitespace is
// trimmed, and blank lines and lines starting with '#' are skipped.
func ReadURLs(r io.Reader) ([]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	// ReadString has no line length limit, unlike bufio.Scanner.
	br := bufio.NewReader(decoded)
	var urls []string
	for {
		line, err := br.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, "#") {
			urls = append(urls, line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read urls: %w", err)
		}
	}
	return urls, nil
}

// ReadURLFile reads the URL list at path.
func ReadURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadURLs(f)
}

// HTTPValidator accepts absolute http and https URLs with a host.
type HTTPValidator struct{}

// Validate returns ErrInvalidURL for anything else.
func (HTTPValidator) Validate(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}
