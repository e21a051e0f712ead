package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Discover returns the first regular file in dir, in lexical order, whose
// lower-cased name contains "newpipe" and "zip". Backups written by Rezip
// are skipped.
func Discover(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := strings.ToLower(e.Name())
		if strings.HasPrefix(name, "backup_") {
			continue
		}
		if strings.Contains(name, "newpipe") && strings.Contains(name, "zip") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrArchiveNotFound, dir)
}
