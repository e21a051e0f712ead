// Package archive unpacks and repacks NewPipe backup archives.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

const (
	dbMarker       = ".db"
	settingsMarker = ".settings"
)

// Options select archive members explicitly. Empty fields fall back to
// matching member names containing ".db" and ".settings".
type Options struct {
	DBMember       string
	SettingsMember string
}

// Member is one extracted archive entry.
type Member struct {
	Name   string // name inside the archive
	Path   string // extracted location
	Method uint16 // compression method in the source archive
}

// Workspace is an extracted archive. Close removes the extracted files.
type Workspace struct {
	ArchivePath  string
	DBPath       string
	SettingsPath string
	Members      []Member

	dirs   []string // directories created during extraction
	closed bool
}

// Unzip extracts every member of the archive into the archive's directory
// and locates the database and settings members. Existing files are never
// overwritten: if any member's target exists, ErrMemberExists is returned
// before anything is written. On error nothing extracted is left behind.
func Unzip(archivePath string, opts Options) (_ *Workspace, err error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer func() { _ = r.Close() }()

	w := &Workspace{ArchivePath: archivePath}
	defer func() {
		if err != nil {
			_ = w.Close()
		}
	}()

	root := filepath.Dir(archivePath)
	dests := make([]string, len(r.File))
	for i, f := range r.File {
		dest, err := memberPath(root, f.Name)
		if err != nil {
			return nil, err
		}
		if !f.FileInfo().IsDir() {
			if _, err := os.Lstat(dest); err == nil {
				return nil, fmt.Errorf("%w: %s", ErrMemberExists, dest)
			}
		}
		dests[i] = dest
	}

	for i, f := range r.File {
		dest := dests[i]
		if f.FileInfo().IsDir() {
			if err := w.mkdirAll(dest); err != nil {
				return nil, err
			}
			continue
		}
		if err := w.mkdirAll(filepath.Dir(dest)); err != nil {
			return nil, err
		}
		// Record before writing so a partial file is cleaned up.
		w.Members = append(w.Members, Member{Name: f.Name, Path: dest, Method: f.Method})
		if err := extractFile(f, dest); err != nil {
			return nil, err
		}
	}

	db, err := w.selectMember(opts.DBMember, dbMarker)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	settings, err := w.selectMember(opts.SettingsMember, settingsMarker)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	w.DBPath = db.Path
	w.SettingsPath = settings.Path
	return w, nil
}

// memberPath resolves a member name below root, rejecting absolute names
// and names containing "..".
func memberPath(root, name string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") || filepath.VolumeName(clean) != "" {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return filepath.Join(root, filepath.FromSlash(clean)), nil
}

func (w *Workspace) mkdirAll(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	// Remember the outermost directory we create.
	missing := dir
	for {
		parent := filepath.Dir(missing)
		if _, err := os.Stat(parent); err == nil || parent == missing {
			break
		}
		missing = parent
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	w.dirs = append(w.dirs, missing)
	return nil
}

func extractFile(f *zip.File, dest string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open member %s: %w", f.Name, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	return nil
}

// selectMember returns the member named explicitly, or the single member
// whose base name contains marker.
func (w *Workspace) selectMember(explicit, marker string) (Member, error) {
	if explicit != "" {
		for _, m := range w.Members {
			if m.Name == explicit || path.Base(m.Name) == explicit {
				return m, nil
			}
		}
		return Member{}, fmt.Errorf("%w: %s", ErrMemberNotFound, explicit)
	}

	var matches []Member
	for _, m := range w.Members {
		if strings.Contains(path.Base(m.Name), marker) {
			matches = append(matches, m)
		}
	}
	switch len(matches) {
	case 0:
		return Member{}, fmt.Errorf("%w: no name containing %q", ErrMemberNotFound, marker)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return Member{}, fmt.Errorf("%w: %s", ErrAmbiguousMember, strings.Join(names, ", "))
	}
}

// Paths returns the extracted file paths.
func (w *Workspace) Paths() []string {
	paths := make([]string, len(w.Members))
	for i, m := range w.Members {
		paths[i] = m.Path
	}
	return paths
}

// Repack writes every extracted member back into the archive under its
// original name and compression method. With backup the original archive
// is kept under BackupName.
func (w *Workspace) Repack(backup bool) error {
	if w.closed {
		return errors.New("repack: workspace closed")
	}
	return writeArchive(w.ArchivePath, backup, w.Members)
}

// Close removes the extracted files and any directories created for them.
// It is safe to call more than once.
func (w *Workspace) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := Cleanup(w.Paths()...)
	for i := len(w.dirs) - 1; i >= 0; i-- {
		if rmErr := os.RemoveAll(w.dirs[i]); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
	}
	return err
}
