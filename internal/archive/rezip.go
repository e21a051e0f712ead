package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// backupLayout formats the timestamp of backup archive names.
const backupLayout = "02.01.2006 15.04.05"

// BackupName returns the name the original archive is moved to when a
// backup is requested: backup_<DD.MM.YYYY HH.MM.SS>__<name>, in the same
// directory.
func BackupName(archivePath string, now time.Time) string {
	dir, name := filepath.Split(archivePath)
	return filepath.Join(dir, "backup_"+now.Format(backupLayout)+"__"+name)
}

// Rezip writes the given files into a zip archive at archivePath under their
// base names, deflate compressed. With backup the existing archive is first
// renamed to BackupName.
func Rezip(archivePath string, backup bool, paths ...string) error {
	members := make([]Member, len(paths))
	for i, p := range paths {
		members[i] = Member{Name: filepath.Base(p), Path: p, Method: zip.Deflate}
	}
	return writeArchive(archivePath, backup, members)
}

// writeArchive builds the new archive next to the old one and renames it
// into place so a failed write leaves the original untouched.
func writeArchive(archivePath string, backup bool, members []Member) error {
	tmp, err := os.CreateTemp(filepath.Dir(archivePath), ".npimport-*.zip")
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	zw := zip.NewWriter(tmp)
	for _, m := range members {
		if err := addMember(zw, m); err != nil {
			_ = zw.Close()
			_ = tmp.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("finish archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	if backup {
		if _, err := os.Stat(archivePath); err == nil {
			if err := os.Rename(archivePath, BackupName(archivePath, time.Now())); err != nil {
				return fmt.Errorf("backup archive: %w", err)
			}
		}
	}
	if err := os.Rename(tmpPath, archivePath); err != nil {
		return fmt.Errorf("replace archive: %w", err)
	}
	committed = true
	return nil
}

func addMember(zw *zip.Writer, m Member) error {
	f, err := os.Open(m.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", m.Path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", m.Path, err)
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("header %s: %w", m.Path, err)
	}
	hdr.Name = strings.ReplaceAll(m.Name, "\\", "/")
	hdr.Method = m.Method
	if hdr.Method != zip.Store && hdr.Method != zip.Deflate {
		hdr.Method = zip.Deflate
	}

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("add %s: %w", hdr.Name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("write %s: %w", hdr.Name, err)
	}
	return nil
}

// Cleanup removes the given paths. Missing files are ignored.
func Cleanup(paths ...string) error {
	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
