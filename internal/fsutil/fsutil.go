// Package fsutil provides the file-write discipline used across abp:
// render to a temp file in the destination directory, then rename over
// the target. Backups are timestamped copies taken before an overwrite.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// BackupTimeFormat is the timestamp suffix used for backup files.
const BackupTimeFormat = "20060102-150405"

// WriteFileAtomic writes data to path via a temp file and rename.
// The destination is never observed in a partially written state.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// Backup copies path to a timestamped sibling (<path>.bak.<timestamp>)
// and returns the backup path. The source file must exist.
func Backup(path string) (string, error) {
	backupPath := fmt.Sprintf("%s.bak.%s", path, time.Now().Format(BackupTimeFormat))
	if err := CopyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("back up %s: %w", filepath.Base(path), err)
	}
	return backupPath, nil
}

// CopyFile copies src to dst, preserving the source file mode.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
