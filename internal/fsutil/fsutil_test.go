package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "AGENTS.md")

	if err := WriteFileAtomic(path, []byte("# Test\n"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "# Test\n" {
		t.Errorf("content = %q, want %q", data, "# Test\n")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("dir entries = %d, want 1", len(entries))
	}
}

func TestWriteFileAtomic_Overwrite(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "AGENTS.md")

	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("new"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("content = %q, want %q", data, "new")
	}
}

func TestBackup(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "AGENTS.md")
	original := []byte("# Original\n\nContent before overwrite.\n")

	if err := os.WriteFile(path, original, 0644); err != nil {
		t.Fatal(err)
	}

	backupPath, err := Backup(path)
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}

	if !strings.HasPrefix(filepath.Base(backupPath), "AGENTS.md.bak.") {
		t.Errorf("backup name = %q, want AGENTS.md.bak.<timestamp>", filepath.Base(backupPath))
	}

	data, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("ReadFile(backup) error = %v", err)
	}
	if string(data) != string(original) {
		t.Errorf("backup content = %q, want %q", data, original)
	}

	// Exactly one backup file.
	matches, err := filepath.Glob(path + ".bak.*")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Errorf("backup count = %d, want 1", len(matches))
	}
}

func TestBackup_MissingSource(t *testing.T) {
	tmpDir := t.TempDir()
	if _, err := Backup(filepath.Join(tmpDir, "nope.md")); err == nil {
		t.Error("Backup() on missing file should fail")
	}
}
