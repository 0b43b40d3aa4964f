package pilot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abp-cli/abp/internal/adopt"
)

func preparedProject(t *testing.T) string {
	t.Helper()

	projectDir := t.TempDir()
	standards := t.TempDir()
	if err := os.WriteFile(filepath.Join(standards, "README.md"), []byte("# Standards\n"), 0644); err != nil {
		t.Fatal(err)
	}

	opts := adopt.DefaultOptions()
	opts.ProjectDir = projectDir
	opts.StandardsPath = standards
	opts.ClaudeMode = adopt.ClaudeCopy
	if _, err := adopt.Run(opts); err != nil {
		t.Fatalf("adopt.Run() error = %v", err)
	}
	if _, err := Prepare(projectDir, standards, false); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	return projectDir
}

func TestPrepare_CreatesArtifacts(t *testing.T) {
	projectDir := t.TempDir()

	written, err := Prepare(projectDir, "../standards", false)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(written) != 3 {
		t.Errorf("written = %d files, want 3: %v", len(written), written)
	}

	pilotDir := filepath.Join(projectDir, filepath.FromSlash(Dir))
	for _, name := range []string{ManifestFile, "feedback-log.md", "checklist.md"} {
		if _, err := os.Stat(filepath.Join(pilotDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	m, err := LoadManifest(projectDir)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if m.StandardsPath != "../standards" {
		t.Errorf("StandardsPath = %q", m.StandardsPath)
	}
	if m.DurationDays != DefaultDurationDays {
		t.Errorf("DurationDays = %d, want %d", m.DurationDays, DefaultDurationDays)
	}
}

func TestPrepare_IdempotentWithoutForce(t *testing.T) {
	projectDir := t.TempDir()

	if _, err := Prepare(projectDir, "../standards", false); err != nil {
		t.Fatal(err)
	}

	// Edit an artifact; a re-run must not clobber it.
	logPath := filepath.Join(projectDir, filepath.FromSlash(Dir), "feedback-log.md")
	if err := os.WriteFile(logPath, []byte("# My notes\n"), 0644); err != nil {
		t.Fatal(err)
	}

	written, err := Prepare(projectDir, "../standards", false)
	if err != nil {
		t.Fatalf("re-Prepare() error = %v", err)
	}
	if len(written) != 0 {
		t.Errorf("re-run wrote %d files, want 0: %v", len(written), written)
	}

	data, _ := os.ReadFile(logPath)
	if string(data) != "# My notes\n" {
		t.Error("re-run clobbered an edited artifact")
	}
}

func TestPrepare_ForceRegenerates(t *testing.T) {
	projectDir := t.TempDir()

	if _, err := Prepare(projectDir, "../standards", false); err != nil {
		t.Fatal(err)
	}
	written, err := Prepare(projectDir, "../standards", true)
	if err != nil {
		t.Fatalf("Prepare(force) error = %v", err)
	}
	if len(written) != 3 {
		t.Errorf("force re-run wrote %d files, want 3", len(written))
	}
}

func TestCheck_ReadyProject(t *testing.T) {
	projectDir := preparedProject(t)

	r := Check(projectDir)
	if !r.Ready() {
		t.Errorf("Ready() = false; gates: %+v", r.Gates)
	}
}

func TestCheck_NotAdopted(t *testing.T) {
	projectDir := t.TempDir()
	if _, err := Prepare(projectDir, "../standards", false); err != nil {
		t.Fatal(err)
	}

	r := Check(projectDir)
	if r.Ready() {
		t.Error("Ready() = true for un-adopted project")
	}

	failed := map[string]bool{}
	for _, g := range r.Gates {
		if !g.Ok {
			failed[g.Name] = true
		}
	}
	if !failed["agents-file"] || !failed["validation"] {
		t.Errorf("expected agents-file and validation gates to fail: %+v", r.Gates)
	}
}

func TestCheck_MissingPilotArtifacts(t *testing.T) {
	projectDir := preparedProject(t)
	if err := os.Remove(filepath.Join(projectDir, filepath.FromSlash(Dir), "checklist.md")); err != nil {
		t.Fatal(err)
	}

	r := Check(projectDir)
	if r.Ready() {
		t.Error("Ready() = true with a missing pilot artifact")
	}
}
