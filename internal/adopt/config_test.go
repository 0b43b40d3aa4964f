package adopt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig(t *testing.T) {
	input := `# adoption config
PROJECT_NAME=widget-factory
AGENT_ROLE="You are the maintainer of this service."
DEVIATION_POLICY='Deviations need a linked ADR.'

TEST_CMD=make test
`
	cfg, err := parseConfig(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseConfig() error = %v", err)
	}

	tests := map[string]string{
		KeyProjectName:     "widget-factory",
		KeyAgentRole:       "You are the maintainer of this service.",
		KeyDeviationPolicy: "Deviations need a linked ADR.",
		"TEST_CMD":         "make test",
	}
	for key, want := range tests {
		if got := cfg.Get(key); got != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}
	if got := cfg.Get("UNSET"); got != "" {
		t.Errorf("Get(UNSET) = %q, want empty", got)
	}
}

func TestParseConfig_ValueWithEquals(t *testing.T) {
	cfg, err := parseConfig(strings.NewReader("DEV_CMD=FOO=bar npm start\n"))
	if err != nil {
		t.Fatalf("parseConfig() error = %v", err)
	}
	if got := cfg.Get("DEV_CMD"); got != "FOO=bar npm start" {
		t.Errorf("Get(DEV_CMD) = %q", got)
	}
}

func TestParseConfig_MalformedLine(t *testing.T) {
	_, err := parseConfig(strings.NewReader("no equals sign here\n"))
	if err == nil {
		t.Fatal("parseConfig() should reject a line without =")
	}
}

func TestParseTopics(t *testing.T) {
	topics := ParseTopics("Coding|guides/coding.md; Testing|guides/testing.md;;")
	if len(topics) != 2 {
		t.Fatalf("len = %d, want 2", len(topics))
	}
	if topics[0].Title != "Coding" || topics[0].Path != "guides/coding.md" {
		t.Errorf("topics[0] = %+v", topics[0])
	}
	if topics[1].Title != "Testing" || topics[1].Path != "guides/testing.md" {
		t.Errorf("topics[1] = %+v", topics[1])
	}
}

func TestParseTopics_Empty(t *testing.T) {
	if topics := ParseTopics(""); topics != nil {
		t.Errorf("ParseTopics(\"\") = %v, want nil", topics)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := `name: engineering-standards
description: Shared engineering standards.
topics:
  - title: Coding
    path: guides/coding.md
  - title: Security
    path: guides/security.md
`
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if m.Name != "engineering-standards" {
		t.Errorf("Name = %q", m.Name)
	}
	topics := m.RenderTopics()
	if len(topics) != 2 || topics[1].Title != "Security" {
		t.Errorf("RenderTopics() = %+v", topics)
	}
}

func TestLoadManifest_Absent(t *testing.T) {
	m, err := LoadManifest(t.TempDir())
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if m != nil {
		t.Errorf("manifest = %+v, want nil", m)
	}
}

func TestParseModes(t *testing.T) {
	if _, err := ParseAdoptionMode("sometimes"); err == nil {
		t.Error("ParseAdoptionMode should reject invalid values")
	}
	if _, err := ParseExistingMode("ask"); err == nil {
		t.Error("ParseExistingMode should reject invalid values")
	}
	if _, err := ParseClaudeMode("hardlink"); err == nil {
		t.Error("ParseClaudeMode should reject invalid values")
	}
	if m, err := ParseExistingMode("merge"); err != nil || m != ExistingMerge {
		t.Errorf("ParseExistingMode(merge) = %v, %v", m, err)
	}
}
