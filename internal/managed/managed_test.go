package managed

import (
	"strings"
	"testing"
)

const testBlock = BeginMarker + `
## Standards Reference

Shared engineering standards live at ` + "`../standards`" + `.

- [Coding](../standards/guides/coding.md)

If you must deviate from these standards, document the deviation in the PR.
` + EndMarker + "\n"

func TestMerge_InsertsAfterIntro(t *testing.T) {
	text := "# My Project\n\nAn example project.\n\n## Setup\n\nRun make.\n"

	got := Merge(text, testBlock)

	// Block lands between the intro and the first H2.
	introIdx := strings.Index(got, "An example project.")
	blockIdx := strings.Index(got, BeginMarker)
	setupIdx := strings.Index(got, "## Setup")
	if introIdx < 0 || blockIdx < 0 || setupIdx < 0 {
		t.Fatalf("merged output missing expected content:\n%s", got)
	}
	if !(introIdx < blockIdx && blockIdx < setupIdx) {
		t.Errorf("block position wrong: intro=%d block=%d setup=%d\n%s", introIdx, blockIdx, setupIdx, got)
	}
	if Count(got) != 1 {
		t.Errorf("Count = %d, want 1", Count(got))
	}
}

func TestMerge_Idempotent(t *testing.T) {
	inputs := []string{
		"# My Project\n\nIntro.\n\n## Setup\n\nRun make.\n",
		"# Title only\n",
		"",
		"## No H1 here\n\nBody.\n",
		"Just prose, no headings at all.\n",
	}

	for _, text := range inputs {
		once := Merge(text, testBlock)
		twice := Merge(once, testBlock)
		if once != twice {
			t.Errorf("merge not idempotent for %q:\nfirst:\n%s\nsecond:\n%s", text, once, twice)
		}
		if Count(twice) != 1 {
			t.Errorf("Count = %d, want 1 for input %q", Count(twice), text)
		}
	}
}

func TestMerge_ReplacesExistingBlock(t *testing.T) {
	text := "# P\n\nIntro.\n\n## Next\n"
	oldBlock := BeginMarker + "\n## Standards Reference\n\nold content\n" + EndMarker + "\n"

	merged := Merge(text, oldBlock)
	updated := Merge(merged, testBlock)

	if strings.Contains(updated, "old content") {
		t.Errorf("old block content survived merge:\n%s", updated)
	}
	if Count(updated) != 1 {
		t.Errorf("Count = %d, want 1", Count(updated))
	}
}

func TestStrip_RemovesLegacySection(t *testing.T) {
	text := `# P

Intro.

## Standards Reference

Old unmarked standards section.
With several lines.

## Setup

Run make.
`
	got := Strip(text)

	if strings.Contains(got, "Old unmarked standards section.") {
		t.Errorf("legacy section survived Strip:\n%s", got)
	}
	if !strings.Contains(got, "## Setup") {
		t.Errorf("following section lost:\n%s", got)
	}
	if !strings.Contains(got, "Intro.") {
		t.Errorf("intro lost:\n%s", got)
	}
}

func TestStrip_LegacySectionAtEOF(t *testing.T) {
	text := "# P\n\n## Standards Reference\n\nlast section\n"
	got := Strip(text)
	if strings.Contains(got, "last section") {
		t.Errorf("legacy tail survived Strip:\n%s", got)
	}
}

func TestInsert_AppendsWhenNoHeading(t *testing.T) {
	text := "Just prose.\n"
	got := Insert(text, testBlock)

	if !strings.HasPrefix(got, "Just prose.\n") {
		t.Errorf("prose not preserved:\n%s", got)
	}
	if !strings.Contains(got, BeginMarker) {
		t.Errorf("block not appended:\n%s", got)
	}
	if !strings.HasSuffix(strings.TrimRight(got, "\n"), EndMarker) {
		t.Errorf("block not at EOF:\n%s", got)
	}
}

func TestInsert_EmptyFile(t *testing.T) {
	got := Insert("", testBlock)
	if Count(got) != 1 {
		t.Errorf("Count = %d, want 1:\n%s", Count(got), got)
	}
}

func TestBalanced(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", true},
		{"one pair", BeginMarker + "\nx\n" + EndMarker + "\n", true},
		{"unclosed", BeginMarker + "\nx\n", false},
		{"stray end", EndMarker + "\n", false},
		{"nested begin", BeginMarker + "\n" + BeginMarker + "\n" + EndMarker + "\n", false},
	}
	for _, tt := range tests {
		if got := Balanced(tt.text); got != tt.want {
			t.Errorf("%s: Balanced = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBlock_ExtractsContent(t *testing.T) {
	text := Merge("# P\n\n## S\n", testBlock)
	inner, ok := Block(text)
	if !ok {
		t.Fatal("Block() found no managed block")
	}
	if !strings.Contains(inner, "Shared engineering standards live at") {
		t.Errorf("block content = %q", inner)
	}
	if strings.Contains(inner, BeginMarker) || strings.Contains(inner, EndMarker) {
		t.Errorf("markers leaked into block content: %q", inner)
	}
}

func TestMerge_TwoStaleBlocks(t *testing.T) {
	// A corrupted file with two managed blocks converges to one.
	text := "# P\n\n" + testBlock + "\n" + testBlock + "\n## S\n"
	got := Merge(text, testBlock)
	if Count(got) != 1 {
		t.Errorf("Count = %d, want 1:\n%s", Count(got), got)
	}
}
