// Package managed implements the managed-block merge engine for AGENTS.md.
//
// The tooling owns exactly one marker-delimited region of the file (the
// standards reference). Merge is Strip composed with Insert, both pure
// functions over the file text, so re-running a merge with identical
// inputs is a byte-for-byte no-op.
package managed

import (
	"strings"
)

const (
	// BeginMarker opens the tool-owned region of AGENTS.md.
	BeginMarker = "<!-- BEGIN MANAGED: STANDARDS_REFERENCE -->"
	// EndMarker closes the tool-owned region of AGENTS.md.
	EndMarker = "<!-- END MANAGED: STANDARDS_REFERENCE -->"

	// LegacyHeading marks an unmarked standards section from old-format
	// files. Strip removes it so migrations converge on the marked form.
	LegacyHeading = "## Standards Reference"
)

// Strip removes every marker-delimited managed block and any unmarked
// legacy "Standards Reference" section from text. Blank-line runs left
// at a removal site are collapsed to a single blank line.
func Strip(text string) string {
	lines := splitLines(text)
	var out []string

	skipManaged := false
	skipLegacy := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if skipManaged {
			if trimmed == EndMarker {
				skipManaged = false
			}
			continue
		}
		if skipLegacy {
			if isHeadingLevelAtMost(trimmed, 2) && trimmed != LegacyHeading {
				skipLegacy = false
				// fall through: this heading is kept
			} else {
				continue
			}
		}

		if trimmed == BeginMarker {
			skipManaged = true
			out = collapseTrailingBlank(out)
			continue
		}
		if trimmed == LegacyHeading {
			skipLegacy = true
			out = collapseTrailingBlank(out)
			continue
		}

		// Avoid leading blanks and double blanks where a removed
		// region used to sit.
		if trimmed == "" && (len(out) == 0 || strings.TrimSpace(out[len(out)-1]) == "") {
			continue
		}
		out = append(out, line)
	}

	return joinLines(out)
}

// Insert places block into text after the leading H1 section, before the
// next heading of level one or two. When text has no such heading the
// block is appended at end-of-file; that is the documented fallback, not
// an error.
func Insert(text, block string) string {
	blockLines := splitLines(strings.TrimRight(block, "\n"))
	lines := splitLines(text)

	idx := insertionIndex(lines)
	if idx < 0 {
		// Append at EOF with a separating blank line.
		out := trimTrailingBlank(lines)
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, blockLines...)
		return joinLines(out)
	}

	var out []string
	out = append(out, lines[:idx]...)
	out = collapseTrailingBlank(out)
	if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
		out = append(out, "")
	}
	out = append(out, blockLines...)
	out = append(out, "")
	out = append(out, lines[idx:]...)
	return joinLines(out)
}

// Merge strips any previous managed content and inserts block, yielding
// a file with exactly one managed region. Idempotent for fixed inputs.
func Merge(text, block string) string {
	return Insert(Strip(text), block)
}

// Count returns the number of balanced BEGIN/END marker pairs.
func Count(text string) int {
	n := 0
	open := false
	for _, line := range splitLines(text) {
		switch strings.TrimSpace(line) {
		case BeginMarker:
			open = true
		case EndMarker:
			if open {
				n++
				open = false
			}
		}
	}
	return n
}

// Balanced reports whether every BEGIN marker is closed by a following
// END marker and no stray END markers exist.
func Balanced(text string) bool {
	open := false
	for _, line := range splitLines(text) {
		switch strings.TrimSpace(line) {
		case BeginMarker:
			if open {
				return false
			}
			open = true
		case EndMarker:
			if !open {
				return false
			}
			open = false
		}
	}
	return !open
}

// Block returns the content between the first pair of markers, without
// the markers themselves. The second return is false when no balanced
// block exists.
func Block(text string) (string, bool) {
	lines := splitLines(text)
	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == BeginMarker {
			start = i + 1
			continue
		}
		if trimmed == EndMarker && start >= 0 {
			return joinLines(lines[start:i]), true
		}
	}
	return "", false
}

// insertionIndex finds the line index to insert the block before, or -1
// to append. The block goes after the first H1 and its intro body; in a
// file with no H1 it goes before the first heading of level <= 2.
func insertionIndex(lines []string) int {
	seenH1 := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !isHeadingLevelAtMost(trimmed, 2) {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") && !seenH1 {
			seenH1 = true
			continue
		}
		return i
	}
	return -1
}

func isHeadingLevelAtMost(trimmed string, level int) bool {
	if !strings.HasPrefix(trimmed, "#") {
		return false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	return n <= level && n < len(trimmed) && trimmed[n] == ' '
}

func collapseTrailingBlank(lines []string) []string {
	for len(lines) > 1 &&
		strings.TrimSpace(lines[len(lines)-1]) == "" &&
		strings.TrimSpace(lines[len(lines)-2]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func splitLines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
