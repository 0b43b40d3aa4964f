// Package validate checks a rendered AGENTS.md against the structural
// rules of the adoption toolchain. Validation is read-only; findings
// are collected per check and aggregated into error and warning counts.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/abp-cli/abp/internal/adopt"
	"github.com/abp-cli/abp/internal/fsutil"
	"github.com/abp-cli/abp/internal/managed"
	"github.com/abp-cli/abp/internal/pin"
)

// Level classifies a finding.
type Level int

const (
	Warning Level = iota
	Error
)

// String returns the display name of the level.
func (l Level) String() string {
	if l == Error {
		return "error"
	}
	return "warning"
}

// Finding is one validation result.
type Finding struct {
	Check   string
	Level   Level
	Message string
}

// Report aggregates findings from a validation run.
type Report struct {
	Findings []Finding
}

func (r *Report) add(level Level, check, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Check:   check,
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}

// Errors returns the number of error-level findings.
func (r *Report) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Level == Error {
			n++
		}
	}
	return n
}

// Warnings returns the number of warning-level findings.
func (r *Report) Warnings() int {
	return len(r.Findings) - r.Errors()
}

// Failed reports whether the run fails. Strict mode promotes warnings
// to failures.
func (r *Report) Failed(strict bool) bool {
	if r.Errors() > 0 {
		return true
	}
	return strict && r.Warnings() > 0
}

// Input configures a validation run.
type Input struct {
	ProjectDir          string
	ExpectStandardsPath string
}

var (
	tokenRe   = regexp.MustCompile(`\{\{[A-Z][A-Z0-9_]*\}\}`)
	bracketRe = regexp.MustCompile(`\[[^\]\n]+\]`)
	linkRe    = regexp.MustCompile(`\]\(([^)\s]+)\)`)
	// The standards path is embedded in backticks in the managed block.
	standardsPathRe = regexp.MustCompile("standards live at `([^`]+)`")
)

var recommendedHeadings = []string{
	"## Project Overview",
	"## Commands",
	"## Priorities",
}

// Run validates the AGENTS.md inside in.ProjectDir.
func Run(in Input) *Report {
	rep := &Report{}

	agentsPath := filepath.Join(in.ProjectDir, adopt.AgentsFile)
	data, err := os.ReadFile(agentsPath)
	if err != nil {
		rep.add(Error, "agents-file", "cannot read %s: %v", adopt.AgentsFile, err)
		return rep
	}
	content := string(data)

	checkSetupBlock(rep, content)
	checkPlaceholders(rep, content)
	checkStandardsSection(rep, content)
	checkDeviationPolicy(rep, content)
	checkMarkers(rep, content)
	checkRecommendedHeadings(rep, content)
	checkStandardsPath(rep, in, content)
	checkGuideLinks(rep, in.ProjectDir, content)
	checkClaude(rep, in.ProjectDir)

	return rep
}

// checkSetupBlock flags leftover human setup instructions that belong
// to the template, not to a finished adoption.
func checkSetupBlock(rep *Report, content string) {
	if strings.Contains(content, "## Setup Instructions") || strings.Contains(content, "<!-- SETUP") {
		rep.add(Error, "setup-block", "leftover setup-instructions block; remove it after adoption")
	}
}

func checkPlaceholders(rep *Report, content string) {
	if tokens := tokenRe.FindAllString(content, -1); len(tokens) > 0 {
		rep.add(Error, "placeholders", "unresolved template tokens: %s", strings.Join(dedupe(tokens), ", "))
	}

	var brackets []string
	for _, loc := range bracketRe.FindAllStringIndex(content, -1) {
		match := content[loc[0]:loc[1]]
		// Markdown links and task-list checkboxes are not placeholders.
		if loc[1] < len(content) && content[loc[1]] == '(' {
			continue
		}
		inner := strings.TrimSpace(match[1 : len(match)-1])
		if inner == "" || inner == "x" || inner == "X" {
			continue
		}
		brackets = append(brackets, match)
	}
	if len(brackets) > 0 {
		rep.add(Error, "placeholders", "unresolved bracketed placeholders: %s", strings.Join(dedupe(brackets), ", "))
	}
}

func checkStandardsSection(rep *Report, content string) {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == managed.LegacyHeading {
			n++
		}
	}
	if n != 1 {
		rep.add(Error, "standards-section", "found %d %q sections, want exactly 1", n, managed.LegacyHeading)
	}
}

func checkDeviationPolicy(rep *Report, content string) {
	if !strings.Contains(strings.ToLower(content), "deviat") {
		rep.add(Error, "deviation-policy", "no deviation-policy sentence found")
	}
}

func checkMarkers(rep *Report, content string) {
	if !managed.Balanced(content) {
		rep.add(Error, "managed-markers", "unbalanced managed-block markers")
		return
	}
	if n := managed.Count(content); n > 1 {
		rep.add(Error, "managed-markers", "found %d managed blocks, want at most 1", n)
	}
}

func checkRecommendedHeadings(rep *Report, content string) {
	for _, h := range recommendedHeadings {
		if !strings.Contains(content, h) {
			rep.add(Warning, "recommended-headings", "missing recommended heading %q", h)
		}
	}
}

func checkStandardsPath(rep *Report, in Input, content string) {
	path := StandardsPath(content)
	if path == "" {
		// The missing section is already reported elsewhere.
		return
	}

	if in.ExpectStandardsPath != "" && path != in.ExpectStandardsPath {
		rep.add(Error, "standards-path", "standards path is %q, expected %q", path, in.ExpectStandardsPath)
	}

	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(in.ProjectDir, filepath.FromSlash(path))
	}
	if !fsutil.Exists(filepath.Join(resolved, "README.md")) {
		rep.add(Error, "standards-path", "standards path %q does not resolve to a directory with a README.md", path)
	}

	checkPinMetadata(rep, path, resolved)
}

// checkPinMetadata applies only to pinned standards paths.
func checkPinMetadata(rep *Report, path, resolved string) {
	if !strings.Contains(filepath.ToSlash(path), "/pinned/") {
		return
	}
	meta, err := pin.LoadMetadata(resolved)
	if err != nil {
		rep.add(Error, "pin-metadata", "pinned snapshot has no readable %s: %v", pin.MetadataFile, err)
		return
	}
	if !pin.IsSemverOrSHA(meta.Ref) {
		rep.add(Warning, "pin-metadata", "pinned ref %q is neither a semantic version nor a commit SHA", meta.Ref)
	}
}

func checkGuideLinks(rep *Report, projectDir, content string) {
	block, ok := managed.Block(content)
	if !ok {
		return
	}
	for _, m := range linkRe.FindAllStringSubmatch(block, -1) {
		target := m[1]
		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			continue
		}
		resolved := target
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(projectDir, filepath.FromSlash(target))
		}
		if !fsutil.Exists(resolved) {
			rep.add(Error, "guide-links", "guide link %q does not resolve to an existing file", target)
		}
	}
}

func checkClaude(rep *Report, projectDir string) {
	if !fsutil.Exists(filepath.Join(projectDir, adopt.ClaudeFile)) {
		rep.add(Warning, "claude-file", "%s is missing next to %s", adopt.ClaudeFile, adopt.AgentsFile)
	}
}

// StandardsPath extracts the embedded standards path from AGENTS.md
// content, "" when absent.
func StandardsPath(content string) string {
	m := standardsPathRe.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return m[1]
}

func dedupe(items []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}
