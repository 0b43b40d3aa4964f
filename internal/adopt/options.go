package adopt

import "fmt"

// AdoptionMode selects how the standards repository is referenced.
type AdoptionMode string

const (
	// AdoptLatest references a live shared standards path.
	AdoptLatest AdoptionMode = "latest"
	// AdoptPinned references a project-local immutable snapshot.
	AdoptPinned AdoptionMode = "pinned"
)

// ParseAdoptionMode validates an --adoption-mode value.
func ParseAdoptionMode(s string) (AdoptionMode, error) {
	switch AdoptionMode(s) {
	case AdoptLatest, AdoptPinned:
		return AdoptionMode(s), nil
	}
	return "", fmt.Errorf("invalid adoption mode %q (want latest or pinned)", s)
}

// ExistingMode is the policy for an already-present AGENTS.md.
type ExistingMode string

const (
	ExistingFail      ExistingMode = "fail"
	ExistingOverwrite ExistingMode = "overwrite"
	ExistingMerge     ExistingMode = "merge"
)

// ParseExistingMode validates an --existing-mode value.
func ParseExistingMode(s string) (ExistingMode, error) {
	switch ExistingMode(s) {
	case ExistingFail, ExistingOverwrite, ExistingMerge:
		return ExistingMode(s), nil
	}
	return "", fmt.Errorf("invalid existing mode %q (want fail, overwrite or merge)", s)
}

// ClaudeMode is the policy for maintaining CLAUDE.md next to AGENTS.md.
type ClaudeMode string

const (
	ClaudeAuto    ClaudeMode = "auto"
	ClaudeSymlink ClaudeMode = "symlink"
	ClaudeCopy    ClaudeMode = "copy"
	ClaudeSkip    ClaudeMode = "skip"
)

// ParseClaudeMode validates a --claude-mode value.
func ParseClaudeMode(s string) (ClaudeMode, error) {
	switch ClaudeMode(s) {
	case ClaudeAuto, ClaudeSymlink, ClaudeCopy, ClaudeSkip:
		return ClaudeMode(s), nil
	}
	return "", fmt.Errorf("invalid claude mode %q (want auto, symlink, copy or skip)", s)
}

// Options is the full configuration for an adoption run, built once at
// process start from flags and the optional config file, then passed
// down. Internal code never reads flags or environment directly.
type Options struct {
	ProjectDir    string
	StandardsPath string
	TemplatePath  string // empty selects the embedded template
	ConfigFile    string

	ProjectName string
	AgentRole   string
	Description string
	Priorities  [3]string

	AdoptionMode AdoptionMode
	PinnedRef    string
	PinnedDir    string // snapshot root, defaults to <project>/.agentic-best-practices/pinned

	ExistingMode ExistingMode
	ClaudeMode   ClaudeMode
	Force        bool
}

// DefaultOptions returns Options with the documented defaults.
func DefaultOptions() Options {
	return Options{
		AdoptionMode: AdoptLatest,
		ExistingMode: ExistingFail,
		ClaudeMode:   ClaudeAuto,
	}
}
