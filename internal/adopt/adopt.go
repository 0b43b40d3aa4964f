// Package adopt orchestrates bringing a project under the shared
// engineering standards: stack detection, template rendering, the
// existing-file policy, CLAUDE.md maintenance and pinned snapshots.
package adopt

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/abp-cli/abp/internal/fsutil"
	"github.com/abp-cli/abp/internal/managed"
	"github.com/abp-cli/abp/internal/pin"
	"github.com/abp-cli/abp/internal/render"
	"github.com/abp-cli/abp/internal/stack"
)

const (
	// AgentsFile is the instruction file this tooling creates and maintains.
	AgentsFile = "AGENTS.md"
	// ClaudeFile is the Claude-specific sibling of AgentsFile.
	ClaudeFile = "CLAUDE.md"
)

// Report describes what an adoption run did.
type Report struct {
	Profile      stack.Profile
	StandardsRef string // the path embedded in the managed block
	Pin          *pin.Result

	AgentsPath string
	Created    bool   // target did not exist before
	Merged     bool   // managed-block merge was used
	BackupPath string // non-empty when an overwrite backed up the old file

	ClaudePath string
	ClaudeHow  string // "symlink", "copy" or "skipped"
}

// Run performs a full adoption into opts.ProjectDir.
func Run(opts Options) (*Report, error) {
	if !fsutil.IsDir(opts.ProjectDir) {
		return nil, fmt.Errorf("project directory does not exist: %s", opts.ProjectDir)
	}

	var cfg *Config
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = ParseConfigFile(opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	standardsRef, pinRes, standardsRoot, err := resolveStandards(opts)
	if err != nil {
		return nil, err
	}

	profile := stack.Detect(opts.ProjectDir)
	slog.Debug("stack detected", "stack", profile.Stack, "manifest", profile.Manifest)

	manifest, err := LoadManifest(standardsRoot)
	if err != nil {
		return nil, err
	}

	tmpl := render.Default()
	if opts.TemplatePath != "" {
		if tmpl, err = render.Load(opts.TemplatePath); err != nil {
			return nil, err
		}
	}

	vals := buildValues(opts, cfg, profile, manifest, standardsRef)
	out, err := render.Render(tmpl, vals)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Profile:      profile,
		StandardsRef: standardsRef,
		Pin:          pinRes,
		AgentsPath:   filepath.Join(opts.ProjectDir, AgentsFile),
	}

	if err := writeAgents(opts, rep, out); err != nil {
		return nil, err
	}

	claudePath, how, err := writeClaude(opts.ProjectDir, opts.ClaudeMode)
	if err != nil {
		return nil, err
	}
	rep.ClaudePath = claudePath
	rep.ClaudeHow = how

	return rep, nil
}

// MergeStandards refreshes only the managed standards-reference block
// of an existing AGENTS.md, leaving all surrounding content untouched.
// A missing AGENTS.md is treated as empty, yielding a block-only file.
func MergeStandards(opts Options) (*Report, error) {
	if !fsutil.IsDir(opts.ProjectDir) {
		return nil, fmt.Errorf("project directory does not exist: %s", opts.ProjectDir)
	}

	var cfg *Config
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = ParseConfigFile(opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	standardsRef, pinRes, standardsRoot, err := resolveStandards(opts)
	if err != nil {
		return nil, err
	}
	manifest, err := LoadManifest(standardsRoot)
	if err != nil {
		return nil, err
	}

	profile := stack.Detect(opts.ProjectDir)
	vals := buildValues(opts, cfg, profile, manifest, standardsRef)
	rendered, err := render.Render(render.Default(), vals)
	if err != nil {
		return nil, err
	}
	block, err := ManagedBlock(rendered)
	if err != nil {
		return nil, err
	}

	target := filepath.Join(opts.ProjectDir, AgentsFile)
	existing := ""
	if data, err := os.ReadFile(target); err == nil {
		existing = string(data)
	}

	merged := managed.Merge(existing, block)
	if n := managed.Count(merged); n != 1 {
		return nil, fmt.Errorf("merge produced %d managed blocks, want exactly 1", n)
	}
	if merged != existing {
		if err := fsutil.WriteFileAtomic(target, []byte(merged), 0o644); err != nil {
			return nil, err
		}
	}

	return &Report{
		Profile:      profile,
		StandardsRef: standardsRef,
		Pin:          pinRes,
		AgentsPath:   target,
		Created:      existing == "",
		Merged:       true,
	}, nil
}

// ManagedBlock extracts the marker-delimited block from a rendered
// file, markers included.
func ManagedBlock(rendered string) (string, error) {
	inner, ok := managed.Block(rendered)
	if !ok {
		return "", fmt.Errorf("template output contains no managed block markers")
	}
	return managed.BeginMarker + "\n" + inner + managed.EndMarker + "\n", nil
}

// resolveStandards returns the standards path to embed in the managed
// block, the pin result (pinned mode only) and the directory to read
// the standards manifest from.
func resolveStandards(opts Options) (ref string, res *pin.Result, root string, err error) {
	if opts.StandardsPath == "" {
		return "", nil, "", fmt.Errorf("standards path is required")
	}

	switch opts.AdoptionMode {
	case AdoptPinned:
		if opts.PinnedRef == "" {
			return "", nil, "", fmt.Errorf("pinned adoption requires a ref")
		}
		pinnedRoot := opts.PinnedDir
		if pinnedRoot == "" {
			pinnedRoot = filepath.Join(opts.ProjectDir, filepath.FromSlash(pin.DefaultRoot))
		}
		res, err = pin.Snapshot(opts.StandardsPath, opts.PinnedRef, pinnedRoot)
		if err != nil {
			return "", nil, "", err
		}
		rel, relErr := filepath.Rel(opts.ProjectDir, res.Dir)
		if relErr != nil {
			rel = res.Dir
		}
		return filepath.ToSlash(rel), res, res.Dir, nil

	default: // latest
		root = opts.StandardsPath
		if !filepath.IsAbs(root) {
			root = filepath.Join(opts.ProjectDir, root)
		}
		if !fsutil.Exists(filepath.Join(root, "README.md")) {
			return "", nil, "", fmt.Errorf("standards path does not contain a README.md: %s", opts.StandardsPath)
		}
		return filepath.ToSlash(opts.StandardsPath), nil, root, nil
	}
}

func buildValues(opts Options, cfg *Config, profile stack.Profile, manifest *Manifest, standardsRef string) *render.Values {
	vals := render.NewValues()

	pick := func(token string, choices ...string) {
		for _, c := range choices {
			if c != "" {
				vals.Set(token, c)
				return
			}
		}
	}

	pick(render.TokenProjectName,
		opts.ProjectName, cfg.Get(KeyProjectName), profile.ProjectName, filepath.Base(absOr(opts.ProjectDir)))
	pick(render.TokenProjectDescription,
		opts.Description, cfg.Get(KeyProjectDescription), manifestDescription(manifest))
	pick(render.TokenAgentRole, opts.AgentRole, cfg.Get(KeyAgentRole))
	pick(render.TokenPriorityOne, opts.Priorities[0], cfg.Get(KeyPriorityOne))
	pick(render.TokenPriorityTwo, opts.Priorities[1], cfg.Get(KeyPriorityTwo))
	pick(render.TokenPriorityThree, opts.Priorities[2], cfg.Get(KeyPriorityThree))

	vals.Set(render.TokenLanguage, profile.Language)
	vals.Set(render.TokenRuntime, profile.Runtime)
	vals.Set(render.TokenCriticalPaths, strings.Join(profile.CriticalPaths, ", "))
	vals.Set(render.TokenStandardsPath, standardsRef)
	pick(render.TokenDeviationPolicy, cfg.Get(KeyDeviationPolicy))

	topics := cfg.Topics()
	if len(topics) == 0 && manifest != nil {
		topics = manifest.RenderTopics()
	}
	vals.Set(render.TokenStandardsTopics, render.Topics(standardsRef, topics))

	cmds := map[string]string{
		render.TokenDevCmd:       profile.Commands.Dev,
		render.TokenTestCmd:      profile.Commands.Test,
		render.TokenLintCmd:      profile.Commands.Lint,
		render.TokenBuildCmd:     profile.Commands.Build,
		render.TokenTypecheckCmd: profile.Commands.Typecheck,
	}
	for key, token := range commandKeys {
		pick(token, cfg.Get(key), cmds[token])
	}

	return vals
}

func manifestDescription(m *Manifest) string {
	if m == nil {
		return ""
	}
	return m.Description
}

func absOr(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

func writeAgents(opts Options, rep *Report, rendered string) error {
	target := rep.AgentsPath

	existing, readErr := os.ReadFile(target)
	if readErr != nil {
		if !os.IsNotExist(readErr) {
			return fmt.Errorf("read %s: %w", AgentsFile, readErr)
		}
		rep.Created = true
		return fsutil.WriteFileAtomic(target, []byte(rendered), 0o644)
	}

	mode := opts.ExistingMode
	if opts.Force && mode == ExistingFail {
		mode = ExistingOverwrite
	}

	switch mode {
	case ExistingOverwrite:
		backup, err := fsutil.Backup(target)
		if err != nil {
			return err
		}
		rep.BackupPath = backup
		return fsutil.WriteFileAtomic(target, []byte(rendered), 0o644)

	case ExistingMerge:
		block, err := ManagedBlock(rendered)
		if err != nil {
			return err
		}
		merged := managed.Merge(string(existing), block)
		rep.Merged = true
		if merged == string(existing) {
			return nil
		}
		return fsutil.WriteFileAtomic(target, []byte(merged), 0o644)

	default:
		return fmt.Errorf("%s already exists in %s (use --existing-mode overwrite or merge, or --force)",
			AgentsFile, opts.ProjectDir)
	}
}

// writeClaude maintains CLAUDE.md next to AGENTS.md according to mode.
// Any pre-existing CLAUDE.md is removed first so a stale symlink is
// never written through.
func writeClaude(projectDir string, mode ClaudeMode) (path, how string, err error) {
	if mode == ClaudeSkip || mode == "" {
		return "", "skipped", nil
	}

	target := filepath.Join(projectDir, ClaudeFile)
	source := filepath.Join(projectDir, AgentsFile)

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return "", "", fmt.Errorf("replace %s: %w", ClaudeFile, err)
	}

	switch mode {
	case ClaudeSymlink:
		if err := os.Symlink(AgentsFile, target); err != nil {
			return "", "", fmt.Errorf("symlink %s: %w", ClaudeFile, err)
		}
		return target, "symlink", nil

	case ClaudeCopy:
		if err := fsutil.CopyFile(source, target); err != nil {
			return "", "", fmt.Errorf("copy %s: %w", ClaudeFile, err)
		}
		return target, "copy", nil

	default: // auto: prefer a symlink, fall back to a copy
		if err := os.Symlink(AgentsFile, target); err == nil {
			return target, "symlink", nil
		}
		if err := fsutil.CopyFile(source, target); err != nil {
			return "", "", fmt.Errorf("copy %s: %w", ClaudeFile, err)
		}
		return target, "copy", nil
	}
}
