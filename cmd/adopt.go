package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abp-cli/abp/internal/adopt"
	"github.com/abp-cli/abp/internal/ui"
)

var adoptCmd = &cobra.Command{
	Use:   "adopt",
	Short: "Adopt the shared standards into a project",
	Long: `Render AGENTS.md for a project from the shared standards repository.

Detects the project stack (node, python, go, rust, jvm or generic) to
fill in default commands, renders the instruction file from a template,
and maintains CLAUDE.md next to it.

Examples:
  abp adopt --standards-path ../standards
  abp adopt --standards-path ../standards --existing-mode merge
  abp adopt --standards-path ../standards --adoption-mode pinned --pinned-ref v1.2.0`,
	Run: runAdopt,
}

var (
	adoptProjectDir    string
	adoptStandardsPath string
	adoptTemplatePath  string
	adoptConfigFile    string
	adoptProjectName   string
	adoptAgentRole     string
	adoptDescription   string
	adoptPriorityOne   string
	adoptPriorityTwo   string
	adoptPriorityThree string
	adoptAdoptionMode  string
	adoptPinnedRef     string
	adoptPinnedDir     string
	adoptExistingMode  string
	adoptClaudeMode    string
	adoptForce         bool
)

func init() {
	f := adoptCmd.Flags()
	f.StringVar(&adoptProjectDir, "project-dir", ".", "Target project directory")
	f.StringVar(&adoptStandardsPath, "standards-path", "", "Path to the standards repository")
	f.StringVar(&adoptTemplatePath, "template-path", "", "Custom AGENTS.md template (default: embedded)")
	f.StringVar(&adoptConfigFile, "config-file", "", "KEY=VALUE adoption config file")
	f.StringVar(&adoptProjectName, "project-name", "", "Project name (default: detected or directory name)")
	f.StringVar(&adoptAgentRole, "agent-role", "", "Agent role statement")
	f.StringVar(&adoptDescription, "project-description", "", "Project description")
	f.StringVar(&adoptPriorityOne, "priority-one", "", "First priority")
	f.StringVar(&adoptPriorityTwo, "priority-two", "", "Second priority")
	f.StringVar(&adoptPriorityThree, "priority-three", "", "Third priority")
	f.StringVar(&adoptAdoptionMode, "adoption-mode", "latest", "How to reference the standards: latest or pinned")
	f.StringVar(&adoptPinnedRef, "pinned-ref", "", "Git ref to pin (pinned mode)")
	f.StringVar(&adoptPinnedDir, "pinned-dir", "", "Snapshot root (default: <project>/.agentic-best-practices/pinned)")
	f.StringVar(&adoptExistingMode, "existing-mode", "fail", "Policy for an existing AGENTS.md: fail, overwrite or merge")
	f.StringVar(&adoptClaudeMode, "claude-mode", "auto", "CLAUDE.md handling: auto, symlink, copy or skip")
	f.BoolVarP(&adoptForce, "force", "f", false, "Overwrite an existing AGENTS.md even in fail mode")

	adoptCmd.MarkFlagRequired("standards-path")
}

func runAdopt(cmd *cobra.Command, args []string) {
	opts, err := adoptOptions()
	if err != nil {
		exitWithError(err.Error())
	}

	fmt.Println()
	fmt.Println(ui.SectionHeader("Adopting Standards"))
	fmt.Println()

	rep, err := adopt.Run(opts)
	if err != nil {
		exitWithError(err.Error())
	}

	fmt.Println(ui.Muted.Render(fmt.Sprintf("  Stack: %s (%s)", rep.Profile.Stack, rep.Profile.Language)))
	if rep.Pin != nil {
		printPinResult(rep.Pin)
	}

	switch {
	case rep.Created:
		fmt.Println(ui.SuccessLine("Created " + rep.AgentsPath))
	case rep.Merged:
		fmt.Println(ui.SuccessLine("Merged standards reference into " + rep.AgentsPath))
	default:
		fmt.Println(ui.SuccessLine("Overwrote " + rep.AgentsPath))
		fmt.Println(ui.Muted.Render("  Backup: " + rep.BackupPath))
	}

	if rep.ClaudeHow == "skipped" {
		fmt.Println(ui.Muted.Render("  CLAUDE.md: skipped"))
	} else {
		fmt.Println(ui.Muted.Render(fmt.Sprintf("  CLAUDE.md: %s (%s)", rep.ClaudePath, rep.ClaudeHow)))
	}

	fmt.Println()
	fmt.Println(ui.InfoLine("Run 'abp validate' to check the result."))
	fmt.Println()
}

func adoptOptions() (adopt.Options, error) {
	opts := adopt.DefaultOptions()
	opts.ProjectDir = adoptProjectDir
	opts.StandardsPath = adoptStandardsPath
	opts.TemplatePath = adoptTemplatePath
	opts.ConfigFile = adoptConfigFile
	opts.ProjectName = adoptProjectName
	opts.AgentRole = adoptAgentRole
	opts.Description = adoptDescription
	opts.Priorities = [3]string{adoptPriorityOne, adoptPriorityTwo, adoptPriorityThree}
	opts.PinnedRef = adoptPinnedRef
	opts.PinnedDir = adoptPinnedDir
	opts.Force = adoptForce

	var err error
	if opts.AdoptionMode, err = adopt.ParseAdoptionMode(adoptAdoptionMode); err != nil {
		return opts, err
	}
	if opts.ExistingMode, err = adopt.ParseExistingMode(adoptExistingMode); err != nil {
		return opts, err
	}
	if opts.ClaudeMode, err = adopt.ParseClaudeMode(adoptClaudeMode); err != nil {
		return opts, err
	}
	return opts, nil
}
