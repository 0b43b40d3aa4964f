package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abp-cli/abp/internal/adopt"
	"github.com/abp-cli/abp/internal/ui"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Refresh the managed standards-reference block",
	Long: `Re-render the managed standards-reference block and merge it into an
existing AGENTS.md, preserving all surrounding content.

Safe to re-run: merging identical inputs twice is a byte-for-byte no-op,
and old-format files with an unmarked "Standards Reference" section are
migrated to the marked form.

Examples:
  abp merge --standards-path ../standards
  abp merge --standards-path ../standards --config-file abp.conf`,
	Run: runMerge,
}

var (
	mergeProjectDir    string
	mergeStandardsPath string
	mergeConfigFile    string
	mergeAdoptionMode  string
	mergePinnedRef     string
	mergePinnedDir     string
)

func init() {
	f := mergeCmd.Flags()
	f.StringVar(&mergeProjectDir, "project-dir", ".", "Target project directory")
	f.StringVar(&mergeStandardsPath, "standards-path", "", "Path to the standards repository")
	f.StringVar(&mergeConfigFile, "config-file", "", "KEY=VALUE adoption config file")
	f.StringVar(&mergeAdoptionMode, "adoption-mode", "latest", "How to reference the standards: latest or pinned")
	f.StringVar(&mergePinnedRef, "pinned-ref", "", "Git ref to pin (pinned mode)")
	f.StringVar(&mergePinnedDir, "pinned-dir", "", "Snapshot root (default: <project>/.agentic-best-practices/pinned)")

	mergeCmd.MarkFlagRequired("standards-path")
}

func runMerge(cmd *cobra.Command, args []string) {
	opts := adopt.DefaultOptions()
	opts.ProjectDir = mergeProjectDir
	opts.StandardsPath = mergeStandardsPath
	opts.ConfigFile = mergeConfigFile
	opts.PinnedRef = mergePinnedRef
	opts.PinnedDir = mergePinnedDir

	var err error
	if opts.AdoptionMode, err = adopt.ParseAdoptionMode(mergeAdoptionMode); err != nil {
		exitWithError(err.Error())
	}

	fmt.Println()
	fmt.Println(ui.SectionHeader("Merging Standards Reference"))
	fmt.Println()

	rep, err := adopt.MergeStandards(opts)
	if err != nil {
		exitWithError(err.Error())
	}

	if rep.Pin != nil {
		printPinResult(rep.Pin)
	}
	fmt.Println(ui.Info.Render("  Standards path: " + rep.StandardsRef))
	fmt.Println(ui.SuccessLine("Merged standards reference into " + rep.AgentsPath))
	fmt.Println()
}
