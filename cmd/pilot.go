package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abp-cli/abp/internal/pilot"
	"github.com/abp-cli/abp/internal/ui"
)

var pilotCmd = &cobra.Command{
	Use:   "pilot",
	Short: "Scaffold and gate a standards adoption pilot",
}

var pilotPrepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Scaffold the pilot manifest and tracking artifacts",
	Long: `Create the pilot directory with its manifest, feedback log and
checklist. Existing artifacts are kept unless --force is set.

Examples:
  abp pilot prepare --standards-path ../standards
  abp pilot prepare --standards-path ../standards --force`,
	Run: runPilotPrepare,
}

var pilotCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report whether a project is ready to start the pilot",
	Long: `Evaluate the pilot readiness gates: AGENTS.md adopted and valid,
CLAUDE.md maintained, and the pilot artifacts in place. Exits non-zero
when any gate fails.`,
	Run: runPilotCheck,
}

var (
	pilotProjectDir    string
	pilotStandardsPath string
	pilotForce         bool
)

func init() {
	pilotCmd.AddCommand(pilotPrepareCmd)
	pilotCmd.AddCommand(pilotCheckCmd)

	pilotCmd.PersistentFlags().StringVar(&pilotProjectDir, "project-dir", ".", "Target project directory")

	pilotPrepareCmd.Flags().StringVar(&pilotStandardsPath, "standards-path", "", "Path to the standards repository")
	pilotPrepareCmd.Flags().BoolVarP(&pilotForce, "force", "f", false, "Regenerate artifacts that already exist")
	pilotPrepareCmd.MarkFlagRequired("standards-path")
}

func runPilotPrepare(cmd *cobra.Command, args []string) {
	fmt.Println()
	fmt.Println(ui.SectionHeader("Preparing Pilot"))
	fmt.Println()

	written, err := pilot.Prepare(pilotProjectDir, pilotStandardsPath, pilotForce)
	if err != nil {
		exitWithError(err.Error())
	}

	if len(written) == 0 {
		fmt.Println(ui.InfoLine("Pilot artifacts already in place; nothing to do."))
	} else {
		for _, path := range written {
			fmt.Println(ui.SuccessLine("Wrote " + path))
		}
	}
	fmt.Println()
}

func runPilotCheck(cmd *cobra.Command, args []string) {
	fmt.Println()
	fmt.Println(ui.SectionHeader("Pilot Readiness"))
	fmt.Println()

	r := pilot.Check(pilotProjectDir)
	for _, g := range r.Gates {
		if g.Ok {
			fmt.Println(ui.SuccessLine(g.Name))
		} else {
			fmt.Println(ui.ErrorLine(fmt.Sprintf("%s: %s", g.Name, g.Detail)))
		}
	}

	fmt.Println()
	if !r.Ready() {
		fmt.Println(ui.ErrorLine("Project is not ready for the pilot"))
		fmt.Println()
		os.Exit(1)
	}
	fmt.Println(ui.SuccessLine("Project is ready for the pilot"))
	fmt.Println()
}
