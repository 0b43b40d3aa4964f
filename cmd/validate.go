package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abp-cli/abp/internal/ui"
	"github.com/abp-cli/abp/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a project's AGENTS.md",
	Long: `Check the structure of AGENTS.md: setup block, resolved placeholders,
a single standards-reference section with balanced markers, deviation
policy, guide links and pin metadata.

Errors fail the run; warnings fail it only under --strict.

Examples:
  abp validate
  abp validate --strict --expect-standards-path ../standards`,
	Run: runValidate,
}

var (
	validateProjectDir    string
	validateStandardsPath string
	validateStrict        bool
)

func init() {
	f := validateCmd.Flags()
	f.StringVar(&validateProjectDir, "project-dir", ".", "Target project directory")
	f.StringVar(&validateStandardsPath, "expect-standards-path", "", "Require the referenced standards path to equal this")
	f.BoolVar(&validateStrict, "strict", false, "Treat warnings as failures")
}

func runValidate(cmd *cobra.Command, args []string) {
	fmt.Println()
	fmt.Println(ui.SectionHeader("Validating AGENTS.md"))
	fmt.Println()

	rep := validate.Run(validate.Input{
		ProjectDir:          validateProjectDir,
		ExpectStandardsPath: validateStandardsPath,
	})

	for _, f := range rep.Findings {
		line := fmt.Sprintf("[%s] %s", f.Check, f.Message)
		if f.Level == validate.Error {
			fmt.Println(ui.ErrorLine(line))
		} else {
			fmt.Println(ui.WarningLine(line))
		}
	}

	if len(rep.Findings) > 0 {
		fmt.Println()
	}
	summary := fmt.Sprintf("  %d error(s), %d warning(s)", rep.Errors(), rep.Warnings())
	switch {
	case rep.Errors() > 0:
		fmt.Println(ui.Error.Render(summary))
	case rep.Warnings() > 0:
		fmt.Println(ui.Warning.Render(summary))
	default:
		fmt.Println(ui.Success.Render(summary))
	}

	if rep.Failed(validateStrict) {
		fmt.Println(ui.ErrorLine("Validation failed"))
		fmt.Println()
		os.Exit(1)
	}

	fmt.Println(ui.SuccessLine("Validation passed"))
	fmt.Println()
}
