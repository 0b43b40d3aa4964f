package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abp-cli/abp/internal/pin"
	"github.com/abp-cli/abp/internal/ui"
)

var pinCmd = &cobra.Command{
	Use:   "pin",
	Short: "Snapshot the standards repository at a git ref",
	Long: `Archive the standards repository at a resolved commit into a
project-local snapshot directory, with metadata recording the ref and SHA.

Re-pinning the same ref is a no-op; pinning a new ref creates a new
snapshot alongside the old one.

Examples:
  abp pin --standards-path ../standards --pinned-ref v1.2.0
  abp pin --standards-path ../standards --pinned-ref v1.2.0 --print-relative-only`,
	Run: runPin,
}

var (
	pinProjectDir    string
	pinStandardsPath string
	pinRef           string
	pinDir           string
	pinRelativeOnly  bool
)

func init() {
	f := pinCmd.Flags()
	f.StringVar(&pinProjectDir, "project-dir", ".", "Target project directory")
	f.StringVar(&pinStandardsPath, "standards-path", "", "Path to the standards repository")
	f.StringVar(&pinRef, "pinned-ref", "", "Git ref to pin (tag, branch or SHA)")
	f.StringVar(&pinDir, "pinned-dir", "", "Snapshot root (default: <project>/.agentic-best-practices/pinned)")
	f.BoolVar(&pinRelativeOnly, "print-relative-only", false, "Print only the project-relative snapshot path")

	pinCmd.MarkFlagRequired("standards-path")
	pinCmd.MarkFlagRequired("pinned-ref")
}

func runPin(cmd *cobra.Command, args []string) {
	root := pinDir
	if root == "" {
		root = filepath.Join(pinProjectDir, filepath.FromSlash(pin.DefaultRoot))
	}

	res, err := pin.Snapshot(pinStandardsPath, pinRef, root)
	if err != nil {
		exitWithError(err.Error())
	}

	if pinRelativeOnly {
		rel, err := filepath.Rel(pinProjectDir, res.Dir)
		if err != nil {
			rel = res.Dir
		}
		fmt.Println(filepath.ToSlash(rel))
		return
	}

	fmt.Println()
	fmt.Println(ui.SectionHeader("Pinning Standards"))
	fmt.Println()
	printPinResult(res)
	fmt.Println()
}

func printPinResult(res *pin.Result) {
	if res.Skipped {
		fmt.Println(ui.SuccessLine(fmt.Sprintf("Snapshot for %s already up to date", res.Meta.Ref)))
	} else {
		fmt.Println(ui.SuccessLine(fmt.Sprintf("Pinned %s at %s", res.Meta.Ref, res.Meta.Commit[:10])))
	}
	fmt.Println(ui.Muted.Render("  Snapshot: " + res.Dir))
	if !pin.IsSemverOrSHA(res.Meta.Ref) {
		fmt.Println(ui.WarningLine("Ref is neither a version tag nor a SHA; it may drift"))
	}
}
