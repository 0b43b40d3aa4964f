package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abp-cli/abp/internal/stack"
	"github.com/abp-cli/abp/internal/ui"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect the project stack and default commands",
	Long: `Probe the project for stack manifests (package.json, pyproject.toml,
go.mod, Cargo.toml, pom.xml, ...) and print the detected profile with
the default commands adoption would use.`,
	Run: runDetect,
}

var detectProjectDir string

func init() {
	detectCmd.Flags().StringVar(&detectProjectDir, "project-dir", ".", "Target project directory")
}

func runDetect(cmd *cobra.Command, args []string) {
	p := stack.Detect(detectProjectDir)

	fmt.Println()
	fmt.Println(ui.SectionHeader("Stack Detection"))
	fmt.Println()

	fmt.Println(ui.Highlight.Render("  Stack:    ") + p.Stack.String())
	fmt.Println(ui.Highlight.Render("  Language: ") + p.Language)
	fmt.Println(ui.Highlight.Render("  Runtime:  ") + p.Runtime)
	if p.Manifest != "" {
		fmt.Println(ui.Highlight.Render("  Manifest: ") + p.Manifest)
	}
	if p.ProjectName != "" {
		fmt.Println(ui.Highlight.Render("  Project:  ") + p.ProjectName)
	}
	if len(p.CriticalPaths) > 0 {
		fmt.Println(ui.Highlight.Render("  Paths:    ") + strings.Join(p.CriticalPaths, ", "))
	}

	fmt.Println()
	fmt.Println("  " + ui.Divider(40))
	fmt.Println(ui.Muted.Render("  Commands"))
	printCommand("dev", p.Commands.Dev)
	printCommand("test", p.Commands.Test)
	printCommand("lint", p.Commands.Lint)
	printCommand("build", p.Commands.Build)
	printCommand("typecheck", p.Commands.Typecheck)
	fmt.Println()
}

func printCommand(name, command string) {
	if command == "" {
		fmt.Println(ui.Muted.Render(fmt.Sprintf("    %-10s (no default)", name)))
		return
	}
	fmt.Printf("    %-10s %s\n", name, ui.Code.Render(command))
}
