package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/abp-cli/abp/internal/ui"
)

var (
	// Version is set at build time
	Version = "dev"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "abp",
	Short: "Agentic best-practices adoption tooling",
	Long: `abp maintains the AGENTS.md instruction file of a project from a
shared engineering-standards repository.

It renders AGENTS.md from a template with stack auto-detection, merges
the managed standards-reference block into existing files, pins immutable
snapshots of the standards repo, and validates the result.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(adoptCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(pilotCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(ui.Title.Render("abp") + " " + Version)
	},
}

// setupLogging routes slog through a tint handler on stderr. Debug
// records are dropped unless --verbose is set.
func setupLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)
}

// exitWithError prints an error and exits
func exitWithError(msg string) {
	fmt.Fprintln(os.Stderr, ui.Error.Render("Error: "+msg))
	os.Exit(1)
}
