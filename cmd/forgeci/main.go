package main

import (
	"fmt"
	"os"

	"github.com/forgeci/forgeci/pkg/cli"
	"github.com/forgeci/forgeci/pkg/console"
	"github.com/forgeci/forgeci/pkg/constants"
	"github.com/spf13/cobra"
)

// Build-time variables set by GoReleaser
var (
	version = "dev"
)

// Global flags
var verbose bool

var rootCmd = &cobra.Command{
	Use:   constants.CLIName,
	Short: "Generate and verify GitHub Actions workflows from project settings",
	Long: ` = forgeci

forgeci compiles a small project configuration file (` + constants.ConfigFileName + `) into
GitHub Actions workflow files under .github/workflows, and verifies that the
committed files still match the configuration. The generated files are owned
by forgeci: edit the configuration and regenerate instead of editing them.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compile the configuration into workflow files",
	Long: `Compile the configuration into workflow files under .github/workflows.

Examples:
  ` + constants.CLIName + ` generate
  ` + constants.CLIName + ` generate --config ci/forgeci.yml
  ` + constants.CLIName + ` generate --validate
  ` + constants.CLIName + ` generate --watch

The --validate flag additionally checks the rendered document against the
GitHub Actions workflow schema. The --watch flag keeps running and
regenerates whenever the configuration file changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		configFlag, _ := cmd.Flags().GetString("config")
		validate, _ := cmd.Flags().GetBool("validate")
		watch, _ := cmd.Flags().GetBool("watch")

		var err error
		if watch {
			err = cli.WatchAndGenerate(configFlag, validate, verbose)
		} else {
			err = cli.GenerateWorkflows(configFlag, validate, verbose)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the committed workflow files match the configuration",
	Long: `Verify that the committed workflow files match the configuration.

Exits non-zero and prints a diff when a generated file is stale, which makes
the command suitable as a CI step guarding against hand edits.`,
	Run: func(cmd *cobra.Command, args []string) {
		configFlag, _ := cmd.Flags().GetString("config")
		if err := cli.CheckWorkflows(configFlag, verbose); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		if err := cli.InitProject(force, verbose); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the managed workflow files and whether they are up to date",
	Run: func(cmd *cobra.Command, args []string) {
		configFlag, _ := cmd.Flags().GetString("config")
		if err := cli.StatusWorkflows(configFlag, verbose); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("%s version %s", constants.CLIName, version)))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output showing detailed information")

	generateCmd.Flags().String("config", "", "Path to the configuration file (default "+constants.ConfigFileName+" at the repository root)")
	generateCmd.Flags().Bool("validate", false, "Enable GitHub Actions workflow schema validation")
	generateCmd.Flags().BoolP("watch", "w", false, "Watch the configuration file and regenerate on changes")

	checkCmd.Flags().String("config", "", "Path to the configuration file (default "+constants.ConfigFileName+" at the repository root)")

	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")

	statusCmd.Flags().String("config", "", "Path to the configuration file (default "+constants.ConfigFileName+" at the repository root)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// Set version information in the CLI package
	cli.SetVersion(version)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
