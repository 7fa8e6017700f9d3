package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"mercator-hq/sweeper/pkg/cli"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Sweeper - tiered, age-based file retention",
	Long: `Sweeper applies a three-tier retention policy to a set of directories.

  - Files in the active directory older than policy.active_days are moved
    into the staged directory (subdirectories are flattened).
  - Files in the staged directory older than policy.staged_days are deleted.
  - Files in the backup directory older than policy.backup_days are deleted.

Files whose names end in an exempt extension are never moved out of the
active directory. Ages are measured from the modification time, which is
preserved when a file is staged.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the mapped exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "sweeper.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}
