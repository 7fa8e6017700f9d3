package main

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"mercator-hq/sweeper/pkg/cli"
	"mercator-hq/sweeper/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file with SWEEPER_* environment overrides applied
and report every invalid field. Exits with status 2 when the configuration
is invalid.

Examples:
  sweeper validate --config /etc/sweeper/sweeper.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		errOut := cmd.ErrOrStderr()
		for _, fe := range cli.ConfigErrors(err) {
			fmt.Fprintf(errOut, "✗ %s: %s\n", fe.Field, fe.Message)
		}
		return configFailure("validate", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", cfgFile)
	printSummary(cmd, cfg)
	return nil
}

func printSummary(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  active:  %s (stage after %d days)\n", cfg.Directories.Active, cfg.Policy.ActiveDays)
	fmt.Fprintf(out, "  staged:  %s (delete after %d days)\n", cfg.Directories.Staged, cfg.Policy.StagedDays)
	fmt.Fprintf(out, "  backup:  %s (delete after %d days)\n", cfg.Directories.Backup, cfg.Policy.BackupDays)
	fmt.Fprintf(out, "  exempt:  %v\n", cfg.Policy.ExemptExtensions)

	if cfg.Schedule.Cron == "" {
		fmt.Fprintln(out, "  schedule: disabled")
		return
	}
	if next, ok := nextRun(cfg.Schedule, time.Now()); ok {
		fmt.Fprintf(out, "  schedule: %q (next run %s)\n", cfg.Schedule.Cron, next.Format(time.RFC3339))
	}
}

// nextRun computes the next activation of the configured schedule.
func nextRun(sc config.ScheduleConfig, now time.Time) (time.Time, bool) {
	schedule, err := cron.ParseStandard(sc.Cron)
	if err != nil {
		return time.Time{}, false
	}
	if sc.Timezone != "" {
		loc, err := time.LoadLocation(sc.Timezone)
		if err != nil {
			return time.Time{}, false
		}
		now = now.In(loc)
	}
	return schedule.Next(now), true
}
