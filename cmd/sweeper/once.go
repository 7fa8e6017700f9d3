package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/sweeper/pkg/cli"
	"mercator-hq/sweeper/pkg/history"
	"mercator-hq/sweeper/pkg/retention"
)

var onceFlags struct {
	dryRun bool
	output string
}

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run the retention passes once and print the report",
	Long: `Run backup purge, active demotion and staged purge once, then exit.

Per-file failures and skipped passes are listed in the report but do not
change the exit status; only configuration errors do.

Examples:
  # Show what would be moved or deleted
  sweeper once --dry-run

  # Machine-readable report
  sweeper once --output json`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(onceCmd)

	onceCmd.Flags().BoolVar(&onceFlags.dryRun, "dry-run", false, "report what would happen without moving or deleting files")
	onceCmd.Flags().StringVarP(&onceFlags.output, "output", "o", "text", "output format: text, json, csv")
}

func runOnce(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(onceFlags.output)
	if err != nil {
		return cli.NewCommandError("once", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return configFailure("once", err)
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return configFailure("once", err)
	}

	engine, err := newEngine(cfg, logger, onceFlags.dryRun)
	if err != nil {
		return configFailure("once", err)
	}

	report := engine.Run()

	if cfg.History.Enabled {
		store, err := openHistory(cfg, logger)
		if err != nil {
			logger.Error("run not recorded", "run_id", report.RunID, "error", err)
		} else {
			history.NewRecorder(store, cfg.History.MaxRecords, logger).OnReport(report)
			if err := store.Close(); err != nil {
				logger.Warn("failed to close history store", "error", err)
			}
		}
	}

	return printReport(cmd.OutOrStdout(), format, report)
}

func printReport(w io.Writer, format cli.OutputFormat, report *retention.RunReport) error {
	formatter := cli.NewFormatter(format)
	if format == cli.FormatJSON {
		return formatter.FormatTo(w, report)
	}
	if format == cli.FormatCSV {
		return formatter.FormatTo(w, cli.ReportTable{Report: report})
	}

	mode := ""
	if report.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(w, "Run %s%s finished in %s\n\n", report.RunID, mode, report.Duration().Round(time.Millisecond))
	if err := formatter.FormatTo(w, cli.ReportTable{Report: report}); err != nil {
		return err
	}

	failures := cli.FailureTable{Report: report}
	if len(failures.Rows()) > 0 {
		fmt.Fprintln(w, "\nFailures:")
		if err := formatter.FormatTo(w, failures); err != nil {
			return err
		}
	}
	return nil
}
