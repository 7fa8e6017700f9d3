package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/sweeper/pkg/cli"
	"mercator-hq/sweeper/pkg/history"
)

var historyFlags struct {
	limit    int
	since    string
	failures bool
	output   string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent retention runs",
	Long: `List runs recorded in the history journal, newest first.

The journal is only written when history.enabled is set. It is never read
by the retention passes.

Examples:
  # Last 20 runs
  sweeper history --limit 20

  # Runs with failures in the last week
  sweeper history --failures --since 168h

  # Export as CSV
  sweeper history --output csv > runs.csv`,
	RunE: listHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "max results (0 for all)")
	historyCmd.Flags().StringVar(&historyFlags.since, "since", "", "only runs started within this duration (e.g. 72h) or after this RFC3339 time")
	historyCmd.Flags().BoolVar(&historyFlags.failures, "failures", false, "only runs with failures or skipped passes")
	historyCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "text", "output format: text, json, csv")
}

func listHistory(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(historyFlags.output)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	since, err := parseSince(historyFlags.since, time.Now())
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return configFailure("history", err)
	}
	if !cfg.History.Enabled {
		return configFailure("history", cli.NewConfigError("history.enabled", "history is disabled"))
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return configFailure("history", err)
	}

	store, err := openHistory(cfg, logger)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	records, err := store.List(ctx, history.Query{
		Limit:        historyFlags.limit,
		Since:        since,
		FailuresOnly: historyFlags.failures,
	})
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(out, records)
	}
	if len(records) == 0 && format == cli.FormatText {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}
	return cli.NewFormatter(format).FormatTo(out, cli.HistoryTable{Records: records})
}

// parseSince accepts a duration relative to now or an RFC3339 timestamp.
func parseSince(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since %q: expected a duration or RFC3339 time", s)
	}
	return t, nil
}
