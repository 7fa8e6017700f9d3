/*
Package cli provides command-line interface utilities for sweeper.

The cli package includes output formatters, table views of run reports and
history, error types with exit codes, and signal helpers used by the
sweeper command.

Output Formatting:

Commands support text, JSON and CSV output. Text and CSV render Table
values; JSON encodes the underlying data:

	formatter := cli.NewFormatter(cli.FormatText)
	if err := formatter.FormatTo(os.Stdout, cli.ReportTable{Report: report}); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

SIGHUP triggers a configuration reload in the daemon:

	reload := cli.NotifyReload()
	defer signal.Stop(reload)
*/
package cli
