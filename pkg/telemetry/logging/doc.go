// Package logging builds the structured logger used by sweeper.
//
// The logger is a plain *slog.Logger with a JSON, text or console handler.
// Components derive their own logger with With("component", ...), and the
// retention engine adds run_id and pass to every record of a run.
//
//	logger, err := logging.New(logging.Config{
//	    Level:      "info",
//	    Format:     "json",
//	    RedactHome: true,
//	})
//
// # Path Redaction
//
// With RedactHome enabled, string values and errors that contain the
// user's home directory are rewritten so that "/home/alice/Downloads/a.zip"
// is logged as "~/Downloads/a.zip".
package logging
