// Sweeper keeps a downloads folder tidy with tiered, age-based retention.
//
// Files that sit in the active directory longer than the active threshold
// are moved into a private staged directory. Staged files are deleted after
// the staged threshold, and files in the backup directory are deleted after
// the backup threshold. Ages are always derived from the file modification
// time, so every run re-derives its decisions from the filesystem.
//
// Usage:
//
//	# Run as a daemon (run on start, then daily at 09:00)
//	sweeper run --config sweeper.yaml
//
//	# Run once and print the report
//	sweeper once --dry-run
//
//	# Validate a configuration file
//	sweeper validate --config sweeper.yaml
//
//	# List recent runs from the history journal
//	sweeper history --limit 20
package main

func main() {
	Execute()
}
