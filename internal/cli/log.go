package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ghpub.dev/ghpub/internal/git"
	"ghpub.dev/ghpub/internal/journal"
	"ghpub.dev/ghpub/internal/output"
)

// newLogCmd creates the log command
func newLogCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:          "log",
		Short:        "Show recent publishes recorded in this repository",
		Aliases:      []string{"l"},
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := git.NewEngine(".")
			if err != nil {
				return err
			}

			splog := output.NewSplog()

			dbPath := journal.DefaultPath(engine.Root())
			if _, err := os.Stat(dbPath); err != nil {
				splog.Info("No publishes recorded yet.")
				return nil
			}

			j, err := journal.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = j.Close() }()

			entries, err := j.Recent(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				splog.Info("No publishes recorded yet.")
				return nil
			}

			for _, entry := range entries {
				splog.Info("%s", formatEntry(entry))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Number of entries to show")

	return cmd
}

// formatEntry renders one journal entry as a log line
func formatEntry(entry journal.Entry) string {
	when := output.ColorDim(entry.Time.Local().Format("2006-01-02 15:04"))
	branch := output.ColorAccent(entry.Branch)

	switch {
	case entry.UpToDate && !entry.Pushed:
		return when + "  " + branch + "  up to date"
	case entry.UpToDate:
		return when + "  " + branch + "  unchanged, pushed " + shortSHA(entry.Commit)
	default:
		return when + "  " + branch + "  " + shortSHA(entry.Commit) + "  " + plural(entry.FilesWritten, "file") + " written, " + plural(entry.FilesDeleted, "file") + " removed"
	}
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

// plural formats a count with its unit, adding "s" when the count is not one
func plural(count int, word string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, word)
	}
	return fmt.Sprintf("%d %ss", count, word)
}
