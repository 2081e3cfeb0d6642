// Package cli wires the cobra commands for the ghpub binary.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	opts := &publishFlags{}

	rootCmd := &cobra.Command{
		Use:   "ghpub",
		Short: "Publish a build output directory to a GitHub Pages branch",
		Long: `ghpub publishes a directory of built static files (dist by default) to a
dedicated branch (gh-pages by default) and pushes it, creating the branch
on first use. Repeated runs with unchanged output do nothing.

Run it from anywhere inside the repository after building the site.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.source, "source", "s", "", "Directory with the built site, relative to the repository root (default \"dist\")")
	flags.StringVarP(&opts.branch, "branch", "b", "", "Branch the site is published to (default \"gh-pages\")")
	flags.StringVarP(&opts.remote, "remote", "r", "", "Remote the branch is pushed to (default \"origin\")")
	flags.StringVarP(&opts.message, "message", "m", "", "Commit message for the publish commit")
	flags.BoolVarP(&opts.force, "force", "f", false, "Overwrite the remote branch even when it has advanced")
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "Report what would be published without changing anything")
	flags.BoolVar(&opts.noJekyll, "nojekyll", false, "Add a .nojekyll file so GitHub Pages skips the Jekyll build")
	flags.StringVar(&opts.cname, "cname", "", "Add a CNAME file with the given custom domain")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "Never prompt; rejected pushes fail instead of offering a force push")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show debug output")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	// Add subcommands
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}
