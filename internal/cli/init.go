package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ghpub.dev/ghpub/internal/config"
	"ghpub.dev/ghpub/internal/git"
	"ghpub.dev/ghpub/internal/output"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	var (
		source string
		branch string
		remote string
	)

	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Write a " + config.FileName + " config file to the repository root",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := git.NewEngine(".")
			if err != nil {
				return err
			}
			repoRoot := engine.Root()

			configPath := filepath.Join(repoRoot, config.FileName)
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("%s already exists, edit it instead", configPath)
			}

			cfg := config.Defaults()
			if source != "" {
				cfg.Source = source
			}
			if branch != "" {
				if err := git.ValidateBranchName(branch); err != nil {
					return err
				}
				cfg.Branch = branch
			}
			if remote != "" {
				if err := git.ValidateRemoteName(remote); err != nil {
					return err
				}
				cfg.Remote = remote
			}

			if err := cfg.Save(repoRoot); err != nil {
				return err
			}

			splog := output.NewSplog()
			splog.Success("Wrote %s", configPath)
			splog.Info("Publishing %s to the %s branch on %s", cfg.Source, cfg.Branch, cfg.Remote)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Directory with the built site")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch the site is published to")
	cmd.Flags().StringVarP(&remote, "remote", "r", "", "Remote the branch is pushed to")

	return cmd
}
