package cli

import (
	"os"

	"github.com/spf13/cobra"

	"ghpub.dev/ghpub/internal/config"
	"ghpub.dev/ghpub/internal/git"
	"ghpub.dev/ghpub/internal/github"
	"ghpub.dev/ghpub/internal/journal"
	"ghpub.dev/ghpub/internal/output"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Show the publish state of this repository and its Pages site",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := git.NewEngine(".")
			if err != nil {
				return err
			}
			repoRoot := engine.Root()

			splog := output.NewSplog()

			cfg, err := config.Load(repoRoot)
			if err != nil {
				return err
			}

			branch := output.ColorAccent(cfg.Branch)
			remote := output.ColorAccent(cfg.Remote)

			// Local branch state
			exists, err := engine.BranchExists(cfg.Branch)
			if err != nil {
				return err
			}
			if !exists {
				splog.Info("Branch %s does not exist yet; run ghpub to create it.", branch)
			} else {
				splog.Info("Publishing %s to branch %s on %s", cfg.Source, branch, remote)
			}

			// Last recorded publish
			showLastPublish(splog, repoRoot)

			// Remote branch state, best effort
			sha, err := engine.RemoteBranchSHA(cmd.Context(), cfg.Remote, cfg.Branch)
			switch {
			case err != nil:
				splog.Warn("Could not reach remote %s: %v", remote, err)
			case sha == "":
				splog.Info("Remote branch %s/%s does not exist yet", remote, branch)
			default:
				splog.Info("Remote branch %s/%s is at %s", remote, branch, shortSHA(sha))
			}

			// Pages build state, best effort
			showPagesStatus(cmd, splog, engine, cfg)
			return nil
		},
	}

	return cmd
}

// showLastPublish prints the most recent journal entry if there is one
func showLastPublish(splog *output.Splog, repoRoot string) {
	dbPath := journal.DefaultPath(repoRoot)
	if _, err := os.Stat(dbPath); err != nil {
		return
	}

	j, err := journal.Open(dbPath)
	if err != nil {
		splog.Debug("Could not open publish journal: %v", err)
		return
	}
	defer func() { _ = j.Close() }()

	last, err := j.Last()
	if err != nil || last == nil {
		return
	}
	splog.Info("Last publish: %s", formatEntry(*last))
}

// showPagesStatus queries the GitHub Pages API for the configured remote.
// Missing tokens and non-GitHub remotes are reported as hints, not errors.
func showPagesStatus(cmd *cobra.Command, splog *output.Splog, engine *git.Engine, cfg config.Config) {
	url, err := engine.RemoteURL(cfg.Remote)
	if err != nil {
		return
	}

	info, err := github.ParseRemoteURL(url)
	if err != nil {
		splog.Debug("Remote %s does not look like a GitHub repository: %v", cfg.Remote, err)
		return
	}

	token, err := github.Token(cmd.Context())
	if err != nil {
		splog.Tip("Set GITHUB_TOKEN or sign in with gh to see the Pages build status.")
		return
	}

	client, err := github.NewClient(cmd.Context(), info.Hostname, token)
	if err != nil {
		splog.Debug("Could not create GitHub client: %v", err)
		return
	}

	pages, err := github.PagesStatus(cmd.Context(), client, info.Owner, info.Repo)
	if err != nil {
		splog.Warn("Could not query Pages status for %s/%s: %v", info.Owner, info.Repo, err)
		return
	}

	splog.Newline()
	splog.Info("Pages site: %s (%s)", output.ColorAccent(pages.URL), pages.Status)
	if pages.CNAME != "" {
		splog.Info("Custom domain: %s", pages.CNAME)
	}
	switch pages.BuildStatus {
	case "":
		// Site has never built
	case "errored":
		splog.Error("Last Pages build failed: %s", pages.BuildError)
	default:
		splog.Info("Last Pages build: %s", pages.BuildStatus)
	}
}
