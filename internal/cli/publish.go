package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"ghpub.dev/ghpub/internal/config"
	"ghpub.dev/ghpub/internal/git"
	"ghpub.dev/ghpub/internal/journal"
	"ghpub.dev/ghpub/internal/output"
	"ghpub.dev/ghpub/internal/publish"
)

// publishFlags holds the root command's flag values
type publishFlags struct {
	source   string
	branch   string
	remote   string
	message  string
	force    bool
	dryRun   bool
	noJekyll bool
	cname    string
	yes      bool
	verbose  bool
	noColor  bool
}

// runPublish runs the publish pipeline from the current directory
func runPublish(cmd *cobra.Command, flags *publishFlags) error {
	output.ConfigureColors(flags.noColor)

	// Open the enclosing repository
	engine, err := git.NewEngine(".")
	if err != nil {
		return err
	}
	repoRoot := engine.Root()

	splog, err := output.NewSplogWithConfig(logFilePath(repoRoot), flags.verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = splog.Close() }()

	// Load repository config and overlay the flags that were set
	cfg, err := config.Load(repoRoot)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, flags, &cfg)

	if err := validateSettings(cfg); err != nil {
		return err
	}

	opts := publish.Options{
		Source:   cfg.Source,
		Branch:   cfg.Branch,
		Remote:   cfg.Remote,
		Message:  cfg.CommitMessage(),
		Force:    cfg.Force,
		DryRun:   flags.dryRun,
		NoJekyll: cfg.NoJekyll,
		CNAME:    cfg.CNAME,
	}
	if !flags.yes && output.IsTTY() {
		opts.Confirm = promptConfirm
	}

	publisher := publish.NewPublisher(engine, splog)
	result, err := publisher.Publish(cmd.Context(), opts)
	if err != nil {
		return err
	}

	reportResult(splog, result)

	if !result.DryRun {
		recordPublish(splog, repoRoot, result, opts.Message)
	}
	return nil
}

// logFilePath returns the log file location inside the repository's .git directory
func logFilePath(repoRoot string) string {
	return filepath.Join(repoRoot, filepath.FromSlash(journal.Dir), "ghpub.log")
}

// applyFlagOverrides overlays explicitly set flags onto the loaded config
func applyFlagOverrides(cmd *cobra.Command, flags *publishFlags, cfg *config.Config) {
	if cmd.Flags().Changed("source") {
		cfg.Source = flags.source
	}
	if cmd.Flags().Changed("branch") {
		cfg.Branch = flags.branch
	}
	if cmd.Flags().Changed("remote") {
		cfg.Remote = flags.remote
	}
	if cmd.Flags().Changed("message") {
		cfg.Message = flags.message
	}
	if cmd.Flags().Changed("force") {
		cfg.Force = flags.force
	}
	if cmd.Flags().Changed("nojekyll") {
		cfg.NoJekyll = flags.noJekyll
	}
	if cmd.Flags().Changed("cname") {
		cfg.CNAME = flags.cname
	}
}

// validateSettings rejects settings git would choke on later
func validateSettings(cfg config.Config) error {
	if err := git.ValidateBranchName(cfg.Branch); err != nil {
		return err
	}
	if err := git.ValidateRemoteName(cfg.Remote); err != nil {
		return err
	}
	if cfg.CNAME != "" {
		if strings.Contains(cfg.CNAME, "/") || strings.ContainsAny(cfg.CNAME, " \t") {
			return fmt.Errorf("invalid CNAME domain %q: must be a bare domain such as docs.example.com", cfg.CNAME)
		}
	}
	return nil
}

// promptConfirm asks a yes/no question, defaulting to no
func promptConfirm(message string) (bool, error) {
	var confirmed bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, fmt.Errorf("canceled")
	}
	return confirmed, nil
}

// reportResult prints the human-readable summary of a publish run
func reportResult(splog *output.Splog, result *publish.Result) {
	branch := output.ColorAccent(result.Branch)
	remote := output.ColorAccent(result.Remote)

	if result.DryRun {
		line := fmt.Sprintf("Dry run: would publish %s to %s", plural(result.FilesWritten, "file"), branch)
		if result.FilesDeleted > 0 {
			line += fmt.Sprintf(" and remove %s", plural(result.FilesDeleted, "stale file"))
		}
		splog.Info("%s", line)
		if result.BranchCreated {
			splog.Info("Branch %s would be created", branch)
		}
		return
	}

	if result.UpToDate && !result.Pushed {
		splog.Success("Branch %s is already up to date", branch)
		return
	}

	if result.UpToDate {
		splog.Success("Branch %s unchanged, pushed existing commit to %s", branch, remote)
		return
	}

	line := fmt.Sprintf("Published %s to %s on %s", plural(result.FilesWritten, "file"), branch, remote)
	if result.FilesDeleted > 0 {
		line += fmt.Sprintf(", removed %s", plural(result.FilesDeleted, "stale file"))
	}
	splog.Success("%s", line)
	if result.BranchCreated {
		splog.Tip("First publish: enable GitHub Pages for the %s branch in the repository settings.", result.Branch)
	}
}

// recordPublish appends the run to the publish journal. The journal is
// informational, so failures only show up in debug output.
func recordPublish(splog *output.Splog, repoRoot string, result *publish.Result, message string) {
	j, err := journal.Open(journal.DefaultPath(repoRoot))
	if err != nil {
		splog.Debug("Could not open publish journal: %v", err)
		return
	}
	defer func() { _ = j.Close() }()

	entry := journal.Entry{
		Time:         time.Now(),
		Branch:       result.Branch,
		Remote:       result.Remote,
		Commit:       result.Commit,
		Message:      message,
		FilesWritten: result.FilesWritten,
		FilesDeleted: result.FilesDeleted,
		UpToDate:     result.UpToDate,
		Pushed:       result.Pushed,
		Duration:     result.Duration,
	}
	if err := j.Append(entry); err != nil {
		splog.Debug("Could not record publish in journal: %v", err)
	}
}
