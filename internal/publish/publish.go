// Package publish implements the pipeline that mirrors a build output
// directory onto a dedicated branch and pushes it to the remote.
package publish

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"ghpub.dev/ghpub/internal/config"
	ghpuberrors "ghpub.dev/ghpub/internal/errors"
	"ghpub.dev/ghpub/internal/output"
)

// Engine is the set of git operations the publisher drives. *git.Engine
// satisfies it.
type Engine interface {
	Root() string
	HeadState() (branch string, revision string, err error)
	BranchExists(name string) (bool, error)
	RemoteURL(name string) (string, error)
	RemoteBranchSHA(ctx context.Context, remote string, branchName string) (string, error)
	Checkout(ctx context.Context, branchName string) error
	CheckoutDetached(ctx context.Context, revision string) error
	CheckoutTracking(ctx context.Context, remote string, branchName string) error
	CreateOrphanBranch(ctx context.Context, branchName string) error
	ListTrackedFiles(ctx context.Context) ([]string, error)
	ListBranchFiles(ctx context.Context, branchName string) ([]string, error)
	Stage(ctx context.Context, pathspecs []string) error
	RemoveCached(ctx context.Context, paths []string) error
	HasStagedChanges(ctx context.Context) (bool, error)
	UncommittedTrackedChanges(ctx context.Context) ([]string, error)
	Commit(ctx context.Context, message string) (string, error)
	Push(ctx context.Context, remote string, branchName string, force bool) error
}

// Options contains options for a publish run
type Options struct {
	// Source is the build output directory, relative to the repository root
	Source string
	// Branch is the branch the build output is published to
	Branch string
	// Remote is the remote the branch is pushed to
	Remote string
	// Message is the commit message; empty selects the default
	Message string
	// Force overwrites the remote branch even when it has advanced
	Force bool
	// DryRun reports what would change without touching the repository
	DryRun bool
	// NoJekyll adds a .nojekyll file to the published output
	NoJekyll bool
	// CNAME adds a CNAME file with the given domain to the published output
	CNAME string
	// Confirm is asked before retrying a rejected push with force.
	// A nil Confirm means the rejection is returned as an error.
	Confirm func(prompt string) (bool, error)
}

func (o Options) withDefaults() Options {
	if o.Source == "" {
		o.Source = config.DefaultSource
	}
	if o.Branch == "" {
		o.Branch = config.DefaultBranch
	}
	if o.Remote == "" {
		o.Remote = config.DefaultRemote
	}
	if o.Message == "" {
		o.Message = "Update " + o.Branch
	}
	return o
}

// Result describes what a publish run did
type Result struct {
	Branch        string
	Remote        string
	Commit        string // empty when no new commit was created
	BranchCreated bool
	FilesWritten  int
	FilesDeleted  int
	UpToDate      bool
	Pushed        bool
	DryRun        bool
	Duration      time.Duration
}

// Publisher runs the publish pipeline against one repository
type Publisher struct {
	engine Engine
	splog  *output.Splog
}

// NewPublisher creates a publisher bound to the given engine
func NewPublisher(engine Engine, splog *output.Splog) *Publisher {
	if splog == nil {
		splog = output.NewSplog()
	}
	return &Publisher{engine: engine, splog: splog}
}

// Publish mirrors the build output onto the target branch, commits the
// changes when there are any, pushes the branch, and returns the checkout
// to where it started. Repeated runs with unchanged output create no new
// commits.
func (p *Publisher) Publish(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	opts = opts.withDefaults()

	root := p.engine.Root()
	srcDir, srcRel, err := resolveSource(root, opts.Source)
	if err != nil {
		return nil, err
	}

	// Collect the build output before touching the repository
	sourceFiles, err := collectSourceFiles(srcDir)
	if err != nil {
		return nil, err
	}
	extras := synthesizeExtras(opts, sourceFiles)

	// Remember where we started so the checkout can be restored
	origBranch, origRevision, err := p.engine.HeadState()
	if err != nil {
		return nil, ghpuberrors.NewBranchOperationError("", "resolve HEAD", err)
	}

	// Refuse to run with uncommitted changes to tracked files; the branch
	// switches below would carry or clobber them
	dirty, err := p.engine.UncommittedTrackedChanges(ctx)
	if err != nil {
		return nil, ghpuberrors.NewBranchOperationError("", "inspect working tree", err)
	}
	if len(dirty) > 0 {
		return nil, ghpuberrors.NewDirtyWorktreeError(dirty)
	}

	// The remote must at least be configured
	if _, err := p.engine.RemoteURL(opts.Remote); err != nil {
		return nil, err
	}

	// Probe the remote branch. When the probe fails but a local branch
	// exists we can still publish, so degrade to an unknown remote state.
	localExists, err := p.engine.BranchExists(opts.Branch)
	if err != nil {
		return nil, ghpuberrors.NewBranchOperationError(opts.Branch, "look up branch", err)
	}

	remoteKnown := true
	remoteSHA, err := p.engine.RemoteBranchSHA(ctx, opts.Remote, opts.Branch)
	if err != nil {
		if !localExists {
			return nil, err
		}
		p.splog.Debug("Could not reach remote %s, continuing with local branch state: %v", opts.Remote, err)
		remoteKnown = false
		remoteSHA = ""
	}

	if opts.DryRun {
		return p.planOnly(ctx, opts, start, sourceFiles, extras, srcRel, localExists, remoteSHA != "")
	}

	// Switch to the target branch, creating it when it exists nowhere yet
	branchCreated := false
	switch {
	case localExists:
		if err := p.engine.Checkout(ctx, opts.Branch); err != nil {
			return nil, ghpuberrors.NewBranchOperationError(opts.Branch, "checkout branch", err)
		}
	case remoteSHA != "":
		p.splog.Debug("Branch %s exists on %s, checking out a tracking branch", opts.Branch, opts.Remote)
		if err := p.engine.CheckoutTracking(ctx, opts.Remote, opts.Branch); err != nil {
			return nil, ghpuberrors.NewBranchOperationError(opts.Branch, "checkout remote branch", err)
		}
	default:
		p.splog.Debug("Branch %s does not exist, creating an orphan branch", opts.Branch)
		if err := p.engine.CreateOrphanBranch(ctx, opts.Branch); err != nil {
			return nil, ghpuberrors.NewBranchOperationError(opts.Branch, "create orphan branch", err)
		}
		branchCreated = true
	}

	// Mirror the build output over the branch's tracked content
	tracked, err := p.engine.ListTrackedFiles(ctx)
	if err != nil {
		return nil, ghpuberrors.NewBranchOperationError(opts.Branch, "list tracked files", err)
	}
	plan := planMirror(sourceFiles, extras, tracked, srcRel)
	if err := applyMirror(root, srcDir, srcRel, &plan); err != nil {
		return nil, ghpuberrors.NewBranchOperationError(opts.Branch, "mirror build output", err)
	}

	// Stage exactly the planned changes; untracked files that happen to sit
	// in the working tree stay out of the publish commit
	if err := p.engine.Stage(ctx, plan.changedPathspecs()); err != nil {
		return nil, ghpuberrors.NewBranchOperationError(opts.Branch, "stage changes", err)
	}
	if err := p.engine.RemoveCached(ctx, plan.unindexes); err != nil {
		return nil, ghpuberrors.NewBranchOperationError(opts.Branch, "stage changes", err)
	}

	result := &Result{
		Branch:        opts.Branch,
		Remote:        opts.Remote,
		BranchCreated: branchCreated,
		FilesWritten:  plan.writeCount(),
		FilesDeleted:  plan.deleteCount(),
	}

	// Commit only when the mirror actually changed something
	staged, err := p.engine.HasStagedChanges(ctx)
	if err != nil {
		return nil, ghpuberrors.NewBranchOperationError(opts.Branch, "check staged changes", err)
	}
	if staged {
		sha, err := p.engine.Commit(ctx, opts.Message)
		if err != nil {
			return nil, ghpuberrors.NewBranchOperationError(opts.Branch, "commit", err)
		}
		result.Commit = sha
		p.splog.Debug("Committed %s", sha)
	} else {
		result.UpToDate = true
		p.splog.Debug("Build output matches branch %s, nothing to commit", opts.Branch)
	}

	// Push unless the remote is known to already hold this exact commit.
	// That still pushes up-to-date branches whose remote is missing or
	// behind, such as after an earlier failed push.
	_, localSHA, err := p.engine.HeadState()
	if err != nil {
		return nil, ghpuberrors.NewBranchOperationError(opts.Branch, "resolve branch revision", err)
	}

	var pushErr error
	if staged || !remoteKnown || remoteSHA != localSHA {
		pushErr = p.push(ctx, opts)
		if pushErr == nil {
			result.Pushed = true
		}
	} else {
		p.splog.Debug("Remote %s already has %s, skipping push", opts.Remote, localSHA)
	}

	// Return to the original checkout even when the push failed, so a later
	// run can retry the push from a clean position
	if restoreErr := p.restore(ctx, origBranch, origRevision); restoreErr != nil {
		if pushErr != nil {
			p.splog.Warn("%v", restoreErr)
			return nil, pushErr
		}
		return nil, restoreErr
	}
	if pushErr != nil {
		return nil, pushErr
	}

	result.Duration = time.Since(start)
	return result, nil
}

// planOnly reports what a publish would change without modifying the
// repository. The comparison is path-based, so files whose content is
// already identical still count as writes.
func (p *Publisher) planOnly(ctx context.Context, opts Options, start time.Time, sourceFiles []string, extras map[string][]byte, srcRel string, localExists bool, remoteExists bool) (*Result, error) {
	var tracked []string
	if localExists {
		var err error
		tracked, err = p.engine.ListBranchFiles(ctx, opts.Branch)
		if err != nil {
			return nil, ghpuberrors.NewBranchOperationError(opts.Branch, "list branch files", err)
		}
	}

	plan := planMirror(sourceFiles, extras, tracked, srcRel)
	return &Result{
		Branch:        opts.Branch,
		Remote:        opts.Remote,
		BranchCreated: !localExists && !remoteExists,
		FilesWritten:  plan.writeCount(),
		FilesDeleted:  plan.deleteCount(),
		DryRun:        true,
		Duration:      time.Since(start),
	}, nil
}

// push pushes the branch, offering a forced retry when the remote rejected
// the update and the caller provided a confirmation prompt
func (p *Publisher) push(ctx context.Context, opts Options) error {
	err := p.engine.Push(ctx, opts.Remote, opts.Branch, opts.Force)
	if err == nil {
		return nil
	}

	var pushErr *ghpuberrors.PushError
	if errors.As(err, &pushErr) && pushErr.Rejected && !opts.Force && opts.Confirm != nil {
		prompt := fmt.Sprintf("The remote %s branch has advanced since it was last published. Overwrite it with a force push?", opts.Branch)
		confirmed, confirmErr := opts.Confirm(prompt)
		if confirmErr == nil && confirmed {
			return p.engine.Push(ctx, opts.Remote, opts.Branch, true)
		}
	}

	return err
}

// restore returns the checkout to the branch or detached revision the
// publish started from
func (p *Publisher) restore(ctx context.Context, branch string, revision string) error {
	if branch != "" {
		if err := p.engine.Checkout(ctx, branch); err != nil {
			return ghpuberrors.NewBranchOperationError(branch, "return to original branch", err)
		}
		return nil
	}

	if err := p.engine.CheckoutDetached(ctx, revision); err != nil {
		return ghpuberrors.NewBranchOperationError("", "return to original commit", err)
	}
	return nil
}

// resolveSource resolves the build output directory against the repository
// root and rejects locations outside it
func resolveSource(root string, source string) (srcDir string, srcRel string, err error) {
	srcDir = source
	if !filepath.IsAbs(srcDir) {
		srcDir = filepath.Join(root, srcDir)
	}
	srcDir = filepath.Clean(srcDir)

	rel, relErr := filepath.Rel(root, srcDir)
	if relErr != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("build output directory %s must be inside the repository, below its root", source)
	}

	return srcDir, filepath.ToSlash(rel), nil
}

// synthesizeExtras returns the files added alongside the build output.
// Files the build output already provides are never overridden.
func synthesizeExtras(opts Options, sourceFiles []string) map[string][]byte {
	extras := make(map[string][]byte)
	if opts.NoJekyll {
		extras[".nojekyll"] = []byte{}
	}
	if opts.CNAME != "" {
		extras["CNAME"] = []byte(opts.CNAME + "\n")
	}

	for _, f := range sourceFiles {
		delete(extras, f)
	}
	return extras
}
