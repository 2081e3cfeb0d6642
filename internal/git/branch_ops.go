package git

import (
	"context"
	"fmt"
)

// Checkout checks out an existing branch
func (e *Engine) Checkout(ctx context.Context, branchName string) error {
	_, err := e.runner.Run(ctx, "checkout", "--quiet", branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

// CheckoutDetached checks out a revision in detached HEAD state
func (e *Engine) CheckoutDetached(ctx context.Context, rev string) error {
	_, err := e.runner.Run(ctx, "checkout", "--quiet", "--detach", rev)
	if err != nil {
		return fmt.Errorf("failed to checkout %s in detached state: %w", rev, err)
	}
	return nil
}

// CreateOrphanBranch creates and checks out a branch with no history, then
// clears the index entries inherited from the previous branch. Working tree
// files are left in place for the previous branch to restore later.
func (e *Engine) CreateOrphanBranch(ctx context.Context, branchName string) error {
	_, err := e.runner.Run(ctx, "checkout", "--quiet", "--orphan", branchName)
	if err != nil {
		return fmt.Errorf("failed to create orphan branch %s: %w", branchName, err)
	}

	_, err = e.runner.Run(ctx, "rm", "-r", "-q", "--cached", "--ignore-unmatch", ".")
	if err != nil {
		return fmt.Errorf("failed to clear index for orphan branch %s: %w", branchName, err)
	}
	return nil
}

// CheckoutTracking fetches a remote branch and checks out a local branch tracking it
func (e *Engine) CheckoutTracking(ctx context.Context, remote string, branchName string) error {
	refspec := fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", branchName, remote, branchName)
	_, err := e.runner.Run(ctx, "fetch", remote, refspec)
	if err != nil {
		return fmt.Errorf("failed to fetch branch %s from %s: %w", branchName, remote, err)
	}

	_, err = e.runner.Run(ctx, "checkout", "--quiet", "-b", branchName, "--track", remote+"/"+branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout tracking branch %s: %w", branchName, err)
	}
	return nil
}
