package git

import (
	"context"
	"fmt"
	"strings"
)

// Stage stages additions, updates and deletions for the given pathspecs.
// Pathspecs are fed over stdin NUL-separated so arbitrarily large publishes
// do not hit argv limits, and -f stages files that ignore rules would skip.
func (e *Engine) Stage(ctx context.Context, pathspecs []string) error {
	if len(pathspecs) == 0 {
		return nil
	}

	input := strings.Join(pathspecs, "\x00")
	_, err := e.runner.RunWithInput(ctx, input, "add", "-A", "-f", "--pathspec-from-file=-", "--pathspec-file-nul")
	if err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// HasStagedChanges checks if there are staged changes
func (e *Engine) HasStagedChanges(ctx context.Context) (bool, error) {
	output, err := e.runner.Run(ctx, "diff", "--cached", "--shortstat")
	if err != nil {
		return false, fmt.Errorf("failed to check staged changes: %w", err)
	}
	return strings.TrimSpace(output) != "", nil
}

// UncommittedTrackedChanges returns the tracked files with staged or unstaged
// modifications. Untracked files are not reported.
func (e *Engine) UncommittedTrackedChanges(ctx context.Context) ([]string, error) {
	lines, err := e.runner.RunLines(ctx, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return nil, fmt.Errorf("failed to check working tree state: %w", err)
	}

	var files []string
	for _, line := range lines {
		if len(line) > 3 {
			files = append(files, strings.TrimSpace(line[3:]))
		}
	}
	return files, nil
}

// RemoveCached removes the given paths from the index without touching the
// files on disk
func (e *Engine) RemoveCached(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	input := strings.Join(paths, "\x00")
	_, err := e.runner.RunWithInput(ctx, input, "rm", "-q", "-r", "--cached", "--ignore-unmatch", "--pathspec-from-file=-", "--pathspec-file-nul")
	if err != nil {
		return fmt.Errorf("failed to unstage files: %w", err)
	}
	return nil
}

// ListTrackedFiles returns the paths tracked in the index, relative to the repository root
func (e *Engine) ListTrackedFiles(ctx context.Context) ([]string, error) {
	output, err := e.runner.Run(ctx, "ls-files", "-z")
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked files: %w", err)
	}

	return splitNulTerminated(output), nil
}

// ListBranchFiles returns the paths tracked on the given branch without
// checking it out
func (e *Engine) ListBranchFiles(ctx context.Context, branchName string) ([]string, error) {
	output, err := e.runner.Run(ctx, "ls-tree", "-r", "-z", "--name-only", branchName)
	if err != nil {
		return nil, fmt.Errorf("failed to list files on branch %s: %w", branchName, err)
	}

	return splitNulTerminated(output), nil
}

func splitNulTerminated(output string) []string {
	var files []string
	for _, f := range strings.Split(output, "\x00") {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}
