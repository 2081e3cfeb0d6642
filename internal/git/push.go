package git

import (
	"context"
	"errors"
	"strings"

	ghpuberrors "ghpub.dev/ghpub/internal/errors"
)

// Push pushes a branch to a remote with -u, creating the remote branch if needed.
// If force is true, uses --force (overwrites remote).
func (e *Engine) Push(ctx context.Context, remote string, branchName string, force bool) error {
	args := []string{"push", "-u", remote}

	if force {
		args = append(args, "--force")
	}

	args = append(args, branchName)

	_, err := e.runner.Run(ctx, args...)
	if err != nil {
		return ghpuberrors.NewPushError(remote, branchName, isPushRejection(err), err)
	}
	return nil
}

// isPushRejection reports whether a push failure was a non-fast-forward rejection
// rather than a connectivity or authentication problem
func isPushRejection(err error) bool {
	var cmdErr *ghpuberrors.GitCommandError
	if !errors.As(err, &cmdErr) {
		return false
	}

	out := cmdErr.Stderr + cmdErr.Stdout
	for _, marker := range []string{"[rejected]", "non-fast-forward", "fetch first", "stale info"} {
		if strings.Contains(out, marker) {
			return true
		}
	}
	return false
}

// RemoteBranchSHA returns the SHA of a branch on the remote, or an empty
// string when the remote branch does not exist. Contacts the network.
func (e *Engine) RemoteBranchSHA(ctx context.Context, remote string, branchName string) (string, error) {
	output, err := e.runner.Run(ctx, "ls-remote", "--heads", remote, "refs/heads/"+branchName)
	if err != nil {
		return "", ghpuberrors.NewRemoteUnavailableError(remote, err)
	}

	if output == "" {
		return "", nil
	}

	fields := strings.Fields(output)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}
