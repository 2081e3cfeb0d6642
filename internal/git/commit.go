package git

import (
	"context"
	"fmt"
)

// Commit creates a commit with the given message and returns its SHA
func (e *Engine) Commit(ctx context.Context, message string) (string, error) {
	_, err := e.runner.Run(ctx, "commit", "--quiet", "-m", message)
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	sha, err := e.runner.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve new commit: %w", err)
	}
	return sha, nil
}
