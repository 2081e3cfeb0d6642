// Package github provides a client for querying the GitHub Pages API.
package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"ghpub.dev/ghpub/internal/git"
)

// Token gets the GitHub token from the environment or the gh CLI
func Token(ctx context.Context) (string, error) {
	// Try environment variable first
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	// Try gh CLI
	output, err := git.RunGHCommand(ctx, "auth", "token")
	if err != nil {
		return "", fmt.Errorf("failed to get GitHub token: %w", err)
	}

	token := strings.TrimSpace(output)
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}

	return token, nil
}
