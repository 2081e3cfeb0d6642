package github

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	t.Run("parses HTTPS github.com URL", func(t *testing.T) {
		info, err := ParseRemoteURL("https://github.com/owner/repo.git")
		require.NoError(t, err)
		require.Equal(t, "github.com", info.Hostname)
		require.Equal(t, "owner", info.Owner)
		require.Equal(t, "repo", info.Repo)
	})

	t.Run("parses HTTPS URL without .git suffix", func(t *testing.T) {
		info, err := ParseRemoteURL("https://github.com/owner/repo")
		require.NoError(t, err)
		require.Equal(t, "owner", info.Owner)
		require.Equal(t, "repo", info.Repo)
	})

	t.Run("parses SSH URL with colon separator", func(t *testing.T) {
		info, err := ParseRemoteURL("git@github.com:owner/repo.git")
		require.NoError(t, err)
		require.Equal(t, "github.com", info.Hostname)
		require.Equal(t, "owner", info.Owner)
		require.Equal(t, "repo", info.Repo)
	})

	t.Run("parses ssh scheme URL with slash separator", func(t *testing.T) {
		info, err := ParseRemoteURL("ssh://git@github.com/owner/repo.git")
		require.NoError(t, err)
		require.Equal(t, "github.com", info.Hostname)
		require.Equal(t, "owner", info.Owner)
		require.Equal(t, "repo", info.Repo)
	})

	t.Run("parses GitHub Enterprise URL", func(t *testing.T) {
		info, err := ParseRemoteURL("https://github.company.com/owner/repo.git")
		require.NoError(t, err)
		require.Equal(t, "github.company.com", info.Hostname)
		require.Equal(t, "owner", info.Owner)
		require.Equal(t, "repo", info.Repo)
	})

	t.Run("handles surrounding whitespace", func(t *testing.T) {
		info, err := ParseRemoteURL("  https://github.com/owner/repo.git  ")
		require.NoError(t, err)
		require.Equal(t, "owner", info.Owner)
	})

	t.Run("returns error for SSH URL without a path", func(t *testing.T) {
		info, err := ParseRemoteURL("git@github.com")
		require.Error(t, err)
		require.Nil(t, info)
		require.Contains(t, err.Error(), "invalid SSH remote URL")
	})

	t.Run("returns error for HTTPS URL without owner and repo", func(t *testing.T) {
		info, err := ParseRemoteURL("https://github.com")
		require.Error(t, err)
		require.Nil(t, info)
		require.Contains(t, err.Error(), "invalid HTTPS remote URL")
	})

	t.Run("returns error for empty URL", func(t *testing.T) {
		info, err := ParseRemoteURL("")
		require.Error(t, err)
		require.Nil(t, info)
	})
}

func TestNewClient(t *testing.T) {
	t.Run("uses the default API endpoints for github.com", func(t *testing.T) {
		client, err := NewClient(context.Background(), "github.com", "token")
		require.NoError(t, err)
		require.Equal(t, "https://api.github.com/", client.BaseURL.String())
	})

	t.Run("uses enterprise endpoints for other hostnames", func(t *testing.T) {
		client, err := NewClient(context.Background(), "github.company.com", "token")
		require.NoError(t, err)
		require.Equal(t, "https://github.company.com/api/v3/", client.BaseURL.String())
		require.Equal(t, "https://github.company.com/api/uploads/", client.UploadURL.String())
	})
}

func TestToken(t *testing.T) {
	t.Run("prefers the GITHUB_TOKEN environment variable", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")

		token, err := Token(context.Background())
		require.NoError(t, err)
		require.Equal(t, "env-token", token)
	})
}
