package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// RepoInfo contains parsed information from a git remote URL
type RepoInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// ParseRemoteURL parses a git remote URL and extracts hostname, owner, and repo.
// Supports both github.com and GitHub Enterprise URLs:
//   - https://github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//   - https://github.company.com/owner/repo.git
func ParseRemoteURL(remoteURL string) (*RepoInfo, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	remoteURL = strings.TrimSuffix(remoteURL, ".git")

	var hostname, owner, repo string

	if strings.Contains(remoteURL, "@") {
		// SSH format: git@hostname:owner/repo or ssh://git@hostname/owner/repo
		parts := strings.SplitN(remoteURL, "@", 2)
		hostAndPath := parts[1]

		var path string
		if strings.Contains(hostAndPath, ":") {
			hostPathParts := strings.SplitN(hostAndPath, ":", 2)
			hostname = hostPathParts[0]
			path = hostPathParts[1]
		} else {
			pathParts := strings.SplitN(hostAndPath, "/", 2)
			if len(pathParts) < 2 {
				return nil, fmt.Errorf("invalid SSH remote URL: missing path")
			}
			hostname = pathParts[0]
			path = pathParts[1]
		}

		pathParts := strings.Split(strings.Trim(path, "/"), "/")
		if len(pathParts) < 2 {
			return nil, fmt.Errorf("invalid SSH remote URL: path must be owner/repo")
		}
		owner = pathParts[len(pathParts)-2]
		repo = pathParts[len(pathParts)-1]
	} else {
		// HTTPS format: https://hostname/owner/repo
		remoteURL = strings.TrimPrefix(remoteURL, "https://")
		remoteURL = strings.TrimPrefix(remoteURL, "http://")

		parts := strings.Split(strings.Trim(remoteURL, "/"), "/")
		if len(parts) < 3 {
			return nil, fmt.Errorf("invalid HTTPS remote URL: must be protocol://hostname/owner/repo")
		}

		hostname = parts[0]
		owner = parts[len(parts)-2]
		repo = parts[len(parts)-1]
	}

	if hostname == "" || owner == "" || repo == "" {
		return nil, fmt.Errorf("failed to parse hostname, owner, or repo from remote URL")
	}

	return &RepoInfo{
		Hostname: hostname,
		Owner:    owner,
		Repo:     repo,
	}, nil
}

// NewClient creates a GitHub client configured for the given hostname.
// Supports both github.com and GitHub Enterprise instances.
func NewClient(ctx context.Context, hostname, token string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	if hostname != "" && hostname != "github.com" {
		// GitHub Enterprise API endpoints
		baseURL, err := url.Parse(fmt.Sprintf("https://%s/api/v3/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL for hostname %s: %w", hostname, err)
		}
		uploadURL, err := url.Parse(fmt.Sprintf("https://%s/api/uploads/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse upload URL for hostname %s: %w", hostname, err)
		}

		client.BaseURL = baseURL
		client.UploadURL = uploadURL
	}

	return client, nil
}
