package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v62/github"
)

// PagesInfo contains information about a repository's GitHub Pages site.
// This is a simplified struct to avoid coupling to the go-github library.
type PagesInfo struct {
	URL           string
	Status        string // built, building, errored
	CNAME         string
	HTTPSEnforced bool
	BuildStatus   string
	BuildError    string
	BuildCommit   string
}

// PagesStatus fetches the Pages site configuration and the latest build
// for a repository
func PagesStatus(ctx context.Context, client *github.Client, owner, repo string) (*PagesInfo, error) {
	pages, _, err := client.Repositories.GetPagesInfo(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get Pages info for %s/%s: %w", owner, repo, err)
	}

	info := &PagesInfo{
		URL:           pages.GetHTMLURL(),
		Status:        pages.GetStatus(),
		CNAME:         pages.GetCNAME(),
		HTTPSEnforced: pages.GetHTTPSEnforced(),
	}

	// The latest build is informational; a site that has never built yet
	// has none
	build, _, err := client.Repositories.GetLatestPagesBuild(ctx, owner, repo)
	if err == nil && build != nil {
		info.BuildStatus = build.GetStatus()
		info.BuildError = build.GetError().GetMessage()
		info.BuildCommit = build.GetCommit()
	}

	return info, nil
}
