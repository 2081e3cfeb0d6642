package git

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	ghpuberrors "ghpub.dev/ghpub/internal/errors"
)

// Repository wraps a go-git repository for read-side inspection
type Repository struct {
	*gogit.Repository
	root string
}

// Open opens the git repository enclosing dir, walking up to find the .git directory
func Open(dir string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, ghpuberrors.NewNotARepositoryError(dir, err)
		}
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	return &Repository{
		Repository: repo,
		root:       worktree.Filesystem.Root(),
	}, nil
}

// Root returns the root directory of the repository working tree
func (r *Repository) Root() string {
	return r.root
}

// HeadState returns the current branch name and HEAD revision.
// The branch name is empty when HEAD is detached.
func (r *Repository) HeadState() (branch string, revision string, err error) {
	head, err := r.Head()
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve HEAD (the repository may have no commits yet): %w", err)
	}

	revision = head.Hash().String()
	if head.Name().IsBranch() {
		branch = head.Name().Short()
	}
	return branch, revision, nil
}

// LocalBranchExists reports whether a local branch with the given name exists
func (r *Repository) LocalBranchExists(name string) (bool, error) {
	_, err := r.Reference(plumbing.NewBranchReferenceName(name), false)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up branch %s: %w", name, err)
	}
	return true, nil
}

// RemoteURL returns the first configured URL of the named remote
func (r *Repository) RemoteURL(name string) (string, error) {
	remote, err := r.Remote(name)
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return "", ghpuberrors.NewRemoteUnavailableError(name, err)
		}
		return "", fmt.Errorf("failed to look up remote %s: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", ghpuberrors.NewRemoteUnavailableError(name, errors.New("remote has no URL"))
	}
	return urls[0], nil
}
