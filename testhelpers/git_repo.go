package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitRepo represents a Git repository for testing purposes
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new Git repository in the specified directory using 'git init'
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{Dir: dir}

	// Initialize new repository with optimized config
	// Use git -c flags to avoid reading global config and set local configs
	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "-c", "core.fileMode=false", "init", dir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}

	// Configure Git user (required for commits)
	if err := repo.runGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.runGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}

	return repo, nil
}

// runGitCommand executes a git command in the repository directory.
// Uses GIT_CONFIG_GLOBAL=/dev/null to avoid reading global config for faster operations.
func (r *GitRepo) runGitCommand(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if os.Getenv("DEBUG") == "" {
		cmd.Stdout = nil
		cmd.Stderr = nil
	}
	return cmd.Run()
}

// RunGitCommand executes a git command and returns an error if it fails
func (r *GitRepo) RunGitCommand(args ...string) error {
	return r.runGitCommand(args...)
}

// runGitCommandAndGetOutput executes a git command and returns its trimmed output
func (r *GitRepo) runGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git command failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// RunGitCommandAndGetOutput executes a git command and returns its output
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	return r.runGitCommandAndGetOutput(args...)
}

// CreateChange writes a file in the repository working tree without staging it
func (r *GitRepo) CreateChange(fileName string, content string) error {
	filePath := filepath.Join(r.Dir, filepath.FromSlash(fileName))

	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// CreateChangeAndCommit writes a file, stages everything, and commits
func (r *GitRepo) CreateChangeAndCommit(fileName string, content string) error {
	if err := r.CreateChange(fileName, content); err != nil {
		return err
	}
	if err := r.runGitCommand("add", "."); err != nil {
		return err
	}
	return r.runGitCommand("commit", "-m", "add "+fileName)
}

// WriteDist writes the given files below a directory, creating parents as
// needed. Keys are slash-separated paths relative to the directory.
func (r *GitRepo) WriteDist(dir string, files map[string]string) error {
	for name, content := range files {
		if err := r.CreateChange(dir+"/"+name, content); err != nil {
			return err
		}
	}
	return nil
}

// CreateBranch creates a new branch without checking it out
func (r *GitRepo) CreateBranch(name string) error {
	return r.runGitCommand("branch", name)
}

// CreateAndCheckoutBranch creates and checks out a new branch
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.runGitCommand("checkout", "-b", name)
}

// CheckoutBranch checks out a branch
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.runGitCommand("checkout", name)
}

// CheckoutDetached checks out a revision in detached HEAD state
func (r *GitRepo) CheckoutDetached(rev string) error {
	return r.runGitCommand("checkout", "--detach", rev)
}

// DeleteBranch deletes a branch
func (r *GitRepo) DeleteBranch(name string) error {
	return r.runGitCommand("branch", "-D", name)
}

// CurrentBranchName returns the name of the current branch
func (r *GitRepo) CurrentBranchName() (string, error) {
	return r.runGitCommandAndGetOutput("branch", "--show-current")
}

// GetRevision returns the SHA of a revision (branch, tag, or commit reference)
func (r *GitRepo) GetRevision(rev string) (string, error) {
	return r.runGitCommandAndGetOutput("rev-parse", rev)
}

// GetLocalBranches returns a list of all local branches
func (r *GitRepo) GetLocalBranches() ([]string, error) {
	output, err := r.runGitCommandAndGetOutput("branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// CommitCount returns the number of commits reachable from a revision
func (r *GitRepo) CommitCount(rev string) (int, error) {
	output, err := r.runGitCommandAndGetOutput("rev-list", "--count", rev)
	if err != nil {
		return 0, err
	}
	var count int
	if _, err := fmt.Sscanf(output, "%d", &count); err != nil {
		return 0, fmt.Errorf("failed to parse commit count: %w", err)
	}
	return count, nil
}

// TrackedFilesOn returns the paths tracked on a branch, sorted by git
func (r *GitRepo) TrackedFilesOn(branch string) ([]string, error) {
	output, err := r.runGitCommandAndGetOutput("ls-tree", "-r", "--name-only", branch)
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// ReadFileOn returns the content of a file as committed on a branch
func (r *GitRepo) ReadFileOn(branch string, path string) (string, error) {
	cmd := exec.Command("git", "show", branch+":"+path)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git show failed for %s:%s: %w", branch, path, err)
	}
	return string(output), nil
}

// HasUnstagedChanges checks if there are unstaged changes to tracked files
func (r *GitRepo) HasUnstagedChanges() (bool, error) {
	output, err := r.runGitCommandAndGetOutput("diff", "--name-only")
	if err != nil {
		return false, err
	}
	return output != "", nil
}

// HasUntrackedFiles checks if there are untracked files
func (r *GitRepo) HasUntrackedFiles() (bool, error) {
	output, err := r.runGitCommandAndGetOutput("ls-files", "--others", "--exclude-standard")
	if err != nil {
		return false, err
	}
	return output != "", nil
}

// CreateBareRemote creates a bare git repository to act as a remote.
// Returns the path to the bare repository.
func (r *GitRepo) CreateBareRemote(name string) (string, error) {
	// Create bare repo as a sibling directory with a unique name based on the repo dir
	// This ensures each test gets its own unique remote
	bareDir := r.Dir + "-" + name + ".git"

	cmd := exec.Command("git", "init", "--bare", bareDir)
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to create bare repo: %w", err)
	}

	// Add as remote
	if err := r.runGitCommand("remote", "add", name, bareDir); err != nil {
		return "", fmt.Errorf("failed to add remote: %w", err)
	}

	return bareDir, nil
}

// PushBranch pushes a branch to a remote
func (r *GitRepo) PushBranch(remote, branch string) error {
	cmd := exec.Command("git", "push", "-u", remote, branch)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("push failed: %w, output: %s", err, string(output))
	}
	return nil
}

// DeleteRemoteBranch deletes a branch on a remote
func (r *GitRepo) DeleteRemoteBranch(remote, branch string) error {
	return r.runGitCommand("push", remote, "--delete", branch)
}

// GetRevisionIn returns the SHA of a revision in another repository
// directory, typically a bare remote
func GetRevisionIn(dir string, rev string) (string, error) {
	cmd := exec.Command("git", "rev-parse", rev)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed in %s: %w", dir, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// splitLines splits a string by newlines and returns non-empty lines
func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
