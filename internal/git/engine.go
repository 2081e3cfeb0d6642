package git

// Engine bundles the shell-out runner and the go-git read side for one repository.
// All mutating operations run the system git binary; inspection goes through go-git.
type Engine struct {
	runner *CommandRunner
	repo   *Repository
}

// NewEngine opens the repository enclosing dir and returns an engine bound to its root
func NewEngine(dir string) (*Engine, error) {
	repo, err := Open(dir)
	if err != nil {
		return nil, err
	}

	return &Engine{
		runner: NewCommandRunner(repo.Root()),
		repo:   repo,
	}, nil
}

// Root returns the root directory of the repository working tree
func (e *Engine) Root() string {
	return e.repo.Root()
}

// HeadState returns the current branch name (empty when detached) and HEAD revision
func (e *Engine) HeadState() (branch string, revision string, err error) {
	return e.repo.HeadState()
}

// BranchExists reports whether a local branch with the given name exists
func (e *Engine) BranchExists(name string) (bool, error) {
	return e.repo.LocalBranchExists(name)
}

// RemoteURL returns the first configured URL of the named remote
func (e *Engine) RemoteURL(name string) (string, error) {
	return e.repo.RemoteURL(name)
}
