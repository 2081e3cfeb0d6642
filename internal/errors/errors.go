// Package errors provides sentinel errors and custom error types for the ghpub application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the publish failure categories
var (
	// ErrNotARepository indicates that the current directory is not inside a git working tree
	ErrNotARepository = errors.New("not a git repository")

	// ErrMissingBuildOutput indicates that the build output directory is absent or empty
	ErrMissingBuildOutput = errors.New("missing build output")

	// ErrBranchOperation indicates that a local branch or working tree operation failed
	ErrBranchOperation = errors.New("branch operation failed")

	// ErrPushFailed indicates that the remote could not be updated or reached
	ErrPushFailed = errors.New("push failed")
)

// NotARepositoryError represents an error when no git repository encloses a directory
type NotARepositoryError struct {
	Dir string
	Err error
}

func (e *NotARepositoryError) Error() string {
	return fmt.Sprintf("%s is not inside a git repository", e.Dir)
}

// Is returns true if the target error is ErrNotARepository
func (e *NotARepositoryError) Is(target error) bool {
	return target == ErrNotARepository
}

func (e *NotARepositoryError) Unwrap() error {
	return e.Err
}

// NewNotARepositoryError creates a new NotARepositoryError
func NewNotARepositoryError(dir string, err error) *NotARepositoryError {
	return &NotARepositoryError{Dir: dir, Err: err}
}

// MissingBuildOutputError represents an error when the build output directory is absent or empty
type MissingBuildOutputError struct {
	Path   string
	Reason string
}

func (e *MissingBuildOutputError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("build output %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("build output %s does not exist", e.Path)
}

// Is returns true if the target error is ErrMissingBuildOutput
func (e *MissingBuildOutputError) Is(target error) bool {
	return target == ErrMissingBuildOutput
}

// NewMissingBuildOutputError creates a new MissingBuildOutputError
func NewMissingBuildOutputError(path string, reason string) *MissingBuildOutputError {
	return &MissingBuildOutputError{Path: path, Reason: reason}
}

// BranchOperationError represents a failed branch or working tree operation
type BranchOperationError struct {
	Branch string
	Op     string
	Err    error
}

func (e *BranchOperationError) Error() string {
	if e.Branch != "" {
		return fmt.Sprintf("failed to %s for branch %s: %v", e.Op, e.Branch, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

// Is returns true if the target error is ErrBranchOperation
func (e *BranchOperationError) Is(target error) bool {
	return target == ErrBranchOperation
}

func (e *BranchOperationError) Unwrap() error {
	return e.Err
}

// NewBranchOperationError creates a new BranchOperationError
func NewBranchOperationError(branch string, op string, err error) *BranchOperationError {
	return &BranchOperationError{Branch: branch, Op: op, Err: err}
}

// DirtyWorktreeError represents an error when tracked files have uncommitted changes
type DirtyWorktreeError struct {
	Files []string
}

func (e *DirtyWorktreeError) Error() string {
	if len(e.Files) == 0 {
		return "working tree has uncommitted changes to tracked files"
	}
	return fmt.Sprintf("working tree has uncommitted changes to tracked files: %s", strings.Join(e.Files, ", "))
}

// Is returns true if the target error is ErrBranchOperation
func (e *DirtyWorktreeError) Is(target error) bool {
	return target == ErrBranchOperation
}

// NewDirtyWorktreeError creates a new DirtyWorktreeError
func NewDirtyWorktreeError(files []string) *DirtyWorktreeError {
	return &DirtyWorktreeError{Files: files}
}

// PushError represents an error pushing the published branch to the remote
type PushError struct {
	Remote   string
	Branch   string
	Rejected bool
	Err      error
}

func (e *PushError) Error() string {
	if e.Rejected {
		return fmt.Sprintf("push of %s to %s rejected because the remote branch has advanced. Re-run with --force to overwrite it: %v", e.Branch, e.Remote, e.Err)
	}
	return fmt.Sprintf("failed to push %s to %s: %v", e.Branch, e.Remote, e.Err)
}

// Is returns true if the target error is ErrPushFailed
func (e *PushError) Is(target error) bool {
	return target == ErrPushFailed
}

func (e *PushError) Unwrap() error {
	return e.Err
}

// NewPushError creates a new PushError
func NewPushError(remote string, branch string, rejected bool, err error) *PushError {
	return &PushError{Remote: remote, Branch: branch, Rejected: rejected, Err: err}
}

// RemoteUnavailableError represents an error reaching or resolving the configured remote
type RemoteUnavailableError struct {
	Remote string
	Err    error
}

func (e *RemoteUnavailableError) Error() string {
	return fmt.Sprintf("remote %s is unavailable: %v", e.Remote, e.Err)
}

// Is returns true if the target error is ErrPushFailed
func (e *RemoteUnavailableError) Is(target error) bool {
	return target == ErrPushFailed
}

func (e *RemoteUnavailableError) Unwrap() error {
	return e.Err
}

// NewRemoteUnavailableError creates a new RemoteUnavailableError
func NewRemoteUnavailableError(remote string, err error) *RemoteUnavailableError {
	return &RemoteUnavailableError{Remote: remote, Err: err}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
