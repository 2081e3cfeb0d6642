package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ghpuberrors "ghpub.dev/ghpub/internal/errors"
	"ghpub.dev/ghpub/internal/git"
	"ghpub.dev/ghpub/testhelpers"
)

func newSceneEngine(t *testing.T) *git.Engine {
	t.Helper()

	engine, err := git.NewEngine(".")
	require.NoError(t, err)
	return engine
}

func TestNewEngine(t *testing.T) {
	t.Run("fails outside a git repository", func(t *testing.T) {
		_, err := git.NewEngine(t.TempDir())
		require.ErrorIs(t, err, ghpuberrors.ErrNotARepository)
	})

	t.Run("finds the repository root from a subdirectory", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, os.MkdirAll("sub/dir", 0750))

		engine, err := git.NewEngine(filepath.Join("sub", "dir"))
		require.NoError(t, err)

		root, err := filepath.EvalSymlinks(engine.Root())
		require.NoError(t, err)
		want, err := filepath.EvalSymlinks(scene.Dir)
		require.NoError(t, err)
		require.Equal(t, want, root)
	})
}

func TestHeadState(t *testing.T) {
	t.Run("reports the checked out branch and revision", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		branch, revision, err := engine.HeadState()
		require.NoError(t, err)
		require.Equal(t, "main", branch)

		sha, err := scene.Repo.GetRevision("HEAD")
		require.NoError(t, err)
		require.Equal(t, sha, revision)
	})

	t.Run("reports detached HEAD with an empty branch name", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		sha, err := scene.Repo.GetRevision("HEAD")
		require.NoError(t, err)
		require.NoError(t, scene.Repo.CheckoutDetached(sha))

		branch, revision, err := engine.HeadState()
		require.NoError(t, err)
		require.Empty(t, branch)
		require.Equal(t, sha, revision)
	})

	t.Run("fails on a repository with no commits", func(t *testing.T) {
		testhelpers.NewScene(t, nil)
		engine := newSceneEngine(t)

		_, _, err := engine.HeadState()
		require.Error(t, err)
		require.Contains(t, err.Error(), "no commits")
	})
}

func TestBranchExists(t *testing.T) {
	t.Run("distinguishes existing and missing branches", func(t *testing.T) {
		testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		exists, err := engine.BranchExists("main")
		require.NoError(t, err)
		require.True(t, exists)

		exists, err = engine.BranchExists("gh-pages")
		require.NoError(t, err)
		require.False(t, exists)
	})
}

func TestCreateOrphanBranch(t *testing.T) {
	t.Run("starts the branch with an empty index", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		require.NoError(t, engine.CreateOrphanBranch(context.Background(), "gh-pages"))

		branch, err := scene.Repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "gh-pages", branch)

		tracked, err := engine.ListTrackedFiles(context.Background())
		require.NoError(t, err)
		require.Empty(t, tracked)

		// The previous branch's files stay in the working tree, untracked
		require.FileExists(t, filepath.Join(scene.Dir, "readme.md"))
		untracked, err := scene.Repo.HasUntrackedFiles()
		require.NoError(t, err)
		require.True(t, untracked)
	})

	t.Run("allows returning to the previous branch", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		require.NoError(t, engine.CreateOrphanBranch(context.Background(), "gh-pages"))
		require.NoError(t, engine.Checkout(context.Background(), "main"))

		branch, err := scene.Repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "main", branch)

		untracked, err := scene.Repo.HasUntrackedFiles()
		require.NoError(t, err)
		require.False(t, untracked)
	})
}

func TestStage(t *testing.T) {
	t.Run("stages only the given pathspecs", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		require.NoError(t, scene.Repo.CreateChange("a.txt", "a"))
		require.NoError(t, scene.Repo.CreateChange("b.txt", "b"))

		require.NoError(t, engine.Stage(context.Background(), []string{"a.txt"}))

		staged, err := scene.Repo.RunGitCommandAndGetOutput("diff", "--cached", "--name-only")
		require.NoError(t, err)
		require.Equal(t, "a.txt", staged)
	})

	t.Run("stages deletions", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		require.NoError(t, scene.Repo.CreateChangeAndCommit("gone.txt", "soon gone"))
		require.NoError(t, os.Remove(filepath.Join(scene.Dir, "gone.txt")))

		require.NoError(t, engine.Stage(context.Background(), []string{"gone.txt"}))

		hasStaged, err := engine.HasStagedChanges(context.Background())
		require.NoError(t, err)
		require.True(t, hasStaged)
	})

	t.Run("stages files that ignore rules would skip", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		require.NoError(t, scene.Repo.CreateChangeAndCommit(".gitignore", "generated/\n"))
		require.NoError(t, scene.Repo.CreateChange("generated/out.html", "built"))

		require.NoError(t, engine.Stage(context.Background(), []string{"generated/out.html"}))

		staged, err := scene.Repo.RunGitCommandAndGetOutput("diff", "--cached", "--name-only")
		require.NoError(t, err)
		require.Equal(t, "generated/out.html", staged)
	})

	t.Run("does nothing with an empty pathspec list", func(t *testing.T) {
		testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		require.NoError(t, engine.Stage(context.Background(), nil))

		hasStaged, err := engine.HasStagedChanges(context.Background())
		require.NoError(t, err)
		require.False(t, hasStaged)
	})
}

func TestRemoveCached(t *testing.T) {
	t.Run("removes from the index but keeps the file on disk", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		require.NoError(t, scene.Repo.CreateChangeAndCommit("data.txt", "payload"))

		require.NoError(t, engine.RemoveCached(context.Background(), []string{"data.txt"}))

		require.FileExists(t, filepath.Join(scene.Dir, "data.txt"))

		tracked, err := engine.ListTrackedFiles(context.Background())
		require.NoError(t, err)
		require.NotContains(t, tracked, "data.txt")

		hasStaged, err := engine.HasStagedChanges(context.Background())
		require.NoError(t, err)
		require.True(t, hasStaged)
	})
}

func TestUncommittedTrackedChanges(t *testing.T) {
	t.Run("is empty on a clean tree", func(t *testing.T) {
		testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		files, err := engine.UncommittedTrackedChanges(context.Background())
		require.NoError(t, err)
		require.Empty(t, files)
	})

	t.Run("reports modified tracked files", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		require.NoError(t, scene.Repo.CreateChange("readme.md", "edited"))

		files, err := engine.UncommittedTrackedChanges(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{"readme.md"}, files)
	})

	t.Run("ignores untracked files", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		require.NoError(t, scene.Repo.CreateChange("scratch.txt", "notes"))

		files, err := engine.UncommittedTrackedChanges(context.Background())
		require.NoError(t, err)
		require.Empty(t, files)
	})
}

func TestCommit(t *testing.T) {
	t.Run("creates a commit and returns its SHA", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		require.NoError(t, scene.Repo.CreateChange("page.html", "content"))
		require.NoError(t, engine.Stage(context.Background(), []string{"page.html"}))

		sha, err := engine.Commit(context.Background(), "Update gh-pages")
		require.NoError(t, err)

		head, err := scene.Repo.GetRevision("HEAD")
		require.NoError(t, err)
		require.Equal(t, head, sha)

		subject, err := scene.Repo.RunGitCommandAndGetOutput("log", "-1", "--format=%s")
		require.NoError(t, err)
		require.Equal(t, "Update gh-pages", subject)
	})
}

func TestListBranchFiles(t *testing.T) {
	t.Run("lists files on a branch without checking it out", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		require.NoError(t, scene.Repo.CreateChangeAndCommit("sub/nested.txt", "deep"))
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("other"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))

		files, err := engine.ListBranchFiles(context.Background(), "other")
		require.NoError(t, err)
		require.Equal(t, []string{"readme.md", "sub/nested.txt"}, files)
	})
}

func TestPush(t *testing.T) {
	t.Run("creates the remote branch", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		bare, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, scene.Repo.CreateBranch("gh-pages"))

		require.NoError(t, engine.Push(context.Background(), "origin", "gh-pages", false))

		localSHA, err := scene.Repo.GetRevision("gh-pages")
		require.NoError(t, err)
		remoteSHA, err := testhelpers.GetRevisionIn(bare, "gh-pages")
		require.NoError(t, err)
		require.Equal(t, localSHA, remoteSHA)
	})

	t.Run("fails with a push error when no remote is configured", func(t *testing.T) {
		testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		err := engine.Push(context.Background(), "origin", "main", false)
		require.ErrorIs(t, err, ghpuberrors.ErrPushFailed)

		var pushErr *ghpuberrors.PushError
		require.ErrorAs(t, err, &pushErr)
		require.False(t, pushErr.Rejected)
	})
}

func TestRemoteBranchSHA(t *testing.T) {
	t.Run("returns an empty SHA for an absent remote branch", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		_, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)

		sha, err := engine.RemoteBranchSHA(context.Background(), "origin", "gh-pages")
		require.NoError(t, err)
		require.Empty(t, sha)
	})

	t.Run("returns the SHA once the branch is pushed", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		_, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, scene.Repo.PushBranch("origin", "main"))

		sha, err := engine.RemoteBranchSHA(context.Background(), "origin", "main")
		require.NoError(t, err)

		localSHA, err := scene.Repo.GetRevision("main")
		require.NoError(t, err)
		require.Equal(t, localSHA, sha)
	})

	t.Run("fails when the remote is unreachable", func(t *testing.T) {
		testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		_, err := engine.RemoteBranchSHA(context.Background(), "origin", "main")
		require.ErrorIs(t, err, ghpuberrors.ErrPushFailed)
	})
}

func TestCheckoutTracking(t *testing.T) {
	t.Run("creates a local branch from the remote one", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		engine := newSceneEngine(t)

		_, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, scene.Repo.RunGitCommand("push", "origin", "main:gh-pages"))

		require.NoError(t, engine.CheckoutTracking(context.Background(), "origin", "gh-pages"))

		branch, err := scene.Repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "gh-pages", branch)

		sha, err := scene.Repo.GetRevision("gh-pages")
		require.NoError(t, err)
		mainSHA, err := scene.Repo.GetRevision("main")
		require.NoError(t, err)
		require.Equal(t, mainSHA, sha)
	})
}
