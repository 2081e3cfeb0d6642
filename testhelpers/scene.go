package testhelpers

import (
	"os"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository
type Scene struct {
	Dir    string
	Repo   *GitRepo
	oldDir string
}

// SceneSetup is a function type for setting up a scene
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and Git
// repository. It automatically handles cleanup using t.Cleanup().
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "ghpub-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	// Save current directory
	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	// Initialize Git repository
	repo, err := NewGitRepo(tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:    tmpDir,
		Repo:   repo,
		oldDir: oldDir,
	}

	// Change to temp directory
	if err := os.Chdir(tmpDir); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to change directory: %v", err)
	}

	// Run custom setup if provided
	if setup != nil {
		if err := setup(scene); err != nil {
			os.Chdir(oldDir)
			os.RemoveAll(tmpDir)
			t.Fatalf("Setup failed: %v", err)
		}
	}

	// Register cleanup
	t.Cleanup(func() {
		os.Chdir(oldDir)
		if os.Getenv("DEBUG") == "" {
			os.RemoveAll(tmpDir)
		}
	})

	return scene
}

// BasicSceneSetup creates a scene with a single commit on main
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("readme.md", "hello")
}

// PublishSceneSetup creates a scene with a commit on main, a dist directory
// with a small site, and a bare remote named origin
func PublishSceneSetup(scene *Scene) error {
	if err := BasicSceneSetup(scene); err != nil {
		return err
	}
	if err := scene.Repo.WriteDist("dist", map[string]string{
		"index.html": "<h1>hello</h1>",
	}); err != nil {
		return err
	}
	_, err := scene.Repo.CreateBareRemote("origin")
	return err
}
