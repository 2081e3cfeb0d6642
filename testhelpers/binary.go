package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	sharedBinaryPath string
	sharedBinaryDir  string
	binaryOnce       sync.Once
	binaryErr        error
)

// GetSharedBinaryPath returns the path of the ghpub binary, building it on
// first access. Safe to call from any test package.
func GetSharedBinaryPath() string {
	binaryOnce.Do(func() {
		sharedBinaryPath, sharedBinaryDir, binaryErr = buildBinary()
	})
	return sharedBinaryPath
}

// GetBinaryError returns any error from building the shared binary
func GetBinaryError() error {
	return binaryErr
}

// TestMain builds the ghpub binary once before running a package's tests.
// Packages use it by calling testhelpers.TestMain(m) from their own TestMain.
func TestMain(m *testing.M) {
	if GetSharedBinaryPath() == "" {
		fmt.Fprintf(os.Stderr, "failed to build ghpub binary: %v\n", binaryErr)
		os.Exit(1)
	}

	code := m.Run()

	if sharedBinaryDir != "" {
		_ = os.RemoveAll(sharedBinaryDir)
	}
	os.Exit(code)
}

// buildBinary compiles cmd/ghpub into a temp directory and returns the
// binary path and the directory to clean up
func buildBinary() (string, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", "", fmt.Errorf("failed to get working directory: %w", err)
	}

	moduleRoot := findModuleRoot(wd)
	if moduleRoot == "" {
		return "", "", fmt.Errorf("could not find module root (go.mod) starting from %s", wd)
	}

	tmpDir, err := os.MkdirTemp("", "ghpub-test-binary-*")
	if err != nil {
		return "", "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "ghpub")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/ghpub")
	cmd.Dir = moduleRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("failed to build: %s: %w", string(output), err)
	}

	return binaryPath, tmpDir, nil
}

// findModuleRoot walks up from startDir to the directory containing go.mod
func findModuleRoot(startDir string) string {
	dir := startDir
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
