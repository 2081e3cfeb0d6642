package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("returns defaults when no file exists", func(t *testing.T) {
		t.Parallel()

		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		require.Equal(t, "dist", cfg.Source)
		require.Equal(t, "gh-pages", cfg.Branch)
		require.Equal(t, "origin", cfg.Remote)
		require.Empty(t, cfg.Message)
		require.False(t, cfg.NoJekyll)
	})

	t.Run("overlays the file on the defaults", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		content := "source = \"public\"\nnojekyll = true\ncname = \"docs.example.com\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

		cfg, err := Load(dir)
		require.NoError(t, err)
		require.Equal(t, "public", cfg.Source)
		require.True(t, cfg.NoJekyll)
		require.Equal(t, "docs.example.com", cfg.CNAME)

		// Unset keys keep their defaults
		require.Equal(t, "gh-pages", cfg.Branch)
		require.Equal(t, "origin", cfg.Remote)
	})

	t.Run("rejects unrecognized keys", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("brnach = \"typo\"\n"), 0644))

		_, err := Load(dir)
		require.Error(t, err)
		require.Contains(t, err.Error(), "unrecognized keys")
	})

	t.Run("rejects malformed toml", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("source = [unclosed\n"), 0644))

		_, err := Load(dir)
		require.Error(t, err)
	})
}

func TestSave(t *testing.T) {
	t.Parallel()

	t.Run("round trips through the file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := Defaults()
		cfg.Source = "public"
		cfg.Message = "publish site"
		require.NoError(t, cfg.Save(dir))

		loaded, err := Load(dir)
		require.NoError(t, err)
		require.Equal(t, cfg, loaded)
	})
}

func TestCommitMessage(t *testing.T) {
	t.Parallel()

	t.Run("falls back to the conventional subject", func(t *testing.T) {
		t.Parallel()

		cfg := Defaults()
		require.Equal(t, "Update gh-pages", cfg.CommitMessage())
	})

	t.Run("prefers the configured message", func(t *testing.T) {
		t.Parallel()

		cfg := Defaults()
		cfg.Message = "deploy docs"
		require.Equal(t, "deploy docs", cfg.CommitMessage())
	})
}
