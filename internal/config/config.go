// Package config manages the optional .ghpub.toml file at the repository root.
// Every field has a convention default, so the file is only needed to override them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the name of the configuration file at the repository root
const FileName = ".ghpub.toml"

// Convention defaults applied when no file or flag overrides them
const (
	DefaultSource = "dist"
	DefaultBranch = "gh-pages"
	DefaultRemote = "origin"
)

// Config represents the publish configuration
type Config struct {
	Source   string `toml:"source,omitempty"`
	Branch   string `toml:"branch,omitempty"`
	Remote   string `toml:"remote,omitempty"`
	Message  string `toml:"message,omitempty"`
	Force    bool   `toml:"force,omitempty"`
	NoJekyll bool   `toml:"nojekyll,omitempty"`
	CNAME    string `toml:"cname,omitempty"`
}

// Defaults returns the built-in conventions
func Defaults() Config {
	return Config{
		Source: DefaultSource,
		Branch: DefaultBranch,
		Remote: DefaultRemote,
	}
}

// Load reads the configuration file under repoRoot, overlaying it on the
// defaults. A missing file is not an error and yields the defaults.
func Load(repoRoot string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(filepath.Join(repoRoot, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return cfg, fmt.Errorf("unrecognized keys in %s:\n%s", FileName, strictErr.String())
		}
		return cfg, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return cfg, nil
}

// Save writes the configuration file under repoRoot
func (c Config) Save(repoRoot string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(filepath.Join(repoRoot, FileName), data, 0644)
}

// CommitMessage returns the configured message, or the conventional
// "Update <branch>" when none is set
func (c Config) CommitMessage() string {
	if c.Message != "" {
		return c.Message
	}
	return "Update " + c.Branch
}
