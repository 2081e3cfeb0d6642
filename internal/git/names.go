package git

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxRefNameByteLength is the maximum length accepted for a branch name.
	// Git limits ref names to 256 bytes including the refs/heads/ prefix.
	MaxRefNameByteLength = 245
)

// refNameCharsRegex matches names made of the characters git accepts without escaping.
// Valid characters: letters, numbers, -, _, /, .
var refNameCharsRegex = regexp.MustCompile(`^[-_/.a-zA-Z0-9]+$`)

// ValidateBranchName rejects branch names that git would refuse or misparse
func ValidateBranchName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("branch name is empty")
	case name == "HEAD":
		return fmt.Errorf("branch name %q is reserved", name)
	case len(name) > MaxRefNameByteLength:
		return fmt.Errorf("branch name exceeds %d bytes", MaxRefNameByteLength)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("branch name %q must not start with a dash", name)
	case strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") || strings.HasSuffix(name, "."):
		return fmt.Errorf("branch name %q has an invalid leading or trailing character", name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("branch name %q must not contain '..'", name)
	case !refNameCharsRegex.MatchString(name):
		return fmt.Errorf("branch name %q contains invalid characters", name)
	}
	return nil
}

// ValidateRemoteName rejects remote names that git would refuse or misparse
func ValidateRemoteName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("remote name is empty")
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("remote name %q must not start with a dash", name)
	case !refNameCharsRegex.MatchString(name):
		return fmt.Errorf("remote name %q contains invalid characters", name)
	}
	return nil
}
