// Copyright © 2026 SATVI Lab
// Git operation types and URL handling

package gitops

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// TokenEnvVar is the environment variable probed for an access token used
// to authenticate https clones of private repositories.
const TokenEnvVar = "GITHUB_TOKEN"

// shortSpecPattern matches bare owner/repo specs
var shortSpecPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// CloneConfig holds configuration for cloning one repository
type CloneConfig struct {
	Spec         string    // owner/repo, https URL, or ssh URL
	Destination  string    // target directory
	Branch       string    // explicit ref; empty clones the default branch
	SingleBranch bool      // restrict history to the requested ref
	Token        string    // optional https auth token
	Verbose      bool      // enable clone progress output
	Progress     io.Writer // progress output (optional, defaults to io.Discard)
}

// CloneURL normalizes a repository spec to a cloneable URL. Bare owner/repo
// specs become https GitHub URLs; full https and ssh URLs pass through.
func CloneURL(spec string) (string, error) {
	if strings.Contains(spec, "://") || strings.Contains(spec, "@") {
		return spec, nil
	}
	if shortSpecPattern.MatchString(spec) {
		return fmt.Sprintf("https://github.com/%s.git", strings.TrimSuffix(spec, ".git")), nil
	}
	return "", fmt.Errorf("invalid repository spec: %s", spec)
}
