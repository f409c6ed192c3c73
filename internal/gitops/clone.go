// Copyright © 2026 SATVI Lab
// Git cloning via go-git

package gitops

import (
	"fmt"
	"io"
	"os"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// Clone clones a repository into the configured destination. An explicit
// branch produces a single-branch clone unless the config disables it; no
// branch clones the remote's default branch in full.
func Clone(config *CloneConfig) error {
	if config == nil {
		return fmt.Errorf("clone config is nil")
	}
	if config.Progress == nil {
		config.Progress = io.Discard
	}

	cloneURL, err := CloneURL(config.Spec)
	if err != nil {
		return err
	}

	if config.Verbose {
		fmt.Fprintf(config.Progress, "Cloning %s into %s...\n", cloneURL, config.Destination)
	}

	cloneOpts := &gogit.CloneOptions{
		URL:      cloneURL,
		Progress: nil,
		Auth:     cloneAuth(cloneURL, config.Token),
	}

	if config.Verbose {
		cloneOpts.Progress = config.Progress
	}

	if config.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(config.Branch)
		cloneOpts.SingleBranch = config.SingleBranch
	}

	_, err = gogit.PlainClone(config.Destination, false, cloneOpts)
	if err != nil {
		// Clean up partial clone on failure
		_ = os.RemoveAll(config.Destination)
		return fmt.Errorf("failed to clone %s: %w", cloneURL, err)
	}

	return nil
}

// cloneAuth returns basic auth for https URLs when a token is available.
func cloneAuth(cloneURL, token string) transport.AuthMethod {
	if token == "" || !strings.HasPrefix(cloneURL, "http") {
		return nil
	}
	return &githttp.BasicAuth{
		Username: "x-access-token",
		Password: token,
	}
}
