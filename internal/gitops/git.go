// Copyright © 2026 SATVI Lab
// Worktree and repository inspection via the git binary
// (go-git has no linked-worktree support)

package gitops

import (
	"fmt"
	"os/exec"
	"strings"
)

// git runs a git command in the specified directory and returns stdout
func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	text := strings.TrimSpace(string(out))
	if err != nil {
		if text != "" {
			return text, fmt.Errorf("git %s: %s", strings.Join(args, " "), text)
		}
		return text, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return text, nil
}

// IsRepo checks if a directory is (part of) a git repository
func IsRepo(path string) bool {
	_, err := git(path, "rev-parse", "--git-dir")
	return err == nil
}

// CurrentBranch returns the checked-out branch name, or "" if detached or
// not a repository
func CurrentBranch(path string) string {
	branch, err := git(path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return ""
	}
	return branch
}

// HasLocalBranch checks whether a branch exists in the repository at path
func HasLocalBranch(path, branch string) bool {
	_, err := git(path, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

// SwitchBranch checks out an existing branch in the repository at path
func SwitchBranch(path, branch string) error {
	_, err := git(path, "checkout", branch)
	return err
}

// RemoteURL returns the origin remote URL of the repository at path
func RemoteURL(path string) (string, error) {
	return git(path, "remote", "get-url", "origin")
}

// AddWorktree creates a linked worktree of the repository at repoPath,
// checked out to branch. The branch is used as-is when it already exists
// (locally or as a lone remote-tracking ref); otherwise it is created.
// Returns whether a new branch was created.
func AddWorktree(repoPath, worktreePath, branch string) (bool, error) {
	if _, err := git(repoPath, "worktree", "add", worktreePath, branch); err == nil {
		return false, nil
	}
	if _, err := git(repoPath, "worktree", "add", "-b", branch, worktreePath); err != nil {
		return false, fmt.Errorf("failed to add worktree at %s: %w", worktreePath, err)
	}
	return true, nil
}

// PushUpstream pushes a branch to origin with upstream tracking. Used after
// a worktree created a branch that does not exist upstream yet.
func PushUpstream(dir, branch string) error {
	_, err := git(dir, "push", "--set-upstream", "origin", branch)
	return err
}
