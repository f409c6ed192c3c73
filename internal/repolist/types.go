// Copyright © 2026 SATVI Lab
// Repository list types and constants

package repolist

import (
	"path"
	"strings"
)

// Record kind constants
const (
	KindClone    = "clone"
	KindWorktree = "worktree"
)

// Default list file names, probed in order
var DefaultFileNames = []string{"repos.list", "repos-to-clone.list"}

// Record is one parsed line of the repository list.
// Exactly one of the following holds:
//   - Kind == KindClone and RepoSpec is set (Branch optional)
//   - Kind == KindWorktree and Branch is set with no RepoSpec
type Record struct {
	Kind        string
	RepoSpec    string // owner/repo, https URL, or ssh URL (clone records only)
	Branch      string // explicit ref for clones; the branch to check out for worktrees
	TargetDir   string // explicit directory name override
	AllBranches bool   // -a/--all-branches: full clone even with an explicit ref
	NoWorktree  bool   // -n/--no-worktree: separate clone instead of a linked worktree
	Line        int    // 1-based line number in the list file
}

// Diagnostic describes a line that could not be parsed into a Record.
// Malformed lines are dropped, not fatal.
type Diagnostic struct {
	Line   int
	Text   string
	Reason string
}

// RepoName returns the bare repository name a record refers to: the
// basename of the repo spec with any path prefix and .git suffix stripped.
// Worktree records have no spec of their own and return "".
func (r Record) RepoName() string {
	if r.RepoSpec == "" {
		return ""
	}
	spec := r.RepoSpec

	// ssh specs use ':' as the path separator (git@github.com:owner/repo.git)
	if i := strings.LastIndex(spec, ":"); i >= 0 && !strings.Contains(spec[i:], "/") {
		spec = spec[i+1:]
	}

	name := path.Base(spec)
	return strings.TrimSuffix(name, ".git")
}

// IsWorktree reports whether the record is a bare branch reference.
func (r Record) IsWorktree() bool {
	return r.Kind == KindWorktree
}
