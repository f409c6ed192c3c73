// Copyright © 2026 SATVI Lab
// Planning types: fallback cursor, reference counts, resolved paths

package plan

import (
	"github.com/SATVILab/comptools/internal/repolist"
)

// Cursor is the fallback repository cursor: the repository that bare
// @branch lines resolve against. It is threaded through both planning
// passes as an explicit value, never as ambient mutable state.
type Cursor string

// Advance returns the cursor after consuming a record. Clone records move
// the cursor to their repository name unconditionally; worktree records
// leave it unchanged. The rule depends only on record kind and order, so
// both passes compute identical progressions.
func (c Cursor) Advance(rec repolist.Record) Cursor {
	if rec.Kind == repolist.KindClone {
		return Cursor(rec.RepoName())
	}
	return c
}

// RefCounts is the disambiguation table: how many records reference each
// repository name. Worktree records count toward their fallback's name.
type RefCounts map[string]int

// Resolved is the filesystem location a record maps to.
type Resolved struct {
	Abs    string // absolute path of the target directory
	Rel    string // path relative to the directory holding the list file
	Repo   string // repository name the record resolved against
	Branch string // requested branch, if any
}

// Step pairs a record with its resolved location and the fallback context
// in effect when the record was reached.
type Step struct {
	Record       repolist.Record
	Resolved     Resolved
	Fallback     string // fallback repository name (worktrees attach to this)
	FallbackPath string // on-disk path of the fallback repository
}
