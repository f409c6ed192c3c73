// Copyright © 2026 SATVI Lab
// Two-pass planning: count references, then resolve paths

package plan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/SATVILab/comptools/internal/repolist"
)

// CountRefs performs the first planning pass: a pure forward reduction over
// the records that counts, per repository name, how many records resolve
// against it. No filesystem or network I/O happens here; the table must be
// complete before any path is resolved, because disambiguation depends on
// total counts, not prefix counts.
func CountRefs(records []repolist.Record, anchor string) RefCounts {
	counts := make(RefCounts)
	cursor := Cursor(anchor)
	for _, rec := range records {
		counts[refName(rec, cursor)]++
		cursor = cursor.Advance(rec)
	}
	return counts
}

// refName returns the repository name a record references: its own name for
// clones, the current fallback for worktrees.
func refName(rec repolist.Record, cursor Cursor) string {
	if rec.Kind == repolist.KindClone {
		return rec.RepoName()
	}
	return string(cursor)
}

// Resolve computes the filesystem location for one record. listDir is the
// absolute path of the directory holding the list file; all targets land one
// level below its parent. Precedence: explicit target dir, then branch
// suffix (always for worktrees, for clones only when the name is referenced
// more than once), then the bare repository name.
func Resolve(rec repolist.Record, counts RefCounts, cursor Cursor, listDir string) (Resolved, error) {
	parentDir := filepath.Dir(listDir)
	name := refName(rec, cursor)

	var dir string
	switch {
	case rec.TargetDir != "":
		dir = rec.TargetDir
	case rec.Kind == repolist.KindWorktree:
		if name == "" {
			return Resolved{}, fmt.Errorf("line %d: no fallback repository for @%s", rec.Line, rec.Branch)
		}
		dir = name + "-" + SanitizeBranch(rec.Branch)
	case rec.Branch != "" && counts[name] > 1:
		dir = name + "-" + SanitizeBranch(rec.Branch)
	default:
		dir = name
	}

	abs := filepath.Clean(filepath.Join(parentDir, dir))

	rel, err := filepath.Rel(listDir, abs)
	if err != nil {
		// Targets always sit one level below the list file's parent, so the
		// manual form is exact.
		rel = filepath.Join("..", filepath.Base(abs))
	}
	if abs == filepath.Clean(listDir) {
		rel = "."
	}

	return Resolved{
		Abs:    abs,
		Rel:    filepath.ToSlash(rel),
		Repo:   name,
		Branch: rec.Branch,
	}, nil
}

// Build runs both planning passes over an in-memory record list and returns
// the ordered steps for materialization. anchor is the name of the
// repository holding the list file; listDir its absolute path. Records that
// fail to resolve are dropped with an error entry in the returned slice of
// problems.
func Build(records []repolist.Record, anchor, listDir string) ([]Step, RefCounts, []error) {
	counts := CountRefs(records, anchor)

	var steps []Step
	var problems []error

	cursor := Cursor(anchor)
	fallbackPath := filepath.Clean(listDir)
	for _, rec := range records {
		resolved, err := Resolve(rec, counts, cursor, listDir)
		if err != nil {
			problems = append(problems, err)
			cursor = cursor.Advance(rec)
			continue
		}

		steps = append(steps, Step{
			Record:       rec,
			Resolved:     resolved,
			Fallback:     string(cursor),
			FallbackPath: fallbackPath,
		})

		cursor = cursor.Advance(rec)
		if rec.Kind == repolist.KindClone {
			fallbackPath = resolved.Abs
		}
	}

	return steps, counts, problems
}

// WorkspacePaths returns the ordered relative path list for the workspace
// descriptor: the anchor entry "." followed by every resolved path in list
// order. Duplicates pass through unfiltered.
func WorkspacePaths(steps []Step) []string {
	paths := make([]string, 0, len(steps)+1)
	paths = append(paths, ".")
	for _, step := range steps {
		paths = append(paths, step.Resolved.Rel)
	}
	return paths
}

// SanitizeBranch makes a branch name safe to use as a directory name suffix
// by replacing path separators with dashes.
func SanitizeBranch(branch string) string {
	return strings.ReplaceAll(branch, "/", "-")
}
