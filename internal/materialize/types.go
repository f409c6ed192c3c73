// Copyright © 2026 SATVI Lab
// Materializer types and result accounting

package materialize

import (
	"io"

	"github.com/SATVILab/comptools/internal/plan"
)

// Actions taken per record
const (
	ActionClone    = "clone"
	ActionWorktree = "worktree"
	ActionNoop     = "no-op"
	ActionDryRun   = "dry-run"
	ActionFailed   = "failed"
)

// OnExisting policies for clone targets that already exist on a different
// branch than the list requests
const (
	ExistingIgnore = "ignore" // silent no-op (historical behavior)
	ExistingWarn   = "warn"   // no-op plus a warning line
	ExistingSwitch = "switch" // check out the requested branch
	ExistingFail   = "fail"   // record-level failure
)

// Config configures a materialization run
type Config struct {
	DryRun     bool      // print intended actions, touch nothing
	Verbose    bool      // enable verbose progress output
	OnExisting string    // policy for existing clones, defaults to ExistingIgnore
	Token      string    // optional https auth token for clones
	Progress   io.Writer // status output (optional, defaults to io.Discard)
	Debug      io.Writer // step tracing output (optional)
}

// StepResult records what happened to a single step
type StepResult struct {
	Step   plan.Step
	Action string
	Err    error
	Note   string // extra context, e.g. a branch mismatch warning
}

// Result contains the complete materialization outcome
type Result struct {
	Steps     []StepResult
	Cloned    int
	Worktrees int
	Noops     int
	Failed    int
}

// add appends a step result and updates the counters
func (r *Result) add(sr StepResult) {
	r.Steps = append(r.Steps, sr)
	switch {
	case sr.Err != nil:
		r.Failed++
	case sr.Action == ActionClone:
		r.Cloned++
	case sr.Action == ActionWorktree:
		r.Worktrees++
	default:
		r.Noops++
	}
}

// Ok reports whether every record materialized without error.
func (r *Result) Ok() bool {
	return r.Failed == 0
}
