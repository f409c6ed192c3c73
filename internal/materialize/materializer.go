// Copyright © 2026 SATVI Lab
// Per-record materialization: clone, worktree, or no-op

package materialize

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/SATVILab/comptools/internal/gitops"
	"github.com/SATVILab/comptools/internal/plan"
	"github.com/SATVILab/comptools/internal/repolist"
)

// Materializer applies planned steps to the filesystem
type Materializer struct {
	config *Config
}

// New creates a materializer. A nil config materializes silently with
// default policies.
func New(config *Config) *Materializer {
	if config == nil {
		config = &Config{}
	}
	if config.Progress == nil {
		config.Progress = io.Discard
	}
	if config.OnExisting == "" {
		config.OnExisting = ExistingIgnore
	}
	return &Materializer{config: config}
}

// Apply processes every step strictly in list order. A single step's
// failure is recorded and the loop proceeds to the next step; only the
// result's counters reflect that something went wrong.
func (m *Materializer) Apply(steps []plan.Step) *Result {
	result := &Result{}

	for _, step := range steps {
		m.trace("line %d: %s -> %s (fallback %s)",
			step.Record.Line, describe(step.Record), step.Resolved.Abs, step.Fallback)

		var sr StepResult
		if step.Record.Kind == repolist.KindWorktree {
			sr = m.applyWorktree(step)
		} else {
			sr = m.applyClone(step)
		}
		result.add(sr)
		m.report(sr)
	}

	return result
}

// applyClone handles one clone record
func (m *Materializer) applyClone(step plan.Step) StepResult {
	sr := StepResult{Step: step}
	rec := step.Record
	target := step.Resolved.Abs

	if info, err := os.Stat(target); err == nil && info.IsDir() {
		sr.Action = ActionNoop
		if rec.Branch == "" {
			return sr
		}
		return m.applyExistingPolicy(sr, target, rec.Branch)
	}

	if m.config.DryRun {
		sr.Action = ActionDryRun
		sr.Note = fmt.Sprintf("would clone %s", rec.RepoSpec)
		return sr
	}

	err := gitops.Clone(&gitops.CloneConfig{
		Spec:         rec.RepoSpec,
		Destination:  target,
		Branch:       rec.Branch,
		SingleBranch: rec.Branch != "" && !rec.AllBranches,
		Token:        m.config.Token,
		Verbose:      m.config.Verbose,
		Progress:     m.config.Progress,
	})
	if err != nil {
		sr.Action = ActionFailed
		sr.Err = err
		return sr
	}

	sr.Action = ActionClone
	return sr
}

// applyExistingPolicy decides what to do with a clone target that already
// exists when the list names an explicit branch.
func (m *Materializer) applyExistingPolicy(sr StepResult, target, branch string) StepResult {
	if m.config.OnExisting == ExistingIgnore {
		return sr
	}

	current := gitops.CurrentBranch(target)
	if current == "" || current == branch {
		return sr
	}

	switch m.config.OnExisting {
	case ExistingWarn:
		sr.Note = fmt.Sprintf("exists on branch %s, list wants %s", current, branch)
	case ExistingSwitch:
		if m.config.DryRun {
			sr.Action = ActionDryRun
			sr.Note = fmt.Sprintf("would switch %s -> %s", current, branch)
			return sr
		}
		if err := gitops.SwitchBranch(target, branch); err != nil {
			sr.Action = ActionFailed
			sr.Err = fmt.Errorf("failed to switch %s to branch %s: %w", target, branch, err)
			return sr
		}
		sr.Note = fmt.Sprintf("switched %s -> %s", current, branch)
	case ExistingFail:
		sr.Action = ActionFailed
		sr.Err = fmt.Errorf("%s exists on branch %s, list wants %s", target, current, branch)
	}
	return sr
}

// applyWorktree handles one worktree record
func (m *Materializer) applyWorktree(step plan.Step) StepResult {
	sr := StepResult{Step: step}
	rec := step.Record
	target := step.Resolved.Abs

	if _, err := os.Stat(target); err == nil {
		sr.Action = ActionNoop
		return sr
	}

	// A worktree cannot be created off a repository that is not on disk.
	// Fatal for this record, not for the run.
	if !m.config.DryRun && !gitops.IsRepo(step.FallbackPath) {
		sr.Action = ActionFailed
		sr.Err = fmt.Errorf("fallback repository %s not found at %s", step.Fallback, step.FallbackPath)
		return sr
	}

	if m.config.DryRun {
		sr.Action = ActionDryRun
		sr.Note = fmt.Sprintf("would add worktree of %s at @%s", step.Fallback, rec.Branch)
		return sr
	}

	// -n asks for an independent clone of the fallback's remote instead of
	// a linked worktree.
	if rec.NoWorktree {
		return m.applyDetachedClone(sr, step)
	}

	created, err := gitops.AddWorktree(step.FallbackPath, target, rec.Branch)
	if err != nil {
		sr.Action = ActionFailed
		sr.Err = err
		return sr
	}

	sr.Action = ActionWorktree
	if created {
		if err := gitops.PushUpstream(target, rec.Branch); err != nil {
			sr.Note = fmt.Sprintf("created branch %s but could not push upstream: %v", rec.Branch, err)
		} else {
			sr.Note = fmt.Sprintf("created branch %s and pushed upstream", rec.Branch)
		}
	}
	return sr
}

// applyDetachedClone clones the fallback's remote at the requested branch
// instead of linking a worktree
func (m *Materializer) applyDetachedClone(sr StepResult, step plan.Step) StepResult {
	rec := step.Record

	remote, err := gitops.RemoteURL(step.FallbackPath)
	if err != nil {
		sr.Action = ActionFailed
		sr.Err = fmt.Errorf("no origin remote for %s: %w", step.Fallback, err)
		return sr
	}

	err = gitops.Clone(&gitops.CloneConfig{
		Spec:         remote,
		Destination:  step.Resolved.Abs,
		Branch:       rec.Branch,
		SingleBranch: !rec.AllBranches,
		Token:        m.config.Token,
		Verbose:      m.config.Verbose,
		Progress:     m.config.Progress,
	})
	if err != nil {
		sr.Action = ActionFailed
		sr.Err = err
		return sr
	}

	sr.Action = ActionClone
	return sr
}

// report writes one status line per processed record
func (m *Materializer) report(sr StepResult) {
	rec := sr.Step.Record
	switch {
	case sr.Err != nil:
		fmt.Fprintf(m.config.Progress, "  ✗ %s: %v\n", describe(rec), sr.Err)
	case sr.Action == ActionNoop:
		if sr.Note != "" {
			fmt.Fprintf(m.config.Progress, "  ⚠ %s: %s\n", sr.Step.Resolved.Rel, sr.Note)
		} else if m.config.Verbose {
			fmt.Fprintf(m.config.Progress, "  = %s: already present\n", sr.Step.Resolved.Rel)
		}
	case sr.Action == ActionDryRun:
		fmt.Fprintf(m.config.Progress, "  → %s: %s\n", sr.Step.Resolved.Rel, sr.Note)
	default:
		line := fmt.Sprintf("  ✓ %s: %s", sr.Step.Resolved.Rel, sr.Action)
		if sr.Note != "" {
			line += " (" + sr.Note + ")"
		}
		fmt.Fprintln(m.config.Progress, line)
	}
}

// trace writes step tracing to the debug writer when one is configured
func (m *Materializer) trace(format string, args ...interface{}) {
	if m.config.Debug == nil {
		return
	}
	fmt.Fprintf(m.config.Debug, "[%s] "+format+"\n",
		append([]interface{}{time.Now().Format("15:04:05")}, args...)...)
}

// describe returns a short human-readable record description
func describe(rec repolist.Record) string {
	if rec.Kind == repolist.KindWorktree {
		return "@" + rec.Branch
	}
	if rec.Branch != "" {
		return rec.RepoSpec + "@" + rec.Branch
	}
	return rec.RepoSpec
}

// Summary returns a human-readable run summary
func Summary(result *Result) string {
	var sb strings.Builder

	sb.WriteString("─────────────────────────────────────\n")
	sb.WriteString("Setup Summary\n")
	sb.WriteString("─────────────────────────────────────\n")
	sb.WriteString(fmt.Sprintf("Records:   %d\n", len(result.Steps)))
	sb.WriteString(fmt.Sprintf("  Cloned:    %d\n", result.Cloned))
	sb.WriteString(fmt.Sprintf("  Worktrees: %d\n", result.Worktrees))
	sb.WriteString(fmt.Sprintf("  Unchanged: %d\n", result.Noops))
	sb.WriteString(fmt.Sprintf("  Failed:    %d\n", result.Failed))

	if result.Failed > 0 {
		sb.WriteString("\nFailed records:\n")
		for _, sr := range result.Steps {
			if sr.Err != nil {
				sb.WriteString(fmt.Sprintf("  line %d: %v\n", sr.Step.Record.Line, sr.Err))
			}
		}
	}

	return sb.String()
}
