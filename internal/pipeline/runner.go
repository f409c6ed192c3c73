// Copyright © 2026 SATVI Lab
// Pipeline stage executor with streaming output

package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Runner executes pipeline stages sequentially in manifest order
type Runner struct {
	config *RunnerConfig
}

// NewRunner creates a stage runner
func NewRunner(config *RunnerConfig) *Runner {
	if config == nil {
		config = &RunnerConfig{DryRun: true}
	}
	if config.Progress == nil {
		config.Progress = io.Discard
	}
	return &Runner{config: config}
}

// Execute runs every stage of the manifest. A stage failure aborts the
// remaining stages (they depend on its outputs) unless the stage opts into
// continue_on_error.
func (r *Runner) Execute(m *Manifest) *Result {
	result := &Result{Success: true}
	startTime := time.Now()

	aborted := false
	for i := range m.Stages {
		stage := &m.Stages[i]

		if aborted {
			result.Stages = append(result.Stages, &StageResult{
				Name:    stage.Name,
				Skipped: true,
			})
			result.Skipped++
			continue
		}

		fmt.Fprintf(r.config.Progress, "[%d/%d] %s\n", i+1, len(m.Stages), stage.Name)

		sr := r.runStage(stage)
		result.Stages = append(result.Stages, sr)

		if sr.Success {
			result.Completed++
			continue
		}

		result.Failed++
		result.Success = false
		fmt.Fprintf(r.config.Progress, "  ✗ %s failed: %v\n", stage.Name, sr.Err)
		if !stage.ContinueOnError {
			aborted = true
		}
	}

	result.TotalTime = time.Since(startTime)
	return result
}

// runStage executes a single stage's run script
func (r *Runner) runStage(stage *Stage) *StageResult {
	sr := &StageResult{Name: stage.Name}
	startTime := time.Now()

	dir := stage.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.config.BaseDir, dir)
	}
	script := filepath.Join(dir, stage.Script)

	if r.config.DryRun {
		fmt.Fprintf(r.config.Progress, "  → would run %s\n", script)
		sr.Success = true
		sr.Duration = time.Since(startTime)
		return sr
	}

	if _, err := os.Stat(script); err != nil {
		sr.Err = fmt.Errorf("run script not found: %s", script)
		sr.Duration = time.Since(startTime)
		return sr
	}

	timeout := stage.StageTimeout(r.config.StageTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "bash", script)
	cmd.Dir = dir
	cmd.Env = stageEnv(stage.Env)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		sr.Err = fmt.Errorf("failed to create stdout pipe: %w", err)
		return sr
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		sr.Err = fmt.Errorf("failed to create stderr pipe: %w", err)
		return sr
	}

	if err := cmd.Start(); err != nil {
		sr.Err = fmt.Errorf("failed to start %s: %w", script, err)
		sr.Duration = time.Since(startTime)
		return sr
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		r.streamOutput(stdout, os.Stdout)
	}()
	go func() {
		defer wg.Done()
		r.streamOutput(stderr, os.Stderr)
	}()
	wg.Wait()

	err = cmd.Wait()
	sr.Duration = time.Since(startTime)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			sr.Err = fmt.Errorf("stage timed out after %v", timeout)
		} else if exitErr, ok := err.(*exec.ExitError); ok {
			sr.ExitCode = exitErr.ExitCode()
			sr.Err = fmt.Errorf("exited with code %d", sr.ExitCode)
		} else {
			sr.Err = err
		}
		return sr
	}

	sr.Success = true
	return sr
}

// stageEnv merges the process environment with stage-level overrides
func stageEnv(overrides map[string]string) []string {
	env := os.Environ()
	for key, value := range overrides {
		env = append(env, key+"="+value)
	}
	return env
}

// streamOutput forwards stage output line by line when verbose
func (r *Runner) streamOutput(pipe io.ReadCloser, out io.Writer) {
	scanner := bufio.NewScanner(pipe)
	for scanner.Scan() {
		if r.config.Verbose {
			fmt.Fprintln(out, scanner.Text())
		}
	}
}

// FormatResult returns a human-readable pipeline summary
func FormatResult(result *Result) string {
	var sb strings.Builder

	sb.WriteString("─────────────────────────────────────\n")
	sb.WriteString("Pipeline Summary\n")
	sb.WriteString("─────────────────────────────────────\n")

	for _, sr := range result.Stages {
		switch {
		case sr.Skipped:
			sb.WriteString(fmt.Sprintf("⊘ %s: skipped\n", sr.Name))
		case sr.Success:
			sb.WriteString(fmt.Sprintf("✓ %s (%v)\n", sr.Name, sr.Duration.Round(time.Second)))
		default:
			sb.WriteString(fmt.Sprintf("✗ %s: %v\n", sr.Name, sr.Err))
		}
	}

	sb.WriteString(fmt.Sprintf("\nCompleted: %d  Failed: %d  Skipped: %d  (%v)\n",
		result.Completed, result.Failed, result.Skipped, result.TotalTime.Round(time.Second)))

	return sb.String()
}
