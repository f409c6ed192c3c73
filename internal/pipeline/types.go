// Copyright © 2026 SATVI Lab
// Pipeline manifest and execution types

package pipeline

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultManifestName is the pipeline manifest probed in the anchor repo
const DefaultManifestName = "pipeline.yml"

// DefaultScript is the per-repository entry point run for each stage
const DefaultScript = "run.sh"

// DefaultStageTimeout bounds a single stage unless the manifest overrides it
const DefaultStageTimeout = 2 * time.Hour

// Stage is one pipeline step: a sibling repository plus its run script
type Stage struct {
	Name            string            `yaml:"name"`
	Dir             string            `yaml:"dir"`
	Script          string            `yaml:"script"`
	Timeout         string            `yaml:"timeout"`
	ContinueOnError bool              `yaml:"continue_on_error"`
	Env             map[string]string `yaml:"env"`
}

// Manifest is the ordered list of stages, dependency order first
type Manifest struct {
	Stages []Stage `yaml:"stages"`
}

// Load reads and validates a pipeline manifest
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("malformed pipeline manifest %s: %w", path, err)
	}

	for i := range m.Stages {
		stage := &m.Stages[i]
		if stage.Dir == "" {
			return nil, fmt.Errorf("stage %d: missing dir", i+1)
		}
		if stage.Name == "" {
			stage.Name = stage.Dir
		}
		if stage.Script == "" {
			stage.Script = DefaultScript
		}
		if stage.Timeout != "" {
			if _, err := time.ParseDuration(stage.Timeout); err != nil {
				return nil, fmt.Errorf("stage %s: bad timeout %q: %w", stage.Name, stage.Timeout, err)
			}
		}
	}

	return &m, nil
}

// StageTimeout returns the effective timeout for a stage
func (s Stage) StageTimeout(fallback time.Duration) time.Duration {
	if s.Timeout != "" {
		if d, err := time.ParseDuration(s.Timeout); err == nil && d > 0 {
			return d
		}
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultStageTimeout
}

// RunnerConfig configures pipeline execution
type RunnerConfig struct {
	BaseDir      string        // directory stage dirs are relative to
	DryRun       bool          // print the plan without executing
	Verbose      bool          // stream stage output
	StageTimeout time.Duration // default per-stage timeout
	Progress     io.Writer     // status output (optional, defaults to io.Discard)
}

// StageResult contains the result of one executed stage
type StageResult struct {
	Name     string
	Success  bool
	Skipped  bool
	ExitCode int
	Duration time.Duration
	Err      error
}

// Result contains the complete pipeline outcome
type Result struct {
	Success   bool
	Completed int
	Failed    int
	Skipped   int
	TotalTime time.Duration
	Stages    []*StageResult
}
