// Copyright © 2026 SATVI Lab
// Pipeline manifest and runner tests

package tests

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/SATVILab/comptools/internal/pipeline"
)

// writeManifest writes manifest content into a temp file
func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), pipeline.DefaultManifestName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
stages:
  - dir: DataTidyACSClinical
  - name: modelling
    dir: Proj2
    script: pipeline.sh
    timeout: 30m
    continue_on_error: true
    env:
      RENV_PATHS_CACHE: /cache/renv
`)

	m, err := pipeline.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(m.Stages) != 2 {
		t.Fatalf("got %d stages, want 2", len(m.Stages))
	}

	first := m.Stages[0]
	if first.Name != "DataTidyACSClinical" {
		t.Errorf("default name = %q, want dir name", first.Name)
	}
	if first.Script != pipeline.DefaultScript {
		t.Errorf("default script = %q, want %q", first.Script, pipeline.DefaultScript)
	}

	second := m.Stages[1]
	if second.Name != "modelling" || second.Script != "pipeline.sh" {
		t.Errorf("explicit fields not honored: %+v", second)
	}
	if !second.ContinueOnError {
		t.Error("continue_on_error = false, want true")
	}
	if second.StageTimeout(0) != 30*time.Minute {
		t.Errorf("StageTimeout = %v, want 30m", second.StageTimeout(0))
	}
	if second.Env["RENV_PATHS_CACHE"] != "/cache/renv" {
		t.Errorf("env not parsed: %v", second.Env)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing dir", "stages:\n  - name: x\n"},
		{"bad timeout", "stages:\n  - dir: x\n    timeout: soon\n"},
		{"not yaml", "stages: [}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.content)
			if _, err := pipeline.Load(path); err == nil {
				t.Error("Load() should return error")
			}
		})
	}
}

func TestStageTimeoutFallbacks(t *testing.T) {
	var s pipeline.Stage
	if got := s.StageTimeout(10 * time.Minute); got != 10*time.Minute {
		t.Errorf("StageTimeout(fallback) = %v, want 10m", got)
	}
	if got := s.StageTimeout(0); got != pipeline.DefaultStageTimeout {
		t.Errorf("StageTimeout(0) = %v, want default", got)
	}
}

func TestExecuteDryRun(t *testing.T) {
	var progress bytes.Buffer
	runner := pipeline.NewRunner(&pipeline.RunnerConfig{
		BaseDir:  t.TempDir(),
		DryRun:   true,
		Progress: &progress,
	})

	m := &pipeline.Manifest{Stages: []pipeline.Stage{
		{Name: "a", Dir: "A", Script: "run.sh"},
		{Name: "b", Dir: "B", Script: "run.sh"},
	}}
	result := runner.Execute(m)

	if !result.Success || result.Completed != 2 {
		t.Fatalf("dry-run result: %+v", result)
	}
	if !bytes.Contains(progress.Bytes(), []byte("would run")) {
		t.Errorf("dry-run output missing plan:\n%s", progress.String())
	}
}

func TestExecuteStages(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}

	base := t.TempDir()
	okDir := filepath.Join(base, "ok")
	failDir := filepath.Join(base, "fail")
	afterDir := filepath.Join(base, "after")
	for _, d := range []string{okDir, failDir, afterDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	marker := filepath.Join(base, "marker")
	script := func(dir, content string) {
		if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte(content), 0755); err != nil {
			t.Fatal(err)
		}
	}
	script(okDir, "#!/bin/bash\ntouch "+marker+"\n")
	script(failDir, "#!/bin/bash\nexit 3\n")
	script(afterDir, "#!/bin/bash\ntrue\n")

	runner := pipeline.NewRunner(&pipeline.RunnerConfig{BaseDir: base})
	m := &pipeline.Manifest{Stages: []pipeline.Stage{
		{Name: "ok", Dir: "ok", Script: "run.sh"},
		{Name: "fail", Dir: "fail", Script: "run.sh"},
		{Name: "after", Dir: "after", Script: "run.sh"},
	}}
	result := runner.Execute(m)

	if result.Success {
		t.Error("Success = true, want false")
	}
	if result.Completed != 1 || result.Failed != 1 || result.Skipped != 1 {
		t.Errorf("Completed/Failed/Skipped = %d/%d/%d, want 1/1/1",
			result.Completed, result.Failed, result.Skipped)
	}
	if result.Stages[1].ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.Stages[1].ExitCode)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("first stage did not run: %v", err)
	}
}

func TestExecuteContinueOnError(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}

	base := t.TempDir()
	for _, d := range []string{"fail", "after"} {
		if err := os.MkdirAll(filepath.Join(base, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(base, "fail", "run.sh"), []byte("#!/bin/bash\nexit 1\n"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "after", "run.sh"), []byte("#!/bin/bash\ntrue\n"), 0755); err != nil {
		t.Fatal(err)
	}

	runner := pipeline.NewRunner(&pipeline.RunnerConfig{BaseDir: base})
	m := &pipeline.Manifest{Stages: []pipeline.Stage{
		{Name: "fail", Dir: "fail", Script: "run.sh", ContinueOnError: true},
		{Name: "after", Dir: "after", Script: "run.sh"},
	}}
	result := runner.Execute(m)

	if result.Failed != 1 || result.Completed != 1 || result.Skipped != 0 {
		t.Errorf("Completed/Failed/Skipped = %d/%d/%d, want 1/1/0",
			result.Completed, result.Failed, result.Skipped)
	}
}

func TestExecuteMissingScript(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "x"), 0755); err != nil {
		t.Fatal(err)
	}

	runner := pipeline.NewRunner(&pipeline.RunnerConfig{BaseDir: base})
	m := &pipeline.Manifest{Stages: []pipeline.Stage{{Name: "x", Dir: "x", Script: "run.sh"}}}
	result := runner.Execute(m)

	if result.Failed != 1 {
		t.Fatalf("Failed = %d, want 1", result.Failed)
	}
}
