// Copyright © 2026 SATVI Lab
// Git operation tests

package tests

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/SATVILab/comptools/internal/gitops"
)

func TestCloneURL(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want string
	}{
		{"short spec", "SATVILab/DataTidyACSClinical", "https://github.com/SATVILab/DataTidyACSClinical.git"},
		{"short spec with .git", "owner/repo.git", "https://github.com/owner/repo.git"},
		{"https url", "https://gitlab.com/owner/repo.git", "https://gitlab.com/owner/repo.git"},
		{"ssh url", "git@github.com:owner/repo.git", "git@github.com:owner/repo.git"},
		{"file url", "file:///tmp/repo", "file:///tmp/repo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gitops.CloneURL(tt.spec)
			if err != nil {
				t.Fatalf("CloneURL(%q) error = %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("CloneURL(%q) = %q, want %q", tt.spec, got, tt.want)
			}
		})
	}
}

func TestCloneURL_Invalid(t *testing.T) {
	invalidSpecs := []string{
		"",
		"just-a-name",
		"/absolute/local/path",
		"too/many/segments",
	}

	for _, spec := range invalidSpecs {
		if _, err := gitops.CloneURL(spec); err == nil {
			t.Errorf("CloneURL(%q) should return error", spec)
		}
	}
}

func TestClone_Validation(t *testing.T) {
	if err := gitops.Clone(nil); err == nil {
		t.Error("Clone(nil) should return error")
	}
	if err := gitops.Clone(&gitops.CloneConfig{Spec: "???", Destination: t.TempDir()}); err == nil {
		t.Error("Clone with invalid spec should return error")
	}
}

func TestRepoInspection(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()
	if gitops.IsRepo(dir) {
		t.Error("IsRepo on empty dir = true, want false")
	}

	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init", "-q", "-b", "main")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
	if err := os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	run("add", ".")
	run("commit", "-q", "-m", "init")

	if !gitops.IsRepo(dir) {
		t.Error("IsRepo = false, want true")
	}
	if got := gitops.CurrentBranch(dir); got != "main" {
		t.Errorf("CurrentBranch = %q, want main", got)
	}
	if !gitops.HasLocalBranch(dir, "main") {
		t.Error("HasLocalBranch(main) = false, want true")
	}
	if gitops.HasLocalBranch(dir, "nope") {
		t.Error("HasLocalBranch(nope) = true, want false")
	}

	run("branch", "dev")
	if err := gitops.SwitchBranch(dir, "dev"); err != nil {
		t.Fatalf("SwitchBranch error = %v", err)
	}
	if got := gitops.CurrentBranch(dir); got != "dev" {
		t.Errorf("CurrentBranch after switch = %q, want dev", got)
	}
}

func TestAddWorktree(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	parent := t.TempDir()
	repo := filepath.Join(parent, "repo")
	if err := os.MkdirAll(repo, 0755); err != nil {
		t.Fatal(err)
	}
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", repo}, args...)...)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init", "-q", "-b", "main")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
	if err := os.WriteFile(filepath.Join(repo, "f"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	run("add", ".")
	run("commit", "-q", "-m", "init")

	// New branch: created by the worktree add
	wt1 := filepath.Join(parent, "repo-dev")
	created, err := gitops.AddWorktree(repo, wt1, "dev")
	if err != nil {
		t.Fatalf("AddWorktree error = %v", err)
	}
	if !created {
		t.Error("created = false for a new branch, want true")
	}
	if got := gitops.CurrentBranch(wt1); got != "dev" {
		t.Errorf("worktree branch = %q, want dev", got)
	}

	// Existing branch: reused, not created
	run("branch", "topic")
	wt2 := filepath.Join(parent, "repo-topic")
	created, err = gitops.AddWorktree(repo, wt2, "topic")
	if err != nil {
		t.Fatalf("AddWorktree error = %v", err)
	}
	if created {
		t.Error("created = true for an existing branch, want false")
	}
}
