/*
Copyright © 2026 SATVI Lab

*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/SATVILab/comptools/internal/materialize"
	"github.com/SATVILab/comptools/internal/plan"
	"github.com/SATVILab/comptools/internal/repolist"
	"github.com/SATVILab/comptools/internal/workspacefile"
	"github.com/spf13/cobra"
)

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Clone declared repositories and write the workspace descriptor",
	Long: `Parse the repository list, resolve every record to a sibling directory,
clone repositories and create worktrees that are not yet on disk, and
rewrite the workspace descriptor's folder list.

Existing directories are left untouched (idempotent); a single record's
failure is reported and the remaining records are still processed.

Examples:
  comptools setup
  comptools setup --dry-run
  comptools setup -f repos-to-clone.list -v`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeSetup()
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// locateListFile resolves the repository list file location: the -f flag if
// given, otherwise the default names probed in order in the working
// directory. A missing list file is a configuration error.
func locateListFile() (string, error) {
	if listFile != "" {
		abs, err := filepath.Abs(listFile)
		if err != nil {
			return "", fmt.Errorf("failed to resolve list file path: %w", err)
		}
		if _, err := os.Stat(abs); err != nil {
			return "", fmt.Errorf("list file not found: %s", listFile)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	for _, name := range repolist.DefaultFileNames {
		candidate := filepath.Join(cwd, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no repository list found (tried %v)", repolist.DefaultFileNames)
}

// loadPlan parses the list file and runs both planning passes. The anchor
// repository name derives from the directory holding the list file.
func loadPlan() (steps []plan.Step, listDir string, err error) {
	listPath, err := locateListFile()
	if err != nil {
		return nil, "", err
	}
	listDir = filepath.Dir(listPath)
	anchor := filepath.Base(listDir)

	records, diags, err := repolist.ParseFile(listPath)
	if err != nil {
		return nil, "", err
	}

	if debugFlag {
		fmt.Fprintf(os.Stderr, "list file: %s\n", listPath)
		fmt.Fprintf(os.Stderr, "anchor repository: %s\n", anchor)
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "dropped line %d (%s): %s\n", d.Line, d.Reason, d.Text)
		}
	}

	steps, counts, problems := plan.Build(records, anchor, listDir)

	if debugFlag {
		for name, n := range counts {
			fmt.Fprintf(os.Stderr, "refs: %s -> %d\n", name, n)
		}
		for _, step := range steps {
			fmt.Fprintf(os.Stderr, "resolve line %d -> %s (rel %s, fallback %s)\n",
				step.Record.Line, step.Resolved.Abs, step.Resolved.Rel, step.Fallback)
		}
	}
	for _, p := range problems {
		fmt.Fprintln(os.Stderr, warnStyle.Render(fmt.Sprintf("warning: %v", p)))
	}

	return steps, listDir, nil
}

func executeSetup() error {
	steps, listDir, err := loadPlan()
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Setting up sibling repositories"))
	if dryRun {
		fmt.Println("[DRY-RUN MODE] No repositories will be cloned.")
	}

	var debugOut io.Writer
	if debugFlag {
		debugOut = os.Stderr
	}
	m := materialize.New(&materialize.Config{
		DryRun:     dryRun,
		Verbose:    verbose,
		OnExisting: onExisting,
		Token:      GetToken(),
		Progress:   os.Stdout,
		Debug:      debugOut,
	})
	result := m.Apply(steps)

	fmt.Println()
	fmt.Print(materialize.Summary(result))

	if !dryRun {
		wsPath := workspacefile.Locate(listDir)
		if err := workspacefile.Write(wsPath, plan.WorkspacePaths(steps)); err != nil {
			return err
		}
		fmt.Printf("Workspace descriptor: %s\n", wsPath)
	}

	// Per-record failures are best-effort: surface them, exit zero.
	if !result.Ok() {
		fmt.Println(warnStyle.Render(fmt.Sprintf("warning: %d record(s) failed; see above", result.Failed)))
	}
	return nil
}
