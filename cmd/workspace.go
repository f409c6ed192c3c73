/*
Copyright © 2026 SATVI Lab

*/
package cmd

import (
	"fmt"

	"github.com/SATVILab/comptools/internal/plan"
	"github.com/SATVILab/comptools/internal/workspacefile"
	"github.com/spf13/cobra"
)

// workspaceCmd represents the workspace command
var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Rewrite the workspace descriptor from the repository list",
	Long: `Recompute the resolved sibling paths from the repository list and rewrite
the workspace descriptor's folder list, without cloning anything. Top-level
keys other than the folder list are preserved unchanged.

Examples:
  comptools workspace
  comptools workspace -f repos-to-clone.list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeWorkspace()
	},
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
}

func executeWorkspace() error {
	steps, listDir, err := loadPlan()
	if err != nil {
		return err
	}

	paths := plan.WorkspacePaths(steps)
	wsPath := workspacefile.Locate(listDir)

	if dryRun {
		fmt.Println("[DRY-RUN MODE] Workspace descriptor not written.")
		for _, p := range paths {
			fmt.Printf("  → %s\n", p)
		}
		return nil
	}

	if err := workspacefile.Write(wsPath, paths); err != nil {
		return err
	}
	fmt.Printf("Wrote %d folder(s) to %s\n", len(paths), wsPath)
	return nil
}
