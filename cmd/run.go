/*
Copyright © 2026 SATVI Lab

*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SATVILab/comptools/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	// Run flags
	pipelineFile string
	stageTimeout time.Duration
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run each sibling repository's run script in dependency order",
	Long: `Read the pipeline manifest and execute each declared stage's run script
(run.sh by default) sequentially, in manifest order. Stage directories are
resolved relative to the directory holding the repository list, so the
manifest names siblings the same way the workspace descriptor does.

A failed stage aborts the stages after it unless the stage sets
continue_on_error.

Examples:
  comptools run
  comptools run --dry-run
  comptools run --pipeline pipeline.yml --timeout 4h`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executePipeline()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&pipelineFile, "pipeline", "", "Pipeline manifest (default: pipeline.yml next to the repository list)")
	runCmd.Flags().DurationVar(&stageTimeout, "timeout", 0, "Default per-stage timeout (e.g. 30m, 4h)")
}

func executePipeline() error {
	listPath, err := locateListFile()
	if err != nil {
		return err
	}
	listDir := filepath.Dir(listPath)

	manifestPath := pipelineFile
	if manifestPath == "" {
		manifestPath = filepath.Join(listDir, pipeline.DefaultManifestName)
	}
	manifest, err := pipeline.Load(manifestPath)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Running pipeline stages"))
	if dryRun {
		fmt.Println("[DRY-RUN MODE] No stages will be executed.")
	}

	runner := pipeline.NewRunner(&pipeline.RunnerConfig{
		BaseDir:      filepath.Dir(listDir),
		DryRun:       dryRun,
		Verbose:      verbose,
		StageTimeout: stageTimeout,
		Progress:     os.Stdout,
	})
	result := runner.Execute(manifest)

	fmt.Println()
	fmt.Print(pipeline.FormatResult(result))

	if !result.Success {
		fmt.Println(errStyle.Render("pipeline failed"))
		return fmt.Errorf("%d stage(s) failed", result.Failed)
	}
	return nil
}
