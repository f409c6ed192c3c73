/*
Copyright © 2026 SATVI Lab

*/
package cmd

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	listFile   string
	debugFlag  bool
	dryRun     bool
	verbose    bool
	onExisting string
)

// Output styles
var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// rootCmd represents the base command - runs setup directly without subcommand
var rootCmd = &cobra.Command{
	Use:   "comptools",
	Short: "Clone and orchestrate the compendium's sibling repositories",
	Long: `comptools coordinates the compendium project's constellation of sibling
analysis repositories: it clones the repositories declared in the repository
list into the conventional sibling layout, creates linked worktrees for bare
branch references, writes the multi-folder workspace descriptor, and drives
each repository's own run script in dependency order.

The repository list (repos.list) holds one record per line:

  owner/repo[@branch] [target-dir] [-a|--all-branches]
  @branch [target-dir] [-n|--no-worktree]

Bare @branch lines create worktrees of the most recently cloned repository
(the "fallback"); before any clone line, the fallback is the repository
holding the list itself.

Examples:
  comptools
  comptools setup --dry-run
  comptools setup -f repos-to-clone.list
  comptools workspace
  comptools run --pipeline pipeline.yml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeSetup()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// GetToken returns the access token used for authenticated https clones
func GetToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

func init() {
	// Persistent flags - available to all subcommands
	rootCmd.PersistentFlags().StringVarP(&listFile, "file", "f", "", "Repository list file (default: repos.list, then repos-to-clone.list)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Emit step-by-step resolution tracing to stderr")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show planned actions without touching the filesystem or network")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&onExisting, "on-existing", "ignore", "Policy for existing clones on a different branch: ignore, warn, switch, fail")
}
