package cli

import (
	"fmt"
	"os"

	"github.com/agentx-labs/aisync/internal/install"
	"github.com/agentx-labs/aisync/internal/pipeline"
	"github.com/agentx-labs/aisync/internal/targets"
	"github.com/agentx-labs/aisync/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	cleanCwd    string
	cleanDryRun bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove everything install wrote",
	Long: `Remove managed directories, managed skills and agents, managed hook and MCP
entries and rule index blocks for every target. Hand-authored content is kept.
In a workspace root every package is cleaned as well.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVar(&cleanCwd, "cwd", "", "Project directory (default: current directory)")
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Report what would be removed without touching disk")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	dir, err := projectDir(cleanCwd)
	if err != nil {
		return err
	}

	dirs := []string{dir}
	configPath := pipeline.ConfigPath(dir)
	if _, statErr := os.Stat(configPath); statErr == nil {
		cfg, err := pipeline.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cfg.Workspaces {
			rels, err := workspace.GlobLister{}.List(dir)
			if err != nil {
				return err
			}
			for _, rel := range rels {
				if rel != "." {
					dirs = append(dirs, workspace.Dir(dir, rel))
				}
			}
		}
	}

	w := &install.Writer{DryRun: cleanDryRun}
	removed := 0
	for _, d := range dirs {
		report, err := w.Clean(d, targets.All())
		if err != nil {
			return fmt.Errorf("cleaning %s: %w", d, err)
		}
		paths := report.Paths(install.OpRemove)
		removed += len(paths)
		for _, p := range paths {
			if cleanDryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", relPath(dir, p))
			}
		}
	}

	verb := "Removed"
	if cleanDryRun {
		verb = "Would remove"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d managed paths\n", verb, removed)
	return nil
}
