package cli

import (
	"fmt"
	"strings"

	"github.com/agentx-labs/aisync/internal/branding"
	"github.com/agentx-labs/aisync/internal/scaffold"
	"github.com/agentx-labs/aisync/internal/targets"
	"github.com/spf13/cobra"
)

var (
	initPreset  bool
	initTargets string
	initCwd     string
)

func init() {
	initCmd.Flags().BoolVar(&initPreset, "preset", false, "Create a preset skeleton (config, example rule and command) instead of a project config")
	initCmd.Flags().StringVar(&initTargets, "targets", "", "Comma-separated list of targets (cursor, claude, codex, windsurf)")
	initCmd.Flags().StringVar(&initCwd, "cwd", "", "Directory to initialize (default: current directory)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter " + branding.ConfigFile(),
	Long: `Write a starter ` + branding.ConfigFile() + ` in the current directory.

Existing files are never overwritten. With --preset, an example rule and
command are generated next to the config so the directory can be referenced
as a preset.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := projectDir(initCwd)
		if err != nil {
			return err
		}

		var names []string
		if initTargets != "" {
			for _, t := range strings.Split(initTargets, ",") {
				t = strings.TrimSpace(t)
				if _, ok := targets.Parse(t); !ok {
					return fmt.Errorf("unsupported target %q", t)
				}
				names = append(names, t)
			}
		}

		kind := scaffold.KindProject
		if initPreset {
			kind = scaffold.KindPreset
		}
		result, err := scaffold.Generate(kind, scaffold.NewScaffoldData(dir, names), dir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, f := range result.Files {
			fmt.Fprintf(out, "Created %s\n", f)
		}
		for _, w := range result.Warnings {
			logger.Warn(w)
		}
		return nil
	},
}
