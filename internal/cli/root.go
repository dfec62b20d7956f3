package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/aisync/internal/branding"
	"github.com/agentx-labs/aisync/internal/config"
	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/pipeline"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var logger *log.Logger

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs shared AI-assistant configuration (rules, commands, skills,
agents, hooks and MCP servers) from layered presets into every supported tool.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		logger = diag.NewLogger(cmd.ErrOrStderr(), config.LogLevel())
	},
}

// Execute runs the root command with build info injected via ldflags.
// Fatal errors are printed to stderr and returned.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", branding.CLIName(), err)
		return err
	}
	return nil
}

// emit flushes collected diagnostics through the logger.
func emit(diags *diag.Collector) {
	if logger == nil {
		logger = diag.NewLogger(os.Stderr, config.LogLevel())
	}
	diag.Emit(logger, diags)
}

// pipelineOptions builds resolver options for a package directory.
func pipelineOptions(dir string) pipeline.Options {
	opts := pipeline.Options{
		Cwd:         dir,
		SearchPaths: config.PresetPaths(),
	}
	if exe, err := os.Executable(); err == nil {
		opts.ExecDir = filepath.Dir(exe)
	}
	return opts
}

// projectDir resolves the --cwd flag value.
func projectDir(flag string) (string, error) {
	if flag == "" {
		flag = "."
	}
	dir, err := filepath.Abs(flag)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", flag, err)
	}
	return dir, nil
}
