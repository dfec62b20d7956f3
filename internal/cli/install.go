package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/install"
	"github.com/agentx-labs/aisync/internal/pipeline"
	"github.com/agentx-labs/aisync/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	installDryRun  bool
	installCwd     string
	installVerbose bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install rules, commands, skills, agents, hooks and MCP servers",
	Long: `Resolve the project's presets, merge them with local sources and write the
result into each target tool's managed directories. In a workspace root
(workspaces: true) every package is installed, then the aggregate at the root.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "Report what would be written without touching disk")
	installCmd.Flags().StringVar(&installCwd, "cwd", "", "Project directory (default: current directory)")
	installCmd.Flags().BoolVarP(&installVerbose, "verbose", "v", false, "List every written and removed path")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	dir, err := projectDir(installCwd)
	if err != nil {
		return err
	}

	cfg, err := pipeline.LoadConfig(pipeline.ConfigPath(dir))
	if err != nil {
		return err
	}

	diags := &diag.Collector{}
	w := &install.Writer{DryRun: installDryRun, Diags: diags}
	out := cmd.OutOrStdout()

	if !cfg.Workspaces {
		res, err := pipeline.RunConfig(dir, pipeline.ConfigPath(dir), cfg, pipelineOptions(dir), diags)
		if err != nil {
			emit(diags)
			return err
		}
		report, err := w.Install(install.Bundle{
			Dir:        res.Dir,
			Targets:    res.Targets,
			Collection: res.Collection,
			MCPServers: res.MCPServers,
			Versions:   res.Versions(),
		})
		emit(diags)
		if err != nil {
			return err
		}
		printReport(out, dir, ".", report)
		return nil
	}

	ws, err := workspace.Resolve(dir, workspace.GlobLister{}, pipelineOptions(dir), diags)
	if err != nil {
		emit(diags)
		return err
	}

	versions := map[string]string{}
	for _, pkg := range ws.Packages {
		for ref, v := range pkg.Result.Versions() {
			versions[ref] = v
		}
		if pkg.Rel == "." {
			continue
		}
		res := pkg.Result
		report, err := w.Install(install.Bundle{
			Dir:        res.Dir,
			Targets:    res.Targets,
			Collection: res.Collection,
			MCPServers: res.MCPServers,
			Versions:   res.Versions(),
		})
		if err != nil {
			emit(diags)
			return fmt.Errorf("package %s: %w", pkg.Rel, err)
		}
		printReport(out, dir, pkg.Rel, report)
	}

	report, err := w.Install(install.Bundle{
		Dir:        ws.Root,
		Targets:    ws.Targets,
		Collection: ws.Aggregate,
		MCPServers: ws.MCPServers,
		Versions:   versions,
	})
	emit(diags)
	if err != nil {
		return err
	}
	printReport(out, dir, ".", report)
	return nil
}

func printReport(w io.Writer, root, rel string, report *install.Report) {
	writes := report.Paths(install.OpWrite)
	removes := report.Paths(install.OpRemove)

	verb := "Installed"
	if installDryRun {
		verb = "Would install"
	}
	fmt.Fprintf(w, "%s %d files in %s\n", verb, len(writes), rel)

	if !installVerbose && !installDryRun {
		return
	}
	for _, p := range removes {
		fmt.Fprintf(w, "  - %s\n", relPath(root, p))
	}
	for _, p := range writes {
		fmt.Fprintf(w, "  + %s\n", relPath(root, p))
	}
}

func relPath(root, p string) string {
	if rel, err := filepath.Rel(root, p); err == nil {
		return filepath.ToSlash(rel)
	}
	return p
}
