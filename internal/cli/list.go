package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/manifest"
	"github.com/agentx-labs/aisync/internal/merge"
	"github.com/agentx-labs/aisync/internal/pipeline"
	"github.com/agentx-labs/aisync/internal/source"
	"github.com/agentx-labs/aisync/internal/targets"
	"github.com/agentx-labs/aisync/internal/workspace"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	listJSON bool
	listCwd  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List resolved rules, commands, skills and agents",
	Long: `Resolve the project without writing anything and list every record that
install would write, with the preset or local source it comes from.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listCwd, "cwd", "", "Project directory (default: current directory)")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents one resolved record for display.
type listEntry struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Source   string `json:"source"`
	Path     string `json:"path"`
}

// listOutput is the --json document.
type listOutput struct {
	Targets    []targets.Name    `json:"targets"`
	Presets    map[string]string `json:"presets,omitempty"`
	Entries    []listEntry       `json:"entries"`
	Overrides  map[string]string `json:"overrides,omitempty"`
	MCPServers []string          `json:"mcpServers,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	dir, err := projectDir(listCwd)
	if err != nil {
		return err
	}
	cfg, err := pipeline.LoadConfig(pipeline.ConfigPath(dir))
	if err != nil {
		return err
	}

	diags := &diag.Collector{}
	var doc listOutput
	if cfg.Workspaces {
		ws, err := workspace.Resolve(dir, workspace.GlobLister{}, pipelineOptions(dir), diags)
		if err != nil {
			emit(diags)
			return err
		}
		doc = listOutput{
			Targets:    ws.Targets,
			Presets:    map[string]string{},
			Entries:    entriesOf(ws.Aggregate),
			MCPServers: ws.MCPServers.Names(),
		}
		for _, pkg := range ws.Packages {
			for ref, v := range pkg.Result.Versions() {
				doc.Presets[ref] = v
			}
		}
	} else {
		res, err := pipeline.RunConfig(dir, pipeline.ConfigPath(dir), cfg, pipelineOptions(dir), diags)
		if err != nil {
			emit(diags)
			return err
		}
		doc = listOutput{
			Targets:    res.Targets,
			Presets:    res.Versions(),
			Entries:    entriesOf(res.Collection),
			Overrides:  overridesOf(cfg),
			MCPServers: res.MCPServers.Names(),
		}
	}
	emit(diags)

	if listJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	renderList(cmd.OutOrStdout(), doc)
	return nil
}

func entriesOf(c *source.Collection) []listEntry {
	if c == nil {
		return nil
	}
	var out []listEntry
	add := func(category targets.Category, f source.ManagedFile, path string) {
		out = append(out, listEntry{Category: string(category), Name: f.Name, Source: f.Label(), Path: path})
	}
	for _, f := range c.Rules {
		add(targets.Rules, f, targets.RulePath(f.Namespace(), f.Name))
	}
	for _, f := range c.Commands {
		add(targets.Commands, f, targets.CommandPath(f.Name))
	}
	for _, f := range c.Skills {
		add(targets.Skills, f, targets.SkillDir(f.Name)+"/")
	}
	for _, f := range c.Agents {
		add(targets.Agents, f, targets.AgentPath(f.Name))
	}
	for _, h := range c.HookFiles {
		out = append(out, listEntry{
			Category: string(targets.Hooks),
			Name:     h.Basename,
			Source:   h.Label(),
			Path:     targets.HookFilePath(h.Name),
		})
	}
	return out
}

func overridesOf(cfg *manifest.RawConfig) map[string]string {
	if len(cfg.Overrides) == 0 {
		return nil
	}
	out := make(map[string]string, len(cfg.Overrides))
	for _, name := range cfg.OverrideNames() {
		out[name] = merge.String(cfg.Overrides[name])
	}
	return out
}

var (
	listHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	listLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	listDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func renderList(w io.Writer, doc listOutput) {
	names := make([]string, len(doc.Targets))
	for i, n := range doc.Targets {
		names[i] = string(n)
	}
	fmt.Fprintf(w, "%s %s\n", listLabelStyle.Render("Targets:"), strings.Join(names, ", "))

	if len(doc.Entries) == 0 {
		fmt.Fprintln(w, "Nothing to install.")
	} else {
		rows := [][]string{{"CATEGORY", "NAME", "SOURCE", "PATH"}}
		for _, e := range doc.Entries {
			rows = append(rows, []string{e.Category, e.Name, e.Source, e.Path})
		}
		renderTable(w, rows)
	}

	if len(doc.Overrides) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, listLabelStyle.Render("Overrides:"))
		for _, name := range sortedKeys(doc.Overrides) {
			fmt.Fprintf(w, "  %s %s\n", name, listDimStyle.Render(doc.Overrides[name]))
		}
	}
	if len(doc.MCPServers) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %s\n", listLabelStyle.Render("MCP servers:"), strings.Join(doc.MCPServers, ", "))
	}
}

// renderTable pads columns by their rendered width so styled cells stay
// aligned.
func renderTable(w io.Writer, rows [][]string) {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			style := lipgloss.NewStyle()
			if r == 0 {
				style = listHeaderStyle
			} else if i == len(row)-1 {
				style = listDimStyle
			}
			if i < len(row)-1 {
				style = style.Width(widths[i] + 2)
			}
			cells[i] = style.Render(cell)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, ""), " "))
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
