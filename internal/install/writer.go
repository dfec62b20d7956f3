package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/agentx-labs/aisync/internal/branding"
	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/hooks"
	"github.com/agentx-labs/aisync/internal/mcp"
	"github.com/agentx-labs/aisync/internal/source"
	"github.com/agentx-labs/aisync/internal/targets"
)

// Bundle is everything to install into one project directory.
type Bundle struct {
	Dir        string
	Targets    []targets.Name
	Collection *source.Collection
	MCPServers mcp.Servers
	// Versions maps preset references to package versions for the
	// metadata side-files.
	Versions map[string]string
}

// Writer installs bundles. The zero value writes to disk.
type Writer struct {
	DryRun bool
	Diags  *diag.Collector
}

// Install writes b for each of its targets. Managed directories are
// recreated from scratch, so installing the same bundle twice yields the
// same tree.
func (w *Writer) Install(b Bundle) (*Report, error) {
	report := &Report{}
	ops := &fileOps{dir: b.Dir, dryRun: w.DryRun, report: report}

	for _, name := range b.Targets {
		layout, ok := targets.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown target %q", name)
		}
		if err := w.installTarget(ops, b, layout); err != nil {
			return nil, fmt.Errorf("installing %s: %w", name, err)
		}
	}
	return report, nil
}

func (w *Writer) installTarget(ops *fileOps, b Bundle, l targets.Layout) error {
	toolRoot := filepath.Join(b.Dir, filepath.FromSlash(l.Root))
	at := func(rel string) string {
		return filepath.Join(toolRoot, filepath.FromSlash(rel))
	}
	c := b.Collection

	if err := removeOwned(ops, toolRoot, l); err != nil {
		return err
	}

	var rulePaths []string
	if l.Supports(targets.Rules) {
		for _, f := range c.Rules {
			rel := targets.RulePath(f.Namespace(), f.Name)
			if err := ops.write(at(rel), []byte(f.Content), 0); err != nil {
				return err
			}
			rulePaths = append(rulePaths, l.Path(rel))
		}
	}

	if l.Supports(targets.Commands) {
		for _, f := range c.Commands {
			if err := ops.write(at(targets.CommandPath(f.Name)), []byte(f.Content), 0); err != nil {
				return err
			}
		}
	}

	if l.Supports(targets.Assets) {
		for _, a := range c.Assets {
			if err := ops.write(at(targets.AssetPath(a.Namespace(), a.Name)), a.Content, a.Mode); err != nil {
				return err
			}
		}
	}

	if l.Supports(targets.Hooks) {
		for _, h := range c.HookFiles {
			if err := ops.write(at(targets.HookFilePath(h.Name)), h.Content, h.Mode); err != nil {
				return err
			}
		}
		if err := writeHooksFile(ops, at(targets.HooksFile), c.Hooks); err != nil {
			return err
		}
	}

	if l.Supports(targets.Skills) {
		for _, s := range c.Skills {
			if err := w.writeSkill(ops, at(targets.SkillDir(s.Name)), s, b.Versions); err != nil {
				return err
			}
		}
	}

	if l.Supports(targets.Agents) {
		for _, a := range c.Agents {
			if err := w.writeAgent(ops, at(targets.AgentPath(a.Name)), a, b.Versions); err != nil {
				return err
			}
		}
	}

	if l.Supports(targets.MCP) && l.MCPFile != "" {
		path := filepath.Join(b.Dir, filepath.FromSlash(l.MCPFile))
		if err := w.writeMCPFile(ops, path, b.MCPServers); err != nil {
			return err
		}
	}

	if l.RuleIndex != "" {
		path := filepath.Join(b.Dir, filepath.FromSlash(l.RuleIndex))
		if err := writeRuleIndex(ops, path, l.RuleIndexPrefix, rulePaths); err != nil {
			return err
		}
	}

	return nil
}

// removeOwned deletes the managed directories of l and every skill or agent
// carrying a metadata side-file.
func removeOwned(ops *fileOps, toolRoot string, l targets.Layout) error {
	for _, rel := range l.ManagedDirs() {
		if err := ops.removeAll(filepath.Join(toolRoot, filepath.FromSlash(rel))); err != nil {
			return err
		}
	}

	skillsDir := filepath.Join(toolRoot, string(targets.Skills))
	if entries, err := os.ReadDir(skillsDir); err == nil {
		for _, e := range entries {
			dir := filepath.Join(skillsDir, e.Name())
			if e.IsDir() && exists(skillMetadataPath(dir)) {
				if err := ops.removeAll(dir); err != nil {
					return err
				}
			}
		}
	}

	agentsDir := filepath.Join(toolRoot, string(targets.Agents))
	if _, err := os.Stat(agentsDir); err == nil {
		pattern := "**/*." + branding.ManagedDir() + ".json"
		matches, err := doublestar.Glob(os.DirFS(agentsDir), pattern, doublestar.WithFilesOnly())
		if err != nil {
			return fmt.Errorf("scanning %s: %w", agentsDir, err)
		}
		for _, m := range matches {
			meta := filepath.Join(agentsDir, filepath.FromSlash(m))
			if err := ops.removeAll(agentFileFor(meta)); err != nil {
				return err
			}
			if err := ops.removeAll(meta); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeHooksFile(ops *fileOps, path string, cfg source.HooksConfig) error {
	existing, found, err := readOptional(path)
	if err != nil {
		return err
	}
	if cfg.Empty() {
		if !found {
			return nil
		}
		return stripHooksFile(ops, path, existing)
	}
	data, err := hooks.MergeInto(existing, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return ops.write(path, data, 0)
}

func stripHooksFile(ops *fileOps, path string, existing []byte) error {
	data, empty, err := hooks.Strip(existing)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if empty {
		return ops.removeAll(path)
	}
	if string(data) == string(existing) {
		return nil
	}
	return ops.write(path, data, 0)
}

func (w *Writer) writeMCPFile(ops *fileOps, path string, servers mcp.Servers) error {
	existing, found, err := readOptional(path)
	if err != nil {
		return err
	}
	if len(servers) == 0 {
		if !found {
			return nil
		}
		return stripMCPFile(ops, path, existing)
	}
	data, err := mcp.MergeInto(existing, servers, path, w.Diags)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return ops.write(path, data, 0)
}

func stripMCPFile(ops *fileOps, path string, existing []byte) error {
	data, empty, err := mcp.Strip(existing)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if empty {
		return ops.removeAll(path)
	}
	if string(data) == string(existing) {
		return nil
	}
	return ops.write(path, data, 0)
}

// writeSkill copies a skill directory and its side-file. A directory of the
// same name without a side-file is hand-authored and left alone.
func (w *Writer) writeSkill(ops *fileOps, dir string, s source.ManagedFile, versions map[string]string) error {
	if exists(dir) && !exists(skillMetadataPath(dir)) {
		w.Diags.Warnf(diag.CodeManagedEntryShadowed,
			"Skill %q already exists at %s and is not managed; leaving it unchanged", s.Name, dir)
		return nil
	}
	for _, f := range s.Files {
		if err := ops.write(filepath.Join(dir, filepath.FromSlash(f.Name)), f.Content, f.Mode); err != nil {
			return err
		}
	}
	meta, err := newMetadata(s.Provenance, versions).encode()
	if err != nil {
		return err
	}
	return ops.write(skillMetadataPath(dir), meta, 0)
}

// writeAgent writes an agent file and its side-file. An existing agent file
// without a side-file is hand-authored and left alone.
func (w *Writer) writeAgent(ops *fileOps, path string, a source.ManagedFile, versions map[string]string) error {
	if exists(path) && !exists(agentMetadataPath(path)) {
		w.Diags.Warnf(diag.CodeManagedEntryShadowed,
			"Agent %q already exists at %s and is not managed; leaving it unchanged", a.Name, path)
		return nil
	}
	if err := ops.write(path, []byte(a.Content), 0); err != nil {
		return err
	}
	meta, err := newMetadata(a.Provenance, versions).encode()
	if err != nil {
		return err
	}
	return ops.write(agentMetadataPath(path), meta, 0)
}

func writeRuleIndex(ops *fileOps, path, prefix string, rulePaths []string) error {
	existing, found, err := readOptional(path)
	if err != nil {
		return err
	}
	if len(rulePaths) == 0 {
		if !found {
			return nil
		}
		return removeRuleIndex(ops, path, existing)
	}

	var body strings.Builder
	for _, p := range rulePaths {
		body.WriteString(prefix + p + "\n")
	}
	updated := replaceBlock(string(existing), body.String())
	if found && updated == string(existing) {
		return nil
	}
	return ops.write(path, []byte(updated), 0)
}

func removeRuleIndex(ops *fileOps, path string, existing []byte) error {
	updated, ok := removeBlock(string(existing))
	if !ok {
		return nil
	}
	if strings.TrimSpace(updated) == "" {
		return ops.removeAll(path)
	}
	return ops.write(path, []byte(updated), 0)
}
