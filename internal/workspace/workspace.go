package workspace

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/hooks"
	"github.com/agentx-labs/aisync/internal/manifest"
	"github.com/agentx-labs/aisync/internal/mcp"
	"github.com/agentx-labs/aisync/internal/merge"
	"github.com/agentx-labs/aisync/internal/pipeline"
	"github.com/agentx-labs/aisync/internal/source"
	"github.com/agentx-labs/aisync/internal/targets"
)

// Package is one resolved workspace package.
type Package struct {
	Rel    string // slash-separated, relative to the workspace root
	Result *pipeline.Result
}

// Workspace is the resolved state of a whole repository.
type Workspace struct {
	Root     string
	Packages []*Package
	// RootConfig is the root's own config, nil when it has none.
	RootConfig *manifest.RawConfig
	// Aggregate is installed at the root: the merged flat categories of
	// every package plus the assets and hooks they reference. Rules are
	// those of the root package, if the root is itself a package.
	Aggregate  *source.Collection
	MCPServers mcp.Servers
	Targets    []targets.Name
}

// Resolve discovers and resolves every package below root, in sorted path
// order. Packages marked skipInstall are excluded, and so is the root unless
// it has local rules, commands or skills or declares presets. opts.Cwd is
// ignored: each package resolves override paths against its own directory.
func Resolve(root string, lister Lister, opts pipeline.Options, diags *diag.Collector) (*Workspace, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	if lister == nil {
		lister = GlobLister{}
	}

	rels, err := lister.List(root)
	if err != nil {
		return nil, err
	}

	pkgOpts := opts
	pkgOpts.Cwd = ""

	ws := &Workspace{Root: root}
	for _, rel := range rels {
		dir := Dir(root, rel)
		configPath := pipeline.ConfigPath(dir)
		cfg, err := pipeline.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}

		if rel == "." {
			ws.RootConfig = cfg
			if !installsRoot(dir, cfg) {
				continue
			}
		}
		if cfg.SkipInstall {
			continue
		}

		res, err := pipeline.RunConfig(dir, configPath, cfg, pkgOpts, diags)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", rel, err)
		}
		ws.Packages = append(ws.Packages, &Package{Rel: rel, Result: res})
	}

	ws.Aggregate, ws.MCPServers = Aggregate(ws.Packages, diags)
	ws.Targets = ws.targets()
	return ws, nil
}

// installsRoot reports whether the root package has anything of its own
// to install.
func installsRoot(dir string, cfg *manifest.RawConfig) bool {
	if len(cfg.Presets) > 0 {
		return true
	}
	if cfg.RootDir == "" {
		return false
	}
	base := filepath.Join(dir, filepath.FromSlash(cfg.RootDir))
	for _, sub := range []string{source.RulesDir, source.CommandsDir, source.SkillsDir} {
		if _, err := os.Stat(filepath.Join(base, sub)); err == nil {
			return true
		}
	}
	return false
}

// targets returns the root config's targets, or the union of the packages'
// targets in package order when the root has no config.
func (ws *Workspace) targets() []targets.Name {
	if ws.RootConfig != nil {
		if names, err := pipeline.Targets(ws.RootConfig, ""); err == nil {
			return names
		}
	}
	seen := map[targets.Name]bool{}
	var out []targets.Name
	for _, p := range ws.Packages {
		for _, n := range p.Result.Targets {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// Aggregate merges the already merged collections of pkgs for installation
// at the workspace root. A preset file reached from several packages
// (same source path) contributes once. Flat-category collisions between
// packages follow the usual last-wins policy and name the packages.
func Aggregate(pkgs []*Package, diags *diag.Collector) (*source.Collection, mcp.Servers) {
	seen := map[string]bool{}
	firstSeen := func(origin source.Origin, sourcePath string) bool {
		if origin != source.OriginPreset || sourcePath == "" {
			return true
		}
		if seen[sourcePath] {
			return false
		}
		seen[sourcePath] = true
		return true
	}

	pick := func(files []source.ManagedFile) []source.ManagedFile {
		var out []source.ManagedFile
		for _, f := range files {
			if firstSeen(f.Origin, f.SourcePath) {
				out = append(out, f)
			}
		}
		return out
	}

	var commands, skills, agents [][]source.ManagedFile
	var assets []source.AssetFile
	var assetPkgs []string
	var hookFiles []source.HookFile
	var configs []source.HooksConfig
	var contribs []mcp.Contribution
	out := &source.Collection{}

	for _, p := range pkgs {
		c := p.Result.Collection
		commands = append(commands, pick(c.Commands))
		skills = append(skills, pick(c.Skills))
		agents = append(agents, pick(c.Agents))
		for _, a := range c.Assets {
			if firstSeen(a.Origin, a.SourcePath) {
				assets = append(assets, a)
				assetPkgs = append(assetPkgs, p.Rel)
			}
		}
		hookFiles = append(hookFiles, c.HookFiles...)
		configs = append(configs, c.Hooks)
		contribs = append(contribs, mcp.Contribution{Package: p.Rel, Servers: p.Result.MCPServers})
		if p.Rel == "." {
			out.Rules = c.Rules
		}
	}

	label := func(layer int, f source.ManagedFile) string {
		rel := pkgs[layer].Rel
		if f.Origin == source.OriginPreset {
			return f.PresetName + " (" + rel + ")"
		}
		return rel
	}

	out.Commands = merge.FlatBy(merge.CategoryCommand, diag.CodeCommandCollision, nil, commands, label, diags)
	out.Skills = merge.FlatBy(merge.CategorySkill, diag.CodeSkillCollision, nil, skills, label, diags)
	out.Agents = merge.FlatBy(merge.CategoryAgent, diag.CodeAgentCollision, nil, agents, label, diags)
	warnAssetCollisions(assets, assetPkgs, diags)
	out.Assets = merge.Assets(assets)
	out.Hooks = uniqueCommands(hooks.MergeConfigs(configs...))
	out.HookFiles = hooks.DedupeFiles(hookFiles, diags)

	return out, mcp.Aggregate(contribs, diags)
}

// uniqueCommands drops repeated managed commands within each event.
// Installed commands carry their namespace, so equal strings run the same
// script. Other commands are kept as bound.
func uniqueCommands(cfg source.HooksConfig) source.HooksConfig {
	out := source.HooksConfig{Version: cfg.Version, Hooks: map[string][]source.HookCommand{}}
	for _, event := range hooks.Events(cfg) {
		seen := map[string]bool{}
		for _, cmd := range cfg.Hooks[event] {
			if hooks.IsManaged(cmd.Command) {
				if seen[cmd.Command] {
					continue
				}
				seen[cmd.Command] = true
			}
			out.Hooks[event] = append(out.Hooks[event], cmd)
		}
	}
	return out
}

// warnAssetCollisions reports assets from different packages that install
// to the same path with different content. The last one is kept.
func warnAssetCollisions(assets []source.AssetFile, pkgs []string, diags *diag.Collector) {
	first := map[string]int{}
	for i, a := range assets {
		key := merge.InstallKey(a.Name, a.Provenance)
		j, ok := first[key]
		if !ok {
			first[key] = i
			continue
		}
		prev := assets[j]
		if bytes.Equal(prev.Content, a.Content) {
			continue
		}
		sources := []string{assetLabel(prev, pkgs[j]), assetLabel(a, pkgs[i])}
		diags.Add(diag.Collision(diag.CodeAssetCollision, "asset", key, sources, sources[1]))
		first[key] = i
	}
}

func assetLabel(a source.AssetFile, rel string) string {
	if a.Origin == source.OriginPreset {
		return a.PresetName + " (" + rel + ")"
	}
	return rel
}
