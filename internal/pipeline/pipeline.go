package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/agentx-labs/aisync/internal/branding"
	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/issue"
	"github.com/agentx-labs/aisync/internal/manifest"
	"github.com/agentx-labs/aisync/internal/mcp"
	"github.com/agentx-labs/aisync/internal/merge"
	"github.com/agentx-labs/aisync/internal/preset"
	"github.com/agentx-labs/aisync/internal/rewrite"
	"github.com/agentx-labs/aisync/internal/source"
	"github.com/agentx-labs/aisync/internal/targets"
)

// Options configures a run.
type Options struct {
	// Cwd resolves override replacement paths. Empty means the package
	// directory.
	Cwd string
	// SearchPaths are extra preset search directories.
	SearchPaths []string
	// ExecDir overrides the executable directory used for preset lookup.
	ExecDir string
}

// Result is the fully resolved configuration of one package.
type Result struct {
	Dir        string // absolute package directory
	ConfigPath string
	Config     *manifest.RawConfig
	Targets    []targets.Name
	Layers     []*preset.Layer
	// Local is nil when the config declares no rootDir.
	Local      *source.Collection
	Collection *source.Collection
	MCPServers mcp.Servers
}

// Versions maps each preset reference to its package version, if known.
func (r *Result) Versions() map[string]string {
	out := make(map[string]string, len(r.Layers))
	for _, l := range r.Layers {
		if l.Version != "" {
			out[l.Ref] = l.Version
		}
	}
	return out
}

// ConfigPath returns the config file path of the package in dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, branding.ConfigFile())
}

// LoadConfig parses a project config. Any failure is a ValidationError.
func LoadConfig(path string) (*manifest.RawConfig, error) {
	cfg, err := manifest.ParseFile(path)
	if err != nil {
		var ie *issue.Error
		if errors.As(err, &ie) {
			return nil, err
		}
		return nil, &issue.Error{
			Kind:    issue.KindValidation,
			Path:    path,
			Message: err.Error(),
			Cause:   err,
		}
	}
	return cfg, nil
}

// Targets validates and converts the declared targets.
func Targets(cfg *manifest.RawConfig, configPath string) ([]targets.Name, error) {
	var out []targets.Name
	for _, t := range cfg.EffectiveTargets() {
		n, ok := targets.Parse(t)
		if !ok {
			return nil, issue.Validation(configPath, "unsupported target %q", t)
		}
		out = append(out, n)
	}
	return out, nil
}

// Run resolves the package in dir.
func Run(dir string, opts Options, diags *diag.Collector) (*Result, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	configPath := ConfigPath(dir)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return RunConfig(dir, configPath, cfg, opts, diags)
}

// RunConfig resolves an already parsed config.
func RunConfig(dir, configPath string, cfg *manifest.RawConfig, opts Options, diags *diag.Collector) (*Result, error) {
	names, err := Targets(cfg, configPath)
	if err != nil {
		return nil, err
	}

	resolver := &preset.Resolver{
		SearchPaths: opts.SearchPaths,
		ExecDir:     opts.ExecDir,
		Diags:       diags,
	}
	layers, err := resolver.Resolve(cfg.Presets, dir)
	if err != nil {
		return nil, err
	}

	var local *source.Collection
	if cfg.RootDir != "" {
		local, err = source.Load(filepath.Join(dir, filepath.FromSlash(cfg.RootDir)), source.Local(), diags)
		if err != nil {
			return nil, err
		}
	}

	collections := make([]*source.Collection, 0, len(layers))
	presetServers := make([]map[string]manifest.MCPServerEntry, 0, len(layers))
	for _, l := range layers {
		collections = append(collections, l.Collection)
		presetServers = append(presetServers, l.Config.MCPServers)
	}

	merged := merge.Collections(local, collections, diags)

	cwd := opts.Cwd
	if cwd == "" {
		cwd = dir
	}
	overridden, err := merge.Overrides(merged, cfg.Overrides, cwd, configPath)
	if err != nil {
		return nil, err
	}

	return &Result{
		Dir:        dir,
		ConfigPath: configPath,
		Config:     cfg,
		Targets:    names,
		Layers:     layers,
		Local:      local,
		Collection: rewrite.New(overridden).Collection(overridden),
		MCPServers: mcp.Merge(cfg.MCPServers, presetServers...),
	}, nil
}
