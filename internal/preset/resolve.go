package preset

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/issue"
	"github.com/agentx-labs/aisync/internal/manifest"
	"github.com/agentx-labs/aisync/internal/source"
)

// Resolver turns preset references into layers.
type Resolver struct {
	// SearchPaths are extra directories searched for package-style
	// references after node_modules lookup.
	SearchPaths []string
	// ExecDir overrides the directory of the running executable used for the
	// last-resort node_modules lookup. Empty means os.Executable.
	ExecDir string
	// Diags receives warnings raised while loading preset sources.
	Diags *diag.Collector
}

// Resolve resolves refs declared by the config in fromDir. The result is
// ordered innermost-declared first: each preset's nested presets precede it,
// and sibling presets keep declaration order. A config reached by more than
// one path keeps only its first position.
func (r *Resolver) Resolve(refs []string, fromDir string) ([]*Layer, error) {
	memo := make(map[string][]*Layer)
	var layers []*Layer
	for _, ref := range refs {
		resolved, err := r.resolve(ref, fromDir, nil, memo)
		if err != nil {
			return nil, err
		}
		layers = append(layers, resolved...)
	}
	return dedupe(layers), nil
}

// resolve resolves one reference. chain holds the absolute config paths of
// the active resolution chain, outermost first. memo holds the subtree of
// every config already resolved without error; a cycle through such a
// config would have been reported when it was first resolved.
func (r *Resolver) resolve(ref, fromDir string, chain []string, memo map[string][]*Layer) ([]*Layer, error) {
	configPath, ok := r.locate(ref, fromDir)
	if !ok {
		return nil, issue.PresetNotFound(ref, fromDir)
	}

	for _, p := range chain {
		if p == configPath {
			return nil, issue.CircularPreset(append(append([]string(nil), chain...), configPath))
		}
	}

	if done, ok := memo[configPath]; ok {
		return done, nil
	}

	cfg, err := parseConfig(configPath)
	if err != nil {
		return nil, err
	}

	configDir := filepath.Dir(configPath)
	rootDir := cfg.RootDir
	if rootDir == "" {
		rootDir = "."
	}
	rootDir = filepath.Join(configDir, filepath.FromSlash(rootDir))

	if len(cfg.Presets) == 0 && !source.HasRecognizedEntries(rootDir) {
		return nil, issue.EmptyPreset(configPath)
	}

	// Threaded by value: sibling branches never see each other's entries.
	active := append(append([]string(nil), chain...), configPath)

	var layers []*Layer
	for _, nested := range cfg.Presets {
		resolved, err := r.resolve(nested, configDir, active, memo)
		if err != nil {
			return nil, err
		}
		layers = append(layers, resolved...)
	}

	collection, err := source.Load(rootDir, source.Preset(ref), r.Diags)
	if err != nil {
		return nil, fmt.Errorf("loading preset %s: %w", ref, err)
	}

	layers = append(layers, &Layer{
		Ref:        ref,
		ConfigPath: configPath,
		RootDir:    rootDir,
		Version:    packageVersion(configDir),
		Config:     cfg,
		Collection: collection,
	})
	memo[configPath] = layers
	return layers, nil
}

// parseConfig parses a preset config, mapping parse failures onto the
// fatal error taxonomy.
func parseConfig(path string) (*manifest.RawConfig, error) {
	cfg, err := manifest.ParseFile(path)
	if err == nil {
		return cfg, nil
	}

	var schemaErr *manifest.SchemaError
	if errors.As(err, &schemaErr) {
		return nil, &issue.Error{
			Kind:    issue.KindValidation,
			Path:    path,
			Message: schemaErr.Error(),
			Cause:   err,
		}
	}
	return nil, issue.PresetParse(path, err)
}

func dedupe(layers []*Layer) []*Layer {
	seen := make(map[string]bool, len(layers))
	out := make([]*Layer, 0, len(layers))
	for _, l := range layers {
		if seen[l.ConfigPath] {
			continue
		}
		seen[l.ConfigPath] = true
		out = append(out, l)
	}
	return out
}
