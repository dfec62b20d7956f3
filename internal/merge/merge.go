package merge

import (
	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/hooks"
	"github.com/agentx-labs/aisync/internal/namespace"
	"github.com/agentx-labs/aisync/internal/source"
)

// Category labels used in collision messages.
const (
	CategoryCommand = "command"
	CategorySkill   = "skill"
	CategoryAgent   = "agent"
)

// Collections merges local (may be nil) with layers, which are ordered
// innermost-declared first.
//
// Rules and assets are namespaced per preset and only replace an entry with
// the same install key. Commands, skills and agents share one flat namespace:
// among presets the last one wins with a warning, and local always wins.
// Hook bindings are concatenated and hook files deduplicated by name.
func Collections(local *source.Collection, layers []*source.Collection, diags *diag.Collector) *source.Collection {
	if local == nil {
		local = &source.Collection{}
	}

	presetsOf := func(pick func(*source.Collection) []source.ManagedFile) [][]source.ManagedFile {
		out := make([][]source.ManagedFile, 0, len(layers))
		for _, l := range layers {
			out = append(out, pick(l))
		}
		return out
	}

	out := &source.Collection{
		Rules: Namespaced(local.Rules, presetsOf(func(c *source.Collection) []source.ManagedFile { return c.Rules })),
		Commands: Flat(CategoryCommand, diag.CodeCommandCollision, local.Commands,
			presetsOf(func(c *source.Collection) []source.ManagedFile { return c.Commands }), diags),
		Skills: Flat(CategorySkill, diag.CodeSkillCollision, local.Skills,
			presetsOf(func(c *source.Collection) []source.ManagedFile { return c.Skills }), diags),
		Agents: Flat(CategoryAgent, diag.CodeAgentCollision, local.Agents,
			presetsOf(func(c *source.Collection) []source.ManagedFile { return c.Agents }), diags),
	}

	assets := append([]source.AssetFile(nil), local.Assets...)
	configs := []source.HooksConfig{local.Hooks}
	hookFiles := append([]source.HookFile(nil), local.HookFiles...)
	for _, l := range layers {
		assets = append(assets, l.Assets...)
		configs = append(configs, l.Hooks)
		hookFiles = append(hookFiles, l.HookFiles...)
	}
	out.Assets = Assets(assets)
	out.Hooks = hooks.MergeConfigs(configs...)
	out.HookFiles = hooks.DedupeFiles(hookFiles, diags)

	return out
}

// InstallKey is the namespaced name under which a rule or asset installs.
func InstallKey(name string, prov source.Provenance) string {
	return namespace.Join(prov.Namespace(), name)
}

// Namespaced merges rule-like files. Entries from different sources coexist
// unless they share an install key, in which case the later one replaces
// the earlier in place.
func Namespaced(local []source.ManagedFile, presets [][]source.ManagedFile) []source.ManagedFile {
	index := make(map[string]int)
	var out []source.ManagedFile
	add := func(files []source.ManagedFile) {
		for _, f := range files {
			key := InstallKey(f.Name, f.Provenance)
			if i, ok := index[key]; ok {
				out[i] = f
				continue
			}
			index[key] = len(out)
			out = append(out, f)
		}
	}
	add(local)
	for _, files := range presets {
		add(files)
	}
	return out
}

// Assets merges asset files by install key, last one wins.
func Assets(files []source.AssetFile) []source.AssetFile {
	index := make(map[string]int, len(files))
	out := make([]source.AssetFile, 0, len(files))
	for _, f := range files {
		key := InstallKey(f.Name, f.Provenance)
		if i, ok := index[key]; ok {
			out[i] = f
			continue
		}
		index[key] = len(out)
		out = append(out, f)
	}
	return out
}

// Labeler names the contributor of f, taken from presets[layer].
type Labeler func(layer int, f source.ManagedFile) string

// Flat merges a flat category, naming contributors by provenance.
func Flat(category, code string, local []source.ManagedFile, presets [][]source.ManagedFile, diags *diag.Collector) []source.ManagedFile {
	return FlatBy(category, code, local, presets, func(_ int, f source.ManagedFile) string {
		return f.Provenance.Label()
	}, diags)
}

// FlatBy merges a flat category. Local entries come first and are never
// replaced. Preset entries keep the position of their first occurrence and
// the content of their last; a name provided by more than one contributor
// emits one collision diagnostic naming every contributor.
func FlatBy(category, code string, local []source.ManagedFile, presets [][]source.ManagedFile, label Labeler, diags *diag.Collector) []source.ManagedFile {
	index := make(map[string]int)
	isLocal := make(map[string]bool)
	contributors := make(map[string][]string)
	chosen := make(map[string]string)
	var order []string
	var out []source.ManagedFile

	for _, f := range local {
		if i, ok := index[f.Name]; ok {
			out[i] = f
			continue
		}
		index[f.Name] = len(out)
		isLocal[f.Name] = true
		out = append(out, f)
	}

	for layer, files := range presets {
		for _, f := range files {
			if isLocal[f.Name] {
				continue
			}
			l := label(layer, f)
			if !contains(contributors[f.Name], l) {
				contributors[f.Name] = append(contributors[f.Name], l)
			}
			chosen[f.Name] = l
			if i, ok := index[f.Name]; ok {
				out[i] = f
				continue
			}
			index[f.Name] = len(out)
			order = append(order, f.Name)
			out = append(out, f)
		}
	}

	for _, name := range order {
		sources := contributors[name]
		if len(sources) < 2 {
			continue
		}
		diags.Add(diag.Collision(code, category, name, sources, chosen[name]))
	}

	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
