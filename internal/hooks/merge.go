package hooks

import (
	"encoding/hex"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/source"
)

// Digest returns the hex BLAKE3-256 digest of content.
func Digest(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// MergeConfigs concatenates the command lists of every event across configs,
// in argument order. Entries are never deduplicated. The result's version is
// the highest declared, defaulting to 1.
func MergeConfigs(configs ...source.HooksConfig) source.HooksConfig {
	out := source.HooksConfig{Version: 1, Hooks: map[string][]source.HookCommand{}}
	for _, cfg := range configs {
		if cfg.Version > out.Version {
			out.Version = cfg.Version
		}
		for _, event := range Events(cfg) {
			out.Hooks[event] = append(out.Hooks[event], cfg.Hooks[event]...)
		}
	}
	return out
}

// Events returns the events of cfg that carry at least one command, sorted.
func Events(cfg source.HooksConfig) []string {
	events := make([]string, 0, len(cfg.Hooks))
	for event, cmds := range cfg.Hooks {
		if len(cmds) > 0 {
			events = append(events, event)
		}
	}
	sort.Strings(events)
	return events
}

// DedupeFiles collapses hook files sharing an installed name. The first
// occurrence keeps its position and the last occurrence's content wins.
// Differing content warns, naming both source paths; identical content is
// unified silently.
func DedupeFiles(files []source.HookFile, diags *diag.Collector) []source.HookFile {
	index := make(map[string]int, len(files))
	digests := make(map[string]string, len(files))
	out := make([]source.HookFile, 0, len(files))

	for _, f := range files {
		digest := Digest(f.Content)
		i, seen := index[f.Name]
		if !seen {
			index[f.Name] = len(out)
			digests[f.Name] = digest
			out = append(out, f)
			continue
		}

		prev := out[i]
		if digests[f.Name] != digest {
			diags.Add(diag.Diagnostic{
				Code: diag.CodeHookFileCollision,
				Message: "Hook file \"" + f.Name + "\" has different content in " +
					prev.SourcePath + " and " + f.SourcePath + ". Using " + f.SourcePath + ".",
				Sources: []string{prev.SourcePath, f.SourcePath},
				Chosen:  f.SourcePath,
			})
		}
		digests[f.Name] = digest
		out[i] = f
	}
	return out
}
