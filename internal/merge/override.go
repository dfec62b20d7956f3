package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/agentx-labs/aisync/internal/issue"
	"github.com/agentx-labs/aisync/internal/manifest"
	"github.com/agentx-labs/aisync/internal/source"
)

// Overrides applies the project's overrides to the merged rules and
// commands of c. configPath is only used in error messages and cwd resolves
// replacement paths.
//
// A key matches an entry by bare name or by namespaced name ("ns/name").
// Every key must match at least one rule or command. false removes every
// match. A path replaces the content of the matches, which collapse into a
// single local entry at the first match's position.
func Overrides(c *source.Collection, overrides map[string]manifest.Override, cwd, configPath string) (*source.Collection, error) {
	out := *c
	out.Rules = append([]source.ManagedFile(nil), c.Rules...)
	out.Commands = append([]source.ManagedFile(nil), c.Commands...)

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		ov := overrides[key]
		if !matchesAny(key, out.Rules) && !matchesAny(key, out.Commands) {
			return nil, issue.Validation(configPath,
				"override %q does not match any rule or command", key)
		}

		var replacement *replacementFile
		if !ov.Disable {
			r, err := readReplacement(ov.Path, cwd, configPath, key)
			if err != nil {
				return nil, err
			}
			replacement = r
		}

		out.Rules = applyOverride(key, out.Rules, replacement)
		out.Commands = applyOverride(key, out.Commands, replacement)
	}

	return &out, nil
}

type replacementFile struct {
	path    string
	content string
}

func readReplacement(p, cwd, configPath, key string) (*replacementFile, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(cwd, filepath.FromSlash(p))
	}
	data, err := os.ReadFile(p)
	if err != nil {
		e := issue.Validation(configPath, "override %q: cannot read replacement file %s", key, p)
		e.Cause = err
		return nil, e
	}
	return &replacementFile{path: p, content: string(data)}, nil
}

// Matches reports whether an override key names f.
func Matches(key string, f source.ManagedFile) bool {
	return key == f.Name || key == InstallKey(f.Name, f.Provenance)
}

func matchesAny(key string, files []source.ManagedFile) bool {
	for _, f := range files {
		if Matches(key, f) {
			return true
		}
	}
	return false
}

// applyOverride removes the matches of key from files, or collapses them
// into one local entry carrying r's content when r is non-nil. The local
// entry displaces any other local entry with the same name.
func applyOverride(key string, files []source.ManagedFile, r *replacementFile) []source.ManagedFile {
	out := make([]source.ManagedFile, 0, len(files))
	at := -1
	for _, f := range files {
		if !Matches(key, f) {
			out = append(out, f)
			continue
		}
		if r == nil || at >= 0 {
			continue
		}
		at = len(out)
		out = append(out, source.ManagedFile{
			Name:       f.Name,
			Content:    r.content,
			SourcePath: r.path,
			Provenance: source.Provenance{
				Origin:     source.OriginLocal,
				PresetName: f.PresetName,
			},
		})
	}
	if at < 0 {
		return out
	}

	name := out[at].Name
	kept := out[:0]
	for i, f := range out {
		if i != at && f.Origin == source.OriginLocal && f.Name == name {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// String renders an override for listings.
func String(ov manifest.Override) string {
	if ov.Disable {
		return "disabled"
	}
	return fmt.Sprintf("replaced by %s", ov.Path)
}
