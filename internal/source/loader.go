package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"

	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/issue"
	"github.com/agentx-labs/aisync/internal/namespace"
)

// excludedNames are files/directories skipped when copying a skill.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

// Load enumerates every convention subtree under root. Records are stamped
// with prov. Recoverable problems (agents without metadata, skills without
// SKILL.md, escaping hook commands) are reported to diags and the offending
// entry is skipped.
func Load(root string, prov Provenance, diags *diag.Collector) (*Collection, error) {
	c := &Collection{}
	var err error

	if c.Rules, err = loadTextFiles(filepath.Join(root, RulesDir), "**/*"+RuleExt, RuleExt, prov); err != nil {
		return nil, err
	}
	if c.Commands, err = loadTextFiles(filepath.Join(root, CommandsDir), "**/*"+CommandExt, CommandExt, prov); err != nil {
		return nil, err
	}
	if c.Assets, err = loadAssets(filepath.Join(root, AssetsDir), prov); err != nil {
		return nil, err
	}
	if c.Skills, err = loadSkills(filepath.Join(root, SkillsDir), prov, diags); err != nil {
		return nil, err
	}
	if c.Agents, err = loadAgents(filepath.Join(root, AgentsDir), prov, diags); err != nil {
		return nil, err
	}
	if c.Hooks, c.HookFiles, err = loadHooks(root, prov, diags); err != nil {
		return nil, err
	}

	return c, nil
}

// walkFiles calls fn for every regular, non-hidden file under dir matching
// pattern, in sorted order. rel is slash-separated and relative to dir.
// A missing dir yields no calls.
func walkFiles(dir, pattern string, fn func(rel, abs string, info fs.FileInfo) error) error {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	var matches []string
	err := doublestar.GlobWalk(os.DirFS(dir), pattern, func(p string, d fs.DirEntry) error {
		if d.IsDir() || isHidden(p) {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		matches = append(matches, p)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(matches)

	for _, rel := range matches {
		abs := filepath.Join(dir, filepath.FromSlash(rel))
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("stat %s: %w", abs, err)
		}
		if err := fn(rel, abs, info); err != nil {
			return err
		}
	}
	return nil
}

// isHidden reports whether any segment of a slash path starts with a dot.
func isHidden(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

func loadTextFiles(dir, pattern, ext string, prov Provenance) ([]ManagedFile, error) {
	var files []ManagedFile
	err := walkFiles(dir, pattern, func(rel, abs string, _ fs.FileInfo) error {
		data, err := os.ReadFile(abs)
		if err != nil {
			return fmt.Errorf("reading %s: %w", abs, err)
		}
		files = append(files, ManagedFile{
			Name:       strings.TrimSuffix(rel, ext),
			Content:    string(data),
			SourcePath: abs,
			Provenance: prov,
		})
		return nil
	})
	return files, err
}

func loadAssets(dir string, prov Provenance) ([]AssetFile, error) {
	var assets []AssetFile
	err := walkFiles(dir, "**", func(rel, abs string, info fs.FileInfo) error {
		if path.Ext(rel) == RuleExt {
			return nil
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			return fmt.Errorf("reading %s: %w", abs, err)
		}
		assets = append(assets, AssetFile{
			Name:       rel,
			Content:    data,
			SourcePath: abs,
			Mode:       info.Mode().Perm(),
			Provenance: prov,
		})
		return nil
	})
	return assets, err
}

func loadSkills(dir string, prov Provenance, diags *diag.Collector) ([]ManagedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var skills []ManagedFile
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		skillDir := filepath.Join(dir, entry.Name())
		manifestPath := filepath.Join(skillDir, SkillFile)
		data, err := os.ReadFile(manifestPath)
		if err != nil {
			diags.Warnf(diag.CodeSkillManifestMissing,
				"Skipping skill %q from %s: no %s found in %s", entry.Name(), prov.Label(), SkillFile, skillDir)
			continue
		}

		files, err := readTree(skillDir)
		if err != nil {
			return nil, err
		}

		fm, _ := ParseFrontmatter(string(data))
		skills = append(skills, ManagedFile{
			Name:        entry.Name(),
			Content:     string(data),
			SourcePath:  skillDir,
			Provenance:  prov,
			Description: fm.Description,
			Files:       files,
		})
	}
	return skills, nil
}

// readTree loads every regular file under dir, skipping excludedNames.
func readTree(dir string) ([]AssetFile, error) {
	var files []AssetFile
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if excludedNames[d.Name()] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, AssetFile{
			Name:       filepath.ToSlash(rel),
			Content:    data,
			SourcePath: p,
			Mode:       info.Mode().Perm(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading skill directory %s: %w", dir, err)
	}
	return files, nil
}

func loadAgents(dir string, prov Provenance, diags *diag.Collector) ([]ManagedFile, error) {
	files, err := loadTextFiles(dir, "**/*"+AgentExt, AgentExt, prov)
	if err != nil {
		return nil, err
	}

	agents := files[:0]
	for _, f := range files {
		fm, ok := ParseFrontmatter(f.Content)
		if !ok || fm.Name == "" || fm.Description == "" {
			diags.Warnf(diag.CodeAgentMetadataMissing,
				"Skipping agent %q from %s: frontmatter must declare name and description", f.Name, prov.Label())
			continue
		}
		f.Description = fm.Description
		agents = append(agents, f)
	}
	return agents, nil
}

// loadHooks parses root/hooks.json and loads every script under root/hooks/.
// Relative commands are resolved against root and must land inside the
// hooks directory; they are rewritten to their installed form
// (HookCommandPrefix + namespaced name). Other commands pass through.
func loadHooks(root string, prov Provenance, diags *diag.Collector) (HooksConfig, []HookFile, error) {
	cfg := HooksConfig{Version: 1, Hooks: map[string][]HookCommand{}}
	hooksDir := filepath.Join(root, HooksDir)
	ns := prov.Namespace()

	declPath := filepath.Join(root, HooksFile)
	data, err := os.ReadFile(declPath)
	switch {
	case err == nil:
		var raw HooksConfig
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return cfg, nil, &issue.Error{
				Kind:    issue.KindValidation,
				Path:    declPath,
				Message: "invalid hook declaration file",
				Cause:   err,
			}
		}
		if raw.Version != 0 {
			cfg.Version = raw.Version
		}
		for _, event := range sortedEvents(raw.Hooks) {
			if !IsHookEvent(event) {
				diags.Warnf(diag.CodeUnknownHookEvent,
					"Ignoring unknown hook event %q in %s", event, declPath)
				continue
			}
			for _, h := range raw.Hooks[event] {
				cmd, ok := installedCommand(h.Command, root, hooksDir, ns)
				if !ok {
					diags.Add(diag.Diagnostic{
						Code:    diag.CodeHookCommandEscape,
						Message: fmt.Sprintf("Dropping hook command %q for %s in %s: it must reference a file inside %s", h.Command, event, declPath, hooksDir),
						Sources: []string{declPath},
					})
					continue
				}
				cfg.Hooks[event] = append(cfg.Hooks[event], HookCommand{Command: cmd})
			}
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return cfg, nil, fmt.Errorf("reading %s: %w", declPath, err)
	}

	var files []HookFile
	err = walkFiles(hooksDir, "**", func(rel, abs string, info fs.FileInfo) error {
		if path.Base(rel) == HooksFile {
			return nil
		}
		content, err := os.ReadFile(abs)
		if err != nil {
			return fmt.Errorf("reading %s: %w", abs, err)
		}
		files = append(files, HookFile{
			Name:       namespace.Join(ns, rel),
			Basename:   path.Base(rel),
			Content:    content,
			SourcePath: abs,
			Mode:       info.Mode().Perm(),
			Provenance: prov,
		})
		return nil
	})
	if err != nil {
		return cfg, nil, err
	}

	return cfg, files, nil
}

// installedCommand maps a declared hook command to the command written into
// a target's hook declaration file. ok is false when a path reference
// escapes hooksDir.
func installedCommand(command, root, hooksDir string, ns []string) (string, bool) {
	command = strings.TrimSpace(command)
	if !strings.HasPrefix(command, "./") && !strings.HasPrefix(command, "../") {
		return command, true
	}

	ref, args := command, ""
	if i := strings.IndexAny(command, " \t"); i >= 0 {
		ref, args = command[:i], command[i:]
	}

	abs := filepath.Join(root, filepath.FromSlash(ref))
	rel, err := filepath.Rel(hooksDir, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	return HookCommandPrefix() + namespace.Join(ns, filepath.ToSlash(rel)) + args, true
}

func sortedEvents(m map[string][]HookCommand) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
