package install

import (
	"fmt"
	"path/filepath"

	"github.com/agentx-labs/aisync/internal/platform"
	"github.com/agentx-labs/aisync/internal/targets"
)

// Clean removes everything Install creates for the given targets in dir:
// managed directories, managed skills and agents, managed entries of the
// shared files and the rule index block. Hand-authored content is kept.
// Directories left empty are pruned.
func (w *Writer) Clean(dir string, names []targets.Name) (*Report, error) {
	report := &Report{}
	ops := &fileOps{dir: dir, dryRun: w.DryRun, report: report}

	for _, name := range names {
		l, ok := targets.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown target %q", name)
		}
		if err := cleanTarget(ops, dir, l); err != nil {
			return nil, fmt.Errorf("cleaning %s: %w", name, err)
		}
	}
	return report, nil
}

func cleanTarget(ops *fileOps, dir string, l targets.Layout) error {
	toolRoot := filepath.Join(dir, filepath.FromSlash(l.Root))

	if err := removeOwned(ops, toolRoot, l); err != nil {
		return err
	}

	if l.Supports(targets.Hooks) {
		path := filepath.Join(toolRoot, targets.HooksFile)
		existing, found, err := readOptional(path)
		if err != nil {
			return err
		}
		if found {
			if err := stripHooksFile(ops, path, existing); err != nil {
				return err
			}
		}
	}

	if l.Supports(targets.MCP) && l.MCPFile != "" {
		path := filepath.Join(dir, filepath.FromSlash(l.MCPFile))
		existing, found, err := readOptional(path)
		if err != nil {
			return err
		}
		if found {
			if err := stripMCPFile(ops, path, existing); err != nil {
				return err
			}
		}
	}

	if l.RuleIndex != "" {
		path := filepath.Join(dir, filepath.FromSlash(l.RuleIndex))
		existing, found, err := readOptional(path)
		if err != nil {
			return err
		}
		if found {
			if err := removeRuleIndex(ops, path, existing); err != nil {
				return err
			}
		}
	}

	if !ops.dryRun {
		pruneEmpty(toolRoot, l)
	}
	return nil
}

// pruneEmpty removes the category directories and the tool root when
// nothing else lives in them.
func pruneEmpty(toolRoot string, l targets.Layout) {
	var dirs []string
	for _, c := range l.Categories {
		if c == targets.MCP {
			continue
		}
		dirs = append(dirs, filepath.Join(toolRoot, string(c)))
	}
	dirs = append(dirs, toolRoot)
	platform.RemoveEmptyDirs(dirs...)
}
