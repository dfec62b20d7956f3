package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/agentx-labs/aisync/internal/branding"
)

// Lister finds the directories below root that hold a config file.
// Returned paths are slash-separated, relative to root ("." for root
// itself) and sorted.
type Lister interface {
	List(root string) ([]string, error)
}

// GlobLister walks the tree for config files matching "**/aisync.json",
// skipping node_modules and dot-directories.
type GlobLister struct{}

// List implements Lister.
func (GlobLister) List(root string) ([]string, error) {
	pattern := "**/" + branding.ConfigFile()
	var dirs []string
	err := fs.WalkDir(os.DirFS(root), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		ok, err := doublestar.Match(pattern, p)
		if err != nil {
			return err
		}
		if ok {
			dirs = append(dirs, path.Dir(p))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering packages in %s: %w", root, err)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func skipDir(name string) bool {
	return name == "node_modules" || strings.HasPrefix(name, ".")
}

// Dir joins a listed directory onto root.
func Dir(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
