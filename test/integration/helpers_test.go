//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/install"
	"github.com/agentx-labs/aisync/internal/pipeline"
)

// writeFiles creates every file in files (slash paths relative to root).
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("creating dir for %s: %v", rel, err)
		}
		mode := os.FileMode(0644)
		if strings.HasSuffix(rel, ".sh") {
			mode = 0755
		}
		if err := os.WriteFile(path, []byte(content), mode); err != nil {
			t.Fatalf("writing %s: %v", rel, err)
		}
	}
}

// installProject resolves and installs the single package in dir.
func installProject(t *testing.T, dir string, diags *diag.Collector) *install.Report {
	t.Helper()
	res, err := pipeline.Run(dir, pipeline.Options{Cwd: dir}, diags)
	if err != nil {
		t.Fatalf("resolving %s: %v", dir, err)
	}
	w := &install.Writer{Diags: diags}
	report, err := w.Install(install.Bundle{
		Dir:        res.Dir,
		Targets:    res.Targets,
		Collection: res.Collection,
		MCPServers: res.MCPServers,
		Versions:   res.Versions(),
	})
	if err != nil {
		t.Fatalf("installing %s: %v", dir, err)
	}
	return report
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

// snapshot maps every file below root to its content.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", root, err)
	}
	return out
}
