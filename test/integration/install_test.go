//go:build integration

package integration_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/install"
	"github.com/agentx-labs/aisync/internal/pipeline"
	"github.com/agentx-labs/aisync/internal/targets"
	"github.com/agentx-labs/aisync/internal/workspace"
)

// A local rule and a preset rule with the same name both install, each at
// its own path.
func TestLocalAndPresetRuleCoexist(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"project/aisync.json": `{"rootDir": ".", "presets": ["../p"]}`,
		"project/rules/a.mdc": "local a\n",
		"p/aisync.json":       `{}`,
		"p/rules/a.mdc":       "preset a\n",
	})
	project := filepath.Join(dir, "project")

	diags := &diag.Collector{}
	installProject(t, project, diags)

	rules := filepath.Join(project, ".cursor", "rules", "aisync")
	if got := readFile(t, filepath.Join(rules, "a.mdc")); got != "local a\n" {
		t.Errorf("local rule = %q", got)
	}
	if got := readFile(t, filepath.Join(rules, "p", "a.mdc")); got != "preset a\n" {
		t.Errorf("preset rule = %q", got)
	}
	if diags.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", diags.Messages())
	}
}

// Two presets declaring the same command: the later one wins and the
// collision is reported with every contributor.
func TestCommandCollisionLastPresetWins(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"aisync.json":                     `{"targets": ["cursor", "claude"], "presets": ["./preset-a", "./preset-b"]}`,
		"preset-a/aisync.json":            `{}`,
		"preset-a/commands/shared/run.md": "run from a\n",
		"preset-b/aisync.json":            `{}`,
		"preset-b/commands/shared/run.md": "run from b\n",
	})

	diags := &diag.Collector{}
	installProject(t, dir, diags)

	for _, root := range []string{".cursor", ".claude"} {
		path := filepath.Join(dir, root, "commands", "aisync", "shared", "run.md")
		if got := readFile(t, path); got != "run from b\n" {
			t.Errorf("%s = %q, want preset-b content", path, got)
		}
	}

	msgs := diags.Messages()
	if len(msgs) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one", msgs)
	}
	for _, want := range []string{"./preset-a", "./preset-b", "Using definition from ./preset-b"} {
		if !strings.Contains(msgs[0], want) {
			t.Errorf("message %q missing %q", msgs[0], want)
		}
	}
}

// Two packages pull the same preset from their own node_modules with
// different hook script content: the root gets one script, the last one.
func TestWorkspaceHookScriptConflict(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"aisync.json": `{"workspaces": true, "targets": ["cursor"]}`,
	}
	for _, pkg := range []string{"pkg-a", "pkg-b"} {
		files[pkg+"/aisync.json"] = `{"presets": ["@team/hooks"]}`
		files[pkg+"/node_modules/@team/hooks/aisync.json"] = `{}`
		files[pkg+"/node_modules/@team/hooks/hooks.json"] = `{"version": 1, "hooks": {"stop": [{"command": "./hooks/check.sh"}]}}`
		files[pkg+"/node_modules/@team/hooks/hooks/check.sh"] = "#!/bin/sh\necho " + pkg + "\n"
	}
	writeFiles(t, root, files)

	diags := &diag.Collector{}
	ws, err := workspace.Resolve(root, workspace.GlobLister{}, pipeline.Options{Cwd: root}, diags)
	if err != nil {
		t.Fatal(err)
	}
	if len(ws.Packages) != 2 {
		t.Fatalf("packages = %d, want 2", len(ws.Packages))
	}

	w := &install.Writer{Diags: diags}
	if _, err := w.Install(install.Bundle{
		Dir:        ws.Root,
		Targets:    ws.Targets,
		Collection: ws.Aggregate,
		MCPServers: ws.MCPServers,
	}); err != nil {
		t.Fatal(err)
	}

	script := filepath.Join(root, ".cursor", "hooks", "aisync", "@team", "hooks", "check.sh")
	if got := readFile(t, script); !strings.Contains(got, "pkg-b") {
		t.Errorf("root hook script = %q, want pkg-b content", got)
	}

	hooksFile := readFile(t, filepath.Join(root, ".cursor", targets.HooksFile))
	if strings.Count(hooksFile, "./hooks/aisync/@team/hooks/check.sh") != 1 {
		t.Errorf("hook command should appear once:\n%s", hooksFile)
	}

	var found bool
	for _, d := range diags.Items() {
		if d.Code != diag.CodeHookFileCollision {
			continue
		}
		found = true
		for _, pkg := range []string{"pkg-a", "pkg-b"} {
			want := filepath.Join(root, pkg, "node_modules", "@team", "hooks", "hooks", "check.sh")
			if !strings.Contains(d.Message, want) {
				t.Errorf("message %q missing %s", d.Message, want)
			}
		}
	}
	if !found {
		t.Errorf("no hook_file_collision in %v", diags.Messages())
	}
}

// A second install and a clean leave the tree byte-identical and then
// free of managed content, keeping hand-authored files.
func TestReinstallIsIdempotentAndCleanRestores(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"aisync.json":            `{"rootDir": ".", "targets": ["cursor", "claude"], "presets": ["./p"], "mcpServers": {"db": {"command": "db-mcp"}}}`,
		"rules/style.mdc":        "See [shared](../p/rules/shared.mdc)\n",
		"p/aisync.json":          `{}`,
		"p/rules/shared.mdc":     "shared\n",
		"CLAUDE.md":              "# Notes\n",
		".cursor/rules/mine.mdc": "hand-authored\n",
	})

	installProject(t, dir, nil)
	first := snapshot(t, dir)
	installProject(t, dir, nil)
	second := snapshot(t, dir)

	if len(first) != len(second) {
		t.Fatalf("file count changed: %d -> %d", len(first), len(second))
	}
	for path, content := range first {
		if second[path] != content {
			t.Errorf("%s changed on reinstall", path)
		}
	}
	if !strings.Contains(first["CLAUDE.md"], "rules/aisync/p/shared.mdc") {
		t.Errorf("rule index missing preset rule:\n%s", first["CLAUDE.md"])
	}

	w := &install.Writer{}
	if _, err := w.Clean(dir, targets.All()); err != nil {
		t.Fatal(err)
	}
	after := snapshot(t, dir)
	for path := range after {
		if strings.Contains(path, "/aisync/") {
			t.Errorf("managed file survived clean: %s", path)
		}
	}
	assertExists(t, filepath.Join(dir, ".cursor", "rules", "mine.mdc"))
	if after["CLAUDE.md"] != "# Notes\n" {
		t.Errorf("CLAUDE.md after clean = %q", after["CLAUDE.md"])
	}
}
