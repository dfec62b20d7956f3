package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aisync.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFileFullConfig(t *testing.T) {
	path := writeConfig(t, `{
  // project-level rules live next to this file
  "rootDir": "./ai",
  "targets": ["cursor", "claude"],
  "presets": ["@acme/ai-rules", "./presets/local"],
  "overrides": {
    "legacy": false,
    "style": "./overrides/style.mdc",
  },
  "mcpServers": {
    "db": { "command": "npx", "args": ["-y", "db-mcp"], "env": { "TOKEN": "x" } },
    "remote": { "url": "https://mcp.example.com" },
    "noisy": false
  },
  "workspaces": true,
  "skipInstall": false
}`)

	cfg, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if cfg.RootDir != "./ai" {
		t.Errorf("RootDir = %q, want %q", cfg.RootDir, "./ai")
	}
	if len(cfg.Targets) != 2 || cfg.Targets[1] != TargetClaude {
		t.Errorf("Targets = %v", cfg.Targets)
	}
	if len(cfg.Presets) != 2 {
		t.Errorf("Presets = %v, want 2 entries", cfg.Presets)
	}
	if !cfg.Overrides["legacy"].Disable {
		t.Error("overrides.legacy should be a disable directive")
	}
	if got := cfg.Overrides["style"].Path; got != "./overrides/style.mdc" {
		t.Errorf("overrides.style path = %q", got)
	}
	if !cfg.MCPServers["noisy"].Disabled {
		t.Error("mcpServers.noisy should be disabled")
	}
	if srv := cfg.MCPServers["db"].Server; srv == nil || srv.Command != "npx" || srv.Env["TOKEN"] != "x" {
		t.Errorf("mcpServers.db = %+v", srv)
	}
	if got := cfg.MCPServerNames(); strings.Join(got, ",") != "db,noisy,remote" {
		t.Errorf("MCPServerNames() = %v", got)
	}
	if !cfg.Workspaces {
		t.Error("Workspaces should be true")
	}
}

func TestParseDefaultsTargets(t *testing.T) {
	cfg, err := Parse([]byte(`{}`), "aisync.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	targets := cfg.EffectiveTargets()
	if len(targets) != 1 || targets[0] != TargetCursor {
		t.Errorf("EffectiveTargets() = %v, want [cursor]", targets)
	}
}

func TestParseMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"presets": [`), "broken.json")
	var syn *SyntaxError
	if !errors.As(err, &syn) {
		t.Fatalf("expected *SyntaxError, got %T: %v", err, err)
	}
	if syn.Path != "broken.json" {
		t.Errorf("SyntaxError.Path = %q", syn.Path)
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	_, err := Parse([]byte(`{"preset": ["./typo"]}`), "aisync.json")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "preset") {
		t.Errorf("error %q should name the unknown key", err)
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestOverrideRejectsTrue(t *testing.T) {
	var o Override
	if err := o.UnmarshalJSON([]byte("true")); err == nil {
		t.Error("override value true should be rejected")
	}
}

func TestParseFileKeepsExtraServerFields(t *testing.T) {
	path := writeConfig(t, `{"mcpServers": {"db": {"command": "db", "cwd": "/srv", "timeout": 30}}}`)

	cfg, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	srv := cfg.MCPServers["db"].Server
	if srv == nil {
		t.Fatal("mcpServers.db missing")
	}
	if string(srv.Extra["cwd"]) != `"/srv"` || string(srv.Extra["timeout"]) != "30" {
		t.Errorf("Extra = %v", srv.Extra)
	}
	if _, ok := srv.Extra["command"]; ok {
		t.Error("typed field should not be duplicated in Extra")
	}

	out, err := json.Marshal(srv)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"command":"db","cwd":"/srv","timeout":30}`
	if string(out) != want {
		t.Errorf("Marshal = %s, want %s", out, want)
	}
}
