package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/issue"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestLoad_RulesCommandsAssets(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "rules/a.mdc", "rule a")
	writeFile(t, root, "rules/nested/b.mdc", "rule b")
	writeFile(t, root, "rules/notes.txt", "ignored")
	writeFile(t, root, "rules/.hidden.mdc", "ignored")
	writeFile(t, root, "commands/shared/run.md", "run")
	writeFile(t, root, "assets/diagram.png", "png")
	writeFile(t, root, "assets/docs/guide.md", "guide")
	writeFile(t, root, "assets/skip.mdc", "not an asset")
	writeFile(t, root, "assets/.DS_Store", "junk")

	c, err := Load(root, Preset("./p"), nil)
	require.NoError(t, err)

	require.Len(t, c.Rules, 2)
	assert.Equal(t, "a", c.Rules[0].Name)
	assert.Equal(t, "nested/b", c.Rules[1].Name)
	assert.Equal(t, "rule b", c.Rules[1].Content)
	assert.Equal(t, filepath.Join(root, "rules", "nested", "b.mdc"), c.Rules[1].SourcePath)
	assert.Equal(t, OriginPreset, c.Rules[0].Origin)
	assert.Equal(t, "./p", c.Rules[0].PresetName)

	require.Len(t, c.Commands, 1)
	assert.Equal(t, "shared/run", c.Commands[0].Name)

	var names []string
	for _, a := range c.Assets {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"diagram.png", "docs/guide.md"}, names)
}

func TestLoad_MissingRootIsEmpty(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope"), Local(), nil)
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestLoad_Skills(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "skills/pdf/SKILL.md", "---\nname: pdf\ndescription: Read PDFs\n---\nbody")
	writeFile(t, root, "skills/pdf/scripts/extract.py", "print()")
	writeFile(t, root, "skills/pdf/node_modules/x/index.js", "x")
	writeFile(t, root, "skills/broken/README.md", "no manifest")

	var diags diag.Collector
	c, err := Load(root, Local(), &diags)
	require.NoError(t, err)

	require.Len(t, c.Skills, 1)
	skill := c.Skills[0]
	assert.Equal(t, "pdf", skill.Name)
	assert.Equal(t, "Read PDFs", skill.Description)

	var files []string
	for _, f := range skill.Files {
		files = append(files, f.Name)
	}
	assert.ElementsMatch(t, []string{"SKILL.md", "scripts/extract.py"}, files)

	require.Equal(t, 1, diags.Len())
	assert.Equal(t, diag.CodeSkillManifestMissing, diags.Items()[0].Code)
}

func TestLoad_AgentsRequireMetadata(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "agents/reviewer.md", "---\nname: reviewer\ndescription: Reviews code\n---\nYou review.")
	writeFile(t, root, "agents/nameless.md", "---\ndescription: missing name\n---\n")
	writeFile(t, root, "agents/plain.md", "no frontmatter")

	var diags diag.Collector
	c, err := Load(root, Local(), &diags)
	require.NoError(t, err)

	require.Len(t, c.Agents, 1)
	assert.Equal(t, "reviewer", c.Agents[0].Name)
	assert.Equal(t, "Reviews code", c.Agents[0].Description)

	require.Equal(t, 2, diags.Len())
	for _, d := range diags.Items() {
		assert.Equal(t, diag.CodeAgentMetadataMissing, d.Code)
	}
}

func TestLoad_Hooks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "hooks.json", `{
		// comments are allowed
		"version": 1,
		"hooks": {
			"afterFileEdit": [
				{"command": "./hooks/format.sh --all"},
				{"command": "../outside.sh"},
				{"command": "echo done"},
			],
			"onTeleport": [{"command": "./hooks/format.sh"}]
		}
	}`)
	writeFile(t, root, "hooks/format.sh", "#!/bin/sh\n")
	writeFile(t, root, "hooks/lib/common.sh", "#!/bin/sh\n")

	var diags diag.Collector
	c, err := Load(root, Preset("@acme/presets"), &diags)
	require.NoError(t, err)

	assert.Equal(t, 1, c.Hooks.Version)
	assert.Equal(t, []HookCommand{
		{Command: "./hooks/aisync/@acme/presets/format.sh --all"},
		{Command: "echo done"},
	}, c.Hooks.Hooks["afterFileEdit"])
	assert.NotContains(t, c.Hooks.Hooks, "onTeleport")

	require.Len(t, c.HookFiles, 2)
	assert.Equal(t, "@acme/presets/format.sh", c.HookFiles[0].Name)
	assert.Equal(t, "format.sh", c.HookFiles[0].Basename)
	assert.Equal(t, "@acme/presets/lib/common.sh", c.HookFiles[1].Name)

	var codes []string
	for _, d := range diags.Items() {
		codes = append(codes, d.Code)
	}
	assert.ElementsMatch(t, []string{diag.CodeHookCommandEscape, diag.CodeUnknownHookEvent}, codes)
}

func TestLoad_LocalHookCommandHasNoNamespace(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "hooks.json", `{"version":1,"hooks":{"stop":[{"command":"./hooks/notify.sh"}]}}`)
	writeFile(t, root, "hooks/notify.sh", "#!/bin/sh\n")

	c, err := Load(root, Local(), nil)
	require.NoError(t, err)
	assert.Equal(t, "./hooks/aisync/notify.sh", c.Hooks.Hooks["stop"][0].Command)
	assert.Equal(t, "notify.sh", c.HookFiles[0].Name)
}

func TestLoad_InvalidHooksJSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "hooks.json", `{"hooks": [}`)

	_, err := Load(root, Local(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, issue.ErrValidation)
}

func TestInstalledCommand(t *testing.T) {
	root := filepath.FromSlash("/p")
	hooksDir := filepath.Join(root, HooksDir)

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"./hooks/a.sh", "./hooks/aisync/ns/a.sh", true},
		{"./hooks/../hooks/a.sh x", "./hooks/aisync/ns/a.sh x", true},
		{"./hooks", "", false},
		{"./other/a.sh", "", false},
		{"../a.sh", "", false},
		{"npx lint", "npx lint", true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := installedCommand(tc.in, root, hooksDir, []string{"ns"})
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFrontmatter(t *testing.T) {
	fm, ok := ParseFrontmatter("---\r\nname: x\r\ndescription: y\r\n---\r\nbody")
	require.True(t, ok)
	assert.Equal(t, Frontmatter{Name: "x", Description: "y"}, fm)

	_, ok = ParseFrontmatter("# heading")
	assert.False(t, ok)
}

func TestHasRecognizedEntries(t *testing.T) {
	root := t.TempDir()
	assert.False(t, HasRecognizedEntries(root))
	writeFile(t, root, "hooks.json", "{}")
	assert.True(t, HasRecognizedEntries(root))
}
