package hooks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/source"
)

func cmds(commands ...string) []source.HookCommand {
	out := make([]source.HookCommand, 0, len(commands))
	for _, c := range commands {
		out = append(out, source.HookCommand{Command: c})
	}
	return out
}

func TestMergeConfigs_ConcatenatesWithoutDedup(t *testing.T) {
	a := source.HooksConfig{Version: 1, Hooks: map[string][]source.HookCommand{
		"stop": cmds("./hooks/aisync/a/notify.sh"),
	}}
	b := source.HooksConfig{Version: 1, Hooks: map[string][]source.HookCommand{
		"stop":          cmds("./hooks/aisync/a/notify.sh"),
		"afterFileEdit": cmds("./hooks/aisync/b/fmt.sh"),
	}}

	got := MergeConfigs(a, b)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, cmds("./hooks/aisync/a/notify.sh", "./hooks/aisync/a/notify.sh"), got.Hooks["stop"])
	assert.Equal(t, cmds("./hooks/aisync/b/fmt.sh"), got.Hooks["afterFileEdit"])
	assert.Equal(t, []string{"afterFileEdit", "stop"}, Events(got))
}

func TestDedupeFiles(t *testing.T) {
	files := []source.HookFile{
		{Name: "p/check.sh", Content: []byte("v1"), SourcePath: "/pkg-a/p/hooks/check.sh"},
		{Name: "p/other.sh", Content: []byte("x"), SourcePath: "/p/hooks/other.sh"},
		{Name: "p/check.sh", Content: []byte("v2"), SourcePath: "/pkg-b/p/hooks/check.sh"},
	}

	var diags diag.Collector
	got := DedupeFiles(files, &diags)

	require.Len(t, got, 2)
	assert.Equal(t, "p/check.sh", got[0].Name)
	assert.Equal(t, "v2", string(got[0].Content))
	assert.Equal(t, "p/other.sh", got[1].Name)

	require.Equal(t, 1, diags.Len())
	d := diags.Items()[0]
	assert.Equal(t, diag.CodeHookFileCollision, d.Code)
	assert.Contains(t, d.Message, "/pkg-a/p/hooks/check.sh")
	assert.Contains(t, d.Message, "/pkg-b/p/hooks/check.sh")
	assert.Equal(t, "/pkg-b/p/hooks/check.sh", d.Chosen)
}

func TestDedupeFiles_IdenticalContentIsSilent(t *testing.T) {
	files := []source.HookFile{
		{Name: "check.sh", Content: []byte("same"), SourcePath: "/a"},
		{Name: "check.sh", Content: []byte("same"), SourcePath: "/b"},
	}
	var diags diag.Collector
	got := DedupeFiles(files, &diags)
	assert.Len(t, got, 1)
	assert.Zero(t, diags.Len())
}

func TestDigest(t *testing.T) {
	assert.Len(t, Digest([]byte("x")), 64)
	assert.Equal(t, Digest([]byte("x")), Digest([]byte("x")))
	assert.NotEqual(t, Digest([]byte("x")), Digest([]byte("y")))
}

func decode(t *testing.T, data []byte) source.HooksConfig {
	t.Helper()
	var cfg source.HooksConfig
	require.NoError(t, json.Unmarshal(data, &cfg))
	return cfg
}

func TestMergeInto_PreservesHandAuthoredEntries(t *testing.T) {
	existing := []byte(`{
		// hand-written
		"version": 1,
		"hooks": {
			"stop": [
				{"command": "./hooks/mine.sh", "timeout": 5},
				{"command": "./hooks/aisync/old.sh"}
			],
			"beforeReadFile": [{"command": "./hooks/aisync/gone.sh"}]
		}
	}`)
	managed := source.HooksConfig{Version: 1, Hooks: map[string][]source.HookCommand{
		"stop": cmds("./hooks/aisync/p/notify.sh && echo ok"),
	}}

	out, err := MergeInto(existing, managed)
	require.NoError(t, err)

	cfg := decode(t, out)
	assert.Equal(t, cmds("./hooks/mine.sh", "./hooks/aisync/p/notify.sh && echo ok"), cfg.Hooks["stop"])
	assert.NotContains(t, cfg.Hooks, "beforeReadFile")
	assert.Contains(t, string(out), `"timeout": 5`)
	assert.Contains(t, string(out), "&& echo ok")

	again, err := MergeInto(out, managed)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again))
}

func TestMergeInto_EmptyExisting(t *testing.T) {
	managed := source.HooksConfig{Version: 1, Hooks: map[string][]source.HookCommand{
		"stop": cmds("./hooks/aisync/x.sh"),
	}}
	out, err := MergeInto(nil, managed)
	require.NoError(t, err)
	assert.Equal(t, cmds("./hooks/aisync/x.sh"), decode(t, out).Hooks["stop"])
}

func TestStrip(t *testing.T) {
	out, empty, err := Strip([]byte(`{"version":1,"hooks":{"stop":[{"command":"./hooks/aisync/x.sh"}]}}`))
	require.NoError(t, err)
	assert.True(t, empty)
	assert.Empty(t, decode(t, out).Hooks)

	out, empty, err = Strip([]byte(`{"version":1,"hooks":{"stop":[{"command":"./keep.sh"},{"command":"./hooks/aisync/x.sh"}]}}`))
	require.NoError(t, err)
	assert.False(t, empty)
	assert.Equal(t, cmds("./keep.sh"), decode(t, out).Hooks["stop"])
}

func TestMergeInto_InvalidExisting(t *testing.T) {
	_, err := MergeInto([]byte(`{"hooks": [`), source.HooksConfig{})
	assert.Error(t, err)
}
