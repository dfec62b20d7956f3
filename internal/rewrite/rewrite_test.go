package rewrite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/source"
	"github.com/agentx-labs/aisync/internal/targets"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

// loadPreset loads root as the preset "./p".
func loadPreset(t *testing.T, root string) *source.Collection {
	t.Helper()
	c, err := source.Load(root, source.Preset("./p"), &diag.Collector{})
	require.NoError(t, err)
	return c
}

func ruleNamed(t *testing.T, c *source.Collection, name string) source.ManagedFile {
	t.Helper()
	for _, f := range c.Rules {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("rule %q not found", name)
	return source.ManagedFile{}
}

func TestRewrite_AssetReference(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "assets/diagram.png", "png")
	writeFile(t, root, "rules/a.mdc", "See ![d](../assets/diagram.png) and `../assets/diagram.png`.")

	c := loadPreset(t, root)
	got := New(c).Collection(c)

	assert.Equal(t,
		"See ![d](../../../assets/aisync/p/diagram.png) and `../../../assets/aisync/p/diagram.png`.",
		ruleNamed(t, got, "a").Content)
}

func TestRewrite_NestedRuleDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "assets/x.txt", "x")
	writeFile(t, root, "rules/group/deep.mdc", "[x](../../assets/x.txt)")

	c := loadPreset(t, root)
	got := New(c).Collection(c)
	assert.Equal(t, "[x](../../../../assets/aisync/p/x.txt)", ruleNamed(t, got, "group/deep").Content)
}

func TestRewrite_RuleAndCommandTargets(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "rules/base.mdc", "base")
	writeFile(t, root, "rules/a.mdc", "Follow ./base.mdc first.")
	writeFile(t, root, "commands/run.md", "Read ../rules/base.mdc")

	c := loadPreset(t, root)
	got := New(c).Collection(c)

	assert.Equal(t, "Follow ../../../rules/aisync/p/base.mdc first.", ruleNamed(t, got, "a").Content)
	assert.Equal(t, "Read ../../rules/aisync/p/base.mdc", got.Commands[0].Content)
}

func TestRewrite_LocalHasNoNamespace(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "assets/x.txt", "x")
	writeFile(t, root, "rules/a.mdc", "../assets/x.txt")

	c, err := source.Load(root, source.Local(), nil)
	require.NoError(t, err)
	got := New(c).Collection(c)
	assert.Equal(t, "../../assets/aisync/x.txt", got.Rules[0].Content)
}

func TestRewrite_NonexistentAndExampleTokensUntouched(t *testing.T) {
	root := t.TempDir()
	content := "Missing ../assets/nope.png\n\n```sh\nsource ./scripts/example.sh\n```\nOutside ../../etc/passwd"
	writeFile(t, root, "rules/a.mdc", content)

	c := loadPreset(t, root)
	got := New(c).Collection(c)
	assert.Equal(t, content, ruleNamed(t, got, "a").Content)
}

func TestRewrite_UninstalledFileUntouched(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "readme")
	writeFile(t, root, "rules/a.mdc", "See ../README.md")

	c := loadPreset(t, root)
	got := New(c).Collection(c)
	assert.Equal(t, "See ../README.md", ruleNamed(t, got, "a").Content)
}

func TestRewrite_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "assets/x.txt", "x")
	writeFile(t, root, "rules/a.mdc", "../assets/x.txt and ./b.mdc")
	writeFile(t, root, "rules/b.mdc", "b")

	c := loadPreset(t, root)
	r := New(c)
	once := r.Collection(c)
	twice := r.Collection(once)
	assert.Equal(t, ruleNamed(t, once, "a").Content, ruleNamed(t, twice, "a").Content)
}

func TestRewrite_PathTailNotMatched(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "assets/x.txt", "x")
	src := filepath.Join(root, "rules", "a.mdc")

	r := New(&source.Collection{Assets: []source.AssetFile{{Name: "x.txt", SourcePath: filepath.Join(root, "assets", "x.txt")}}})
	assert.Equal(t, "dir/../assets/x.txt", r.Rewrite("dir/../assets/x.txt", src, 2))
	assert.Equal(t, "(../../assets/aisync/x.txt)", r.Rewrite("(../assets/x.txt)", src, 2))
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 2, Depth(targets.Rules, source.ManagedFile{Name: "a", Provenance: source.Local()}))
	assert.Equal(t, 4, Depth(targets.Rules, source.ManagedFile{Name: "x/a", Provenance: source.Preset("./p")}))
	assert.Equal(t, 3, Depth(targets.Commands, source.ManagedFile{Name: "shared/run", Provenance: source.Preset("@s/pkg")}))
}
