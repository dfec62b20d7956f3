package targets

import (
	"path"

	"github.com/agentx-labs/aisync/internal/branding"
	"github.com/agentx-labs/aisync/internal/namespace"
	"github.com/agentx-labs/aisync/internal/source"
)

// Name identifies a supported consumer tool.
type Name string

const (
	Cursor   Name = "cursor"
	Claude   Name = "claude"
	Codex    Name = "codex"
	Windsurf Name = "windsurf"
)

// Category is an artifact category a target may support.
type Category string

const (
	Rules    Category = "rules"
	Commands Category = "commands"
	Assets   Category = "assets"
	Hooks    Category = "hooks"
	Skills   Category = "skills"
	Agents   Category = "agents"
	MCP      Category = "mcp"
)

// Layout is the install convention of one target. Paths are slash-separated
// and relative to the project directory.
type Layout struct {
	Name Name
	// Root is the tool's directory; every category path below is relative
	// to it.
	Root       string
	Categories []Category
	// MCPFile is the server-list file, relative to the project directory.
	MCPFile string
	// RuleIndex is a single file that receives a marker block listing every
	// installed rule. Empty when the tool discovers rules on its own.
	RuleIndex string
	// RuleIndexPrefix starts each line of the rule index block.
	RuleIndexPrefix string
}

// All returns all supported target names.
func All() []Name {
	return []Name{Cursor, Claude, Codex, Windsurf}
}

var registry = map[Name]Layout{
	Cursor: {
		Name:       Cursor,
		Root:       ".cursor",
		Categories: []Category{Rules, Commands, Assets, Hooks, Skills, Agents, MCP},
		MCPFile:    ".cursor/mcp.json",
	},
	Claude: {
		Name:            Claude,
		Root:            ".claude",
		Categories:      []Category{Rules, Commands, Assets, Skills, Agents, MCP},
		MCPFile:         ".mcp.json",
		RuleIndex:       "CLAUDE.md",
		RuleIndexPrefix: "@",
	},
	Codex: {
		Name:            Codex,
		Root:            ".codex",
		Categories:      []Category{Rules, Assets, Skills},
		RuleIndex:       "AGENTS.md",
		RuleIndexPrefix: "- ",
	},
	Windsurf: {
		Name:            Windsurf,
		Root:            ".windsurf",
		Categories:      []Category{Rules, Assets},
		RuleIndex:       ".windsurfrules",
		RuleIndexPrefix: "- ",
	},
}

// Parse converts a string to a target name, returning false if invalid.
func Parse(s string) (Name, bool) {
	n := Name(s)
	if _, ok := registry[n]; ok {
		return n, true
	}
	return "", false
}

// Lookup returns the layout of a target.
func Lookup(n Name) (Layout, bool) {
	l, ok := registry[n]
	return l, ok
}

// Supports reports whether the target installs category c.
func (l Layout) Supports(c Category) bool {
	for _, have := range l.Categories {
		if have == c {
			return true
		}
	}
	return false
}

// Path joins rel (relative to the tool root) onto the layout root.
func (l Layout) Path(rel string) string {
	return path.Join(l.Root, rel)
}

// ManagedDirs returns the tool-root-relative directories the tool owns
// outright for this target.
func (l Layout) ManagedDirs() []string {
	var dirs []string
	for _, c := range []Category{Rules, Commands, Assets, Hooks} {
		if l.Supports(c) {
			dirs = append(dirs, path.Join(string(c), branding.ManagedDir()))
		}
	}
	return dirs
}

// HooksFile is the hook declaration file relative to the tool root.
const HooksFile = source.HooksFile

// Installed paths relative to the tool root, identical for every target.

// RulePath returns where a rule installs.
func RulePath(ns []string, name string) string {
	return path.Join(string(Rules), branding.ManagedDir(), namespace.Join(ns, name)+source.RuleExt)
}

// CommandPath returns where a command installs. Commands are flat.
func CommandPath(name string) string {
	return path.Join(string(Commands), branding.ManagedDir(), name+source.CommandExt)
}

// AssetPath returns where an asset installs.
func AssetPath(ns []string, name string) string {
	return path.Join(string(Assets), branding.ManagedDir(), namespace.Join(ns, name))
}

// HookFilePath returns where a hook script installs. name already carries
// its namespace.
func HookFilePath(name string) string {
	return path.Join(string(Hooks), branding.ManagedDir(), name)
}

// SkillDir returns the directory a skill installs into.
func SkillDir(name string) string {
	return path.Join(string(Skills), name)
}

// AgentPath returns where an agent installs.
func AgentPath(name string) string {
	return path.Join(string(Agents), name+source.AgentExt)
}

// BaseDepth is the number of directories between the tool root and the
// managed directory of a rewritable category.
func BaseDepth(c Category) int {
	switch c {
	case Rules, Commands:
		return 2
	default:
		return 0
	}
}
