package source

import (
	"io/fs"

	"github.com/agentx-labs/aisync/internal/namespace"
)

// Origin says whether a record came from the project itself or from a preset.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginPreset Origin = "preset"
)

// Provenance identifies where a record was loaded from.
type Provenance struct {
	Origin Origin
	// PresetName is the preset reference as written in the declaring config.
	// Empty for local records. It is kept after an override resets Origin to
	// local, for display only.
	PresetName string
}

// Local is the provenance of records loaded from the project's own root.
func Local() Provenance { return Provenance{Origin: OriginLocal} }

// Preset is the provenance of records loaded from the preset named ref.
func Preset(ref string) Provenance { return Provenance{Origin: OriginPreset, PresetName: ref} }

// Namespace returns the install namespace segments: the preset's namespace
// for preset records, nil for local ones.
func (p Provenance) Namespace() []string {
	if p.Origin != OriginPreset {
		return nil
	}
	return namespace.Of(p.PresetName)
}

// Label names the provenance in diagnostics and listings.
func (p Provenance) Label() string {
	if p.Origin == OriginPreset {
		return p.PresetName
	}
	if p.PresetName != "" {
		return "local (overrides " + p.PresetName + ")"
	}
	return "local"
}

// ManagedFile is a rule, command, skill or agent. Name is the merge key
// within its category: slash-separated, relative to the category root, with
// the category's fixed extension stripped.
type ManagedFile struct {
	Name       string
	Content    string
	SourcePath string
	Provenance

	// Description comes from frontmatter (skills and agents).
	Description string
	// Files holds every file of a skill directory, relative to it. Only set
	// for skills, which are copied whole.
	Files []AssetFile
}

// AssetFile is copied as-is; it is never merged, only referenced.
type AssetFile struct {
	Name       string
	Content    []byte
	SourcePath string
	Mode       fs.FileMode
	Provenance
}

// HookFile is a script under the hooks directory. Name is its installed
// path relative to the managed hooks directory, including the preset
// namespace; it is the dedup key.
type HookFile struct {
	Name       string
	Basename   string
	Content    []byte
	SourcePath string
	Mode       fs.FileMode
	Provenance
}

// HookCommand is one entry bound to a lifecycle event.
type HookCommand struct {
	Command string `json:"command"`
}

// HooksConfig is the hook declaration file.
type HooksConfig struct {
	Version int                      `json:"version"`
	Hooks   map[string][]HookCommand `json:"hooks"`
}

// Empty reports whether no event carries any command.
func (h HooksConfig) Empty() bool {
	for _, cmds := range h.Hooks {
		if len(cmds) > 0 {
			return false
		}
	}
	return true
}

// Collection is everything loaded from one root directory.
type Collection struct {
	Rules     []ManagedFile
	Commands  []ManagedFile
	Assets    []AssetFile
	Skills    []ManagedFile
	Agents    []ManagedFile
	Hooks     HooksConfig
	HookFiles []HookFile
}

// Empty reports whether the collection holds nothing at all.
func (c *Collection) Empty() bool {
	return len(c.Rules) == 0 && len(c.Commands) == 0 && len(c.Assets) == 0 &&
		len(c.Skills) == 0 && len(c.Agents) == 0 && len(c.HookFiles) == 0 && c.Hooks.Empty()
}
