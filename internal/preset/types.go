package preset

import (
	"github.com/agentx-labs/aisync/internal/manifest"
	"github.com/agentx-labs/aisync/internal/source"
)

// Layer is one node of the preset dependency graph.
type Layer struct {
	Ref        string // reference as written in the declaring config
	ConfigPath string // absolute path to the preset's aisync.json
	RootDir    string // absolute root holding the convention subtrees
	Version    string // package version, when the preset ships a package.json
	Config     *manifest.RawConfig
	Collection *source.Collection
}

// Provenance returns the provenance stamped on every record of the layer.
func (l *Layer) Provenance() source.Provenance {
	return source.Preset(l.Ref)
}

// Namespace returns the install namespace segments of the layer.
func (l *Layer) Namespace() []string {
	return l.Provenance().Namespace()
}
