package install

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/aisync/internal/branding"
	"github.com/agentx-labs/aisync/internal/source"
)

// Metadata is the management side-file written next to every installed
// skill and agent. Its presence is what marks the entry as owned.
type Metadata struct {
	ManagedBy string `json:"managedBy"`
	Source    string `json:"source"`
	Preset    string `json:"preset,omitempty"`
	Version   string `json:"version,omitempty"`
}

func newMetadata(prov source.Provenance, versions map[string]string) Metadata {
	m := Metadata{
		ManagedBy: branding.CLIName(),
		Source:    string(prov.Origin),
		Preset:    prov.PresetName,
	}
	if prov.Origin == source.OriginPreset {
		m.Version = versions[prov.PresetName]
	}
	return m
}

func (m Metadata) encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// skillMetadataPath is the side-file inside an installed skill directory.
func skillMetadataPath(skillDir string) string {
	return filepath.Join(skillDir, branding.MetadataFile())
}

// agentMetadataPath is the side-file next to an installed agent file:
// reviewer.md gets reviewer.aisync.json.
func agentMetadataPath(agentFile string) string {
	return strings.TrimSuffix(agentFile, source.AgentExt) + "." + branding.ManagedDir() + ".json"
}

// agentFileFor inverts agentMetadataPath.
func agentFileFor(metadataPath string) string {
	return strings.TrimSuffix(metadataPath, "."+branding.ManagedDir()+".json") + source.AgentExt
}
