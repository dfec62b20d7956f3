package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Target names accepted in the "targets" array.
const (
	TargetCursor   = "cursor"
	TargetClaude   = "claude"
	TargetCodex    = "codex"
	TargetWindsurf = "windsurf"
)

// ValidTargets contains all valid target values.
var ValidTargets = []string{
	TargetCursor,
	TargetClaude,
	TargetCodex,
	TargetWindsurf,
}

// DefaultTargets is used when a config declares no targets.
var DefaultTargets = []string{TargetCursor}

// RawConfig is the decoded form of an aisync.json file, before any preset
// resolution or merging.
type RawConfig struct {
	Schema      string                    `json:"$schema,omitempty"`
	RootDir     string                    `json:"rootDir,omitempty"`
	Targets     []string                  `json:"targets,omitempty"`
	Presets     []string                  `json:"presets,omitempty"`
	Overrides   map[string]Override       `json:"overrides,omitempty"`
	MCPServers  map[string]MCPServerEntry `json:"mcpServers,omitempty"`
	Workspaces  bool                      `json:"workspaces,omitempty"`
	SkipInstall bool                      `json:"skipInstall,omitempty"`
}

// EffectiveTargets returns the declared targets, or DefaultTargets when none
// were declared.
func (c *RawConfig) EffectiveTargets() []string {
	if len(c.Targets) == 0 {
		return append([]string(nil), DefaultTargets...)
	}
	return append([]string(nil), c.Targets...)
}

// OverrideNames returns the override keys in sorted order.
func (c *RawConfig) OverrideNames() []string {
	return sortedKeys(c.Overrides)
}

// MCPServerNames returns the server names in sorted order.
func (c *RawConfig) MCPServerNames() []string {
	return sortedKeys(c.MCPServers)
}

// Override is one entry of the "overrides" map: either false (disable the
// named rule or command) or a path to a local replacement file.
type Override struct {
	Disable bool
	Path    string
}

// UnmarshalJSON accepts false or a string.
func (o *Override) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("false")) {
		*o = Override{Disable: true}
		return nil
	}
	var path string
	if err := json.Unmarshal(data, &path); err != nil || path == "" {
		return fmt.Errorf("override must be false or a file path, got %s", data)
	}
	*o = Override{Path: path}
	return nil
}

// MarshalJSON writes false or the path string.
func (o Override) MarshalJSON() ([]byte, error) {
	if o.Disable {
		return []byte("false"), nil
	}
	return json.Marshal(o.Path)
}

// MCPServer is a single server declaration in the server-list file.
type MCPServer struct {
	Type    string            `json:"type,omitempty"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`

	// Extra holds every other field of the declaration (cwd, timeout, ...),
	// compacted, so it is written back unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// mcpServerFields are the keys decoded into MCPServer's typed fields.
var mcpServerFields = []string{"type", "command", "args", "env", "url", "headers"}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (s *MCPServer) UnmarshalJSON(data []byte) error {
	type plain MCPServer
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range mcpServerFields {
		delete(all, k)
	}
	p.Extra = nil
	for k, v := range all {
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return fmt.Errorf("mcp server field %q: %w", k, err)
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage, len(all))
		}
		p.Extra[k] = buf.Bytes()
	}
	*s = MCPServer(p)
	return nil
}

// MarshalJSON writes the typed fields merged with Extra, keys sorted.
func (s MCPServer) MarshalJSON() ([]byte, error) {
	type plain MCPServer
	typed, err := encodeJSON(plain(s))
	if err != nil || len(s.Extra) == 0 {
		return typed, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(typed, &obj); err != nil {
		return nil, err
	}
	for k, v := range s.Extra {
		if _, ok := obj[k]; !ok {
			obj[k] = v
		}
	}
	return encodeJSON(obj)
}

// encodeJSON marshals v without HTML escaping or a trailing newline.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

// MCPServerEntry is one entry of the "mcpServers" map: either false (cancel
// a definition contributed earlier) or a server declaration.
type MCPServerEntry struct {
	Disabled bool
	Server   *MCPServer
}

// UnmarshalJSON accepts false or an object.
func (e *MCPServerEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("false")) {
		*e = MCPServerEntry{Disabled: true}
		return nil
	}
	var s MCPServer
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("mcp server must be false or an object: %w", err)
	}
	*e = MCPServerEntry{Server: &s}
	return nil
}

// MarshalJSON writes false or the server object.
func (e MCPServerEntry) MarshalJSON() ([]byte, error) {
	if e.Disabled || e.Server == nil {
		return []byte("false"), nil
	}
	return json.Marshal(e.Server)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
