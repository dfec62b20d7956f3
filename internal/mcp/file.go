package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/agentx-labs/aisync/internal/branding"
	"github.com/agentx-labs/aisync/internal/diag"
)

const serversKey = "mcpServers"

// listFile is a server-list file read leniently so unknown keys survive.
type listFile struct {
	fields  map[string]json.RawMessage
	servers map[string]json.RawMessage
}

func readList(existing []byte) (*listFile, error) {
	f := &listFile{
		fields:  map[string]json.RawMessage{},
		servers: map[string]json.RawMessage{},
	}
	if len(bytes.TrimSpace(existing)) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(jsonc.ToJSON(existing), &f.fields); err != nil {
		return nil, fmt.Errorf("parsing server-list file: %w", err)
	}
	if raw, ok := f.fields[serversKey]; ok {
		if err := json.Unmarshal(raw, &f.servers); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", serversKey, err)
		}
	}
	return f, nil
}

// isManaged reports whether a raw server entry carries the ownership marker.
func isManaged(raw json.RawMessage) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	var marked bool
	if v, ok := fields[branding.MarkerField()]; ok {
		_ = json.Unmarshal(v, &marked)
	}
	return marked
}

func (f *listFile) stripManaged() {
	for name, raw := range f.servers {
		if isManaged(raw) {
			delete(f.servers, name)
		}
	}
}

func (f *listFile) encode() ([]byte, error) {
	servers, err := marshal(f.servers, "")
	if err != nil {
		return nil, err
	}
	f.fields[serversKey] = bytes.TrimSpace(servers)
	out, err := marshal(f.fields, "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding server-list file: %w", err)
	}
	return out, nil
}

// MergeInto returns the content of a server-list file holding every
// hand-authored entry of existing plus servers, each marked as managed.
// Previously managed entries are replaced. A managed server whose name is
// taken by a hand-authored entry is skipped with a warning.
func MergeInto(existing []byte, servers Servers, path string, diags *diag.Collector) ([]byte, error) {
	f, err := readList(existing)
	if err != nil {
		return nil, err
	}
	f.stripManaged()

	for _, name := range servers.Names() {
		if _, taken := f.servers[name]; taken {
			diags.Warnf(diag.CodeManagedEntryShadowed,
				"MCP server %q in %s is hand-authored; leaving it unchanged", name, path)
			continue
		}
		raw, err := markedServer(servers[name])
		if err != nil {
			return nil, err
		}
		f.servers[name] = raw
	}
	return f.encode()
}

// Strip returns existing with every managed server removed. empty is true
// when nothing else remains in the file.
func Strip(existing []byte) (out []byte, empty bool, err error) {
	f, err := readList(existing)
	if err != nil {
		return nil, false, err
	}
	f.stripManaged()
	onlyServers := len(f.fields) == 0 || (len(f.fields) == 1 && f.fields[serversKey] != nil)
	out, err = f.encode()
	if err != nil {
		return nil, false, err
	}
	return out, len(f.servers) == 0 && onlyServers, nil
}

func markedServer(s any) (json.RawMessage, error) {
	data, err := marshal(s, "")
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	obj[branding.MarkerField()] = json.RawMessage("true")
	raw, err := marshal(obj, "")
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(raw), nil
}

func marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
