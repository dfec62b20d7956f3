package hooks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/agentx-labs/aisync/internal/source"
)

// IsManaged reports whether command points into the managed hook directory.
func IsManaged(command string) bool {
	return strings.HasPrefix(strings.TrimSpace(command), source.HookCommandPrefix())
}

// declFile is a hook declaration file read leniently: unknown top-level keys
// and unknown entry fields survive a rewrite.
type declFile struct {
	fields map[string]json.RawMessage
	hooks  map[string][]json.RawMessage
}

func readDecl(existing []byte) (*declFile, error) {
	d := &declFile{
		fields: map[string]json.RawMessage{},
		hooks:  map[string][]json.RawMessage{},
	}
	if len(bytes.TrimSpace(existing)) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(jsonc.ToJSON(existing), &d.fields); err != nil {
		return nil, fmt.Errorf("parsing hook declaration file: %w", err)
	}
	if raw, ok := d.fields["hooks"]; ok {
		if err := json.Unmarshal(raw, &d.hooks); err != nil {
			return nil, fmt.Errorf("parsing hooks: %w", err)
		}
	}
	return d, nil
}

// stripManaged removes every managed entry, dropping events left empty.
func (d *declFile) stripManaged() (removed int) {
	for event, entries := range d.hooks {
		kept := entries[:0]
		for _, raw := range entries {
			var entry source.HookCommand
			if err := json.Unmarshal(raw, &entry); err == nil && IsManaged(entry.Command) {
				removed++
				continue
			}
			kept = append(kept, raw)
		}
		if len(kept) == 0 {
			delete(d.hooks, event)
			continue
		}
		d.hooks[event] = kept
	}
	return removed
}

func (d *declFile) encode(version int) ([]byte, error) {
	if version > 0 {
		d.fields["version"] = json.RawMessage(strconv.Itoa(version))
	} else if _, ok := d.fields["version"]; !ok {
		d.fields["version"] = json.RawMessage("1")
	}
	hooks, err := marshal(d.hooks, "")
	if err != nil {
		return nil, err
	}
	d.fields["hooks"] = bytes.TrimSpace(hooks)

	out, err := marshal(d.fields, "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding hook declaration file: %w", err)
	}
	return out, nil
}

// marshal encodes v without HTML escaping so shell operators in commands
// stay readable.
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

// MergeInto returns the content of a hook declaration file holding every
// hand-authored entry of existing (order kept) followed by the managed
// commands of cfg. Managed entries already present in existing are replaced.
func MergeInto(existing []byte, cfg source.HooksConfig) ([]byte, error) {
	d, err := readDecl(existing)
	if err != nil {
		return nil, err
	}
	d.stripManaged()

	for _, event := range Events(cfg) {
		for _, cmd := range cfg.Hooks[event] {
			raw, err := marshal(cmd, "")
			if err != nil {
				return nil, err
			}
			d.hooks[event] = append(d.hooks[event], bytes.TrimSpace(raw))
		}
	}

	return d.encode(existingVersion(d, cfg.Version))
}

// Strip returns existing with every managed entry removed. empty is true
// when nothing but the version remains, so the caller may delete the file.
func Strip(existing []byte) (out []byte, empty bool, err error) {
	d, err := readDecl(existing)
	if err != nil {
		return nil, false, err
	}
	d.stripManaged()
	out, err = d.encode(0)
	if err != nil {
		return nil, false, err
	}
	return out, len(d.hooks) == 0 && onlyKnownFields(d.fields), nil
}

func existingVersion(d *declFile, managed int) int {
	var v int
	if raw, ok := d.fields["version"]; ok {
		_ = json.Unmarshal(raw, &v)
	}
	if managed > v {
		return managed
	}
	return v
}

func onlyKnownFields(fields map[string]json.RawMessage) bool {
	for k := range fields {
		if k != "version" && k != "hooks" {
			return false
		}
	}
	return true
}
