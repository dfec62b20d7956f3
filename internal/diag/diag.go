package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Diagnostic codes.
const (
	CodeCommandCollision     = "command_collision"
	CodeSkillCollision       = "skill_collision"
	CodeAgentCollision       = "agent_collision"
	CodeHookFileCollision    = "hook_file_collision"
	CodeAssetCollision       = "asset_collision"
	CodeHookCommandEscape    = "hook_command_escape"
	CodeUnknownHookEvent     = "unknown_hook_event"
	CodeMCPConflict          = "mcp_conflict"
	CodeAgentMetadataMissing = "agent_metadata_missing"
	CodeSkillManifestMissing = "skill_manifest_missing"
	CodeManagedEntryShadowed = "managed_entry_shadowed"
)

// Diagnostic is a single non-fatal warning.
type Diagnostic struct {
	// Code is a machine-readable identifier (e.g., "command_collision").
	Code string
	// Message is the human-readable description.
	Message string
	// Sources names every contributor involved (presets, packages or paths).
	Sources []string
	// Chosen names the contributor whose definition was kept, if any.
	Chosen string
}

// Collector accumulates diagnostics in the order they are reported.
// The zero value is ready to use. A nil *Collector discards everything.
type Collector struct {
	items []Diagnostic
}

// Add appends a diagnostic.
func (c *Collector) Add(d Diagnostic) {
	if c == nil {
		return
	}
	c.items = append(c.items, d)
}

// Warnf appends a diagnostic with a formatted message and no sources.
func (c *Collector) Warnf(code, format string, args ...any) {
	c.Add(Diagnostic{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Items returns a copy of the collected diagnostics.
func (c *Collector) Items() []Diagnostic {
	if c == nil {
		return nil
	}
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Messages returns just the message strings, in order.
func (c *Collector) Messages() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.items))
	for _, d := range c.items {
		out = append(out, d.Message)
	}
	return out
}

// Collision builds the standard message for a name contributed by several
// sources where the last one wins.
//
//	Multiple presets provide the "shared/run" command: ./preset-a, ./preset-b. Using definition from ./preset-b.
func Collision(code, category, name string, sources []string, chosen string) Diagnostic {
	return Diagnostic{
		Code: code,
		Message: fmt.Sprintf("Multiple presets provide the %q %s: %s. Using definition from %s.",
			name, category, strings.Join(sources, ", "), chosen),
		Sources: sources,
		Chosen:  chosen,
	}
}

// NewLogger returns the logger used to render diagnostics.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "aisync",
		Level:  level,
	})
}

// Emit renders every diagnostic as a warning, in collection order.
func Emit(logger *log.Logger, c *Collector) {
	for _, d := range c.Items() {
		logger.Warn(d.Message, "code", d.Code)
	}
}
