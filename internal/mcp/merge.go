package mcp

import (
	"reflect"
	"sort"
	"strings"

	"github.com/agentx-labs/aisync/internal/diag"
	"github.com/agentx-labs/aisync/internal/manifest"
)

// Servers maps server names to their resolved declarations.
type Servers map[string]manifest.MCPServer

// Names returns the server names in sorted order.
func (s Servers) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge resolves the servers of one project. presets are applied in order,
// then local; within each map a false entry cancels any definition
// contributed before it, so local always has the last word.
func Merge(local map[string]manifest.MCPServerEntry, presets ...map[string]manifest.MCPServerEntry) Servers {
	out := Servers{}
	apply := func(entries map[string]manifest.MCPServerEntry) {
		for _, name := range sortedNames(entries) {
			e := entries[name]
			if e.Disabled || e.Server == nil {
				delete(out, name)
				continue
			}
			out[name] = *e.Server
		}
	}
	for _, p := range presets {
		apply(p)
	}
	apply(local)
	return out
}

// Contribution is the resolved server set of one workspace package.
type Contribution struct {
	Package string
	Servers Servers
}

// Aggregate merges the servers of every package, in the given order. A name
// declared with differing definitions warns, listing the contributing
// packages; the last package's definition wins.
func Aggregate(contribs []Contribution, diags *diag.Collector) Servers {
	out := Servers{}
	providers := map[string][]string{}
	conflicting := map[string]bool{}
	var order []string

	for _, c := range contribs {
		for _, name := range c.Servers.Names() {
			server := c.Servers[name]
			if prev, ok := out[name]; ok {
				if !reflect.DeepEqual(prev, server) {
					conflicting[name] = true
				}
			} else {
				order = append(order, name)
			}
			providers[name] = append(providers[name], c.Package)
			out[name] = server
		}
	}

	for _, name := range order {
		if !conflicting[name] {
			continue
		}
		pkgs := providers[name]
		chosen := pkgs[len(pkgs)-1]
		diags.Add(diag.Diagnostic{
			Code: diag.CodeMCPConflict,
			Message: "MCP server \"" + name + "\" is defined differently in " +
				strings.Join(pkgs, ", ") + ". Using definition from " + chosen + ".",
			Sources: pkgs,
			Chosen:  chosen,
		})
	}
	return out
}

func sortedNames(m map[string]manifest.MCPServerEntry) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
