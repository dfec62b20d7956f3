// Package mcp merges MCP server declarations from presets, the project and
// workspace packages, and writes them into a target's server-list file next
// to hand-authored entries.
package mcp
