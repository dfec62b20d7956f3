// Package scaffold generates starter files from embedded templates. It powers
// the "aisync init" command, producing either a project config or a preset
// skeleton (config plus example rule and command).
package scaffold
