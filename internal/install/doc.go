// Package install writes a resolved collection into a project for each
// target and removes it again. It owns the managed directories outright,
// recognizes installed skills and agents by their metadata side-file, and
// merges the shared files (hook declarations, server list, rule index)
// surgically so hand-authored content survives.
package install
