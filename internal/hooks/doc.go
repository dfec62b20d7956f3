// Package hooks merges hook declarations and hook scripts from several
// sources and writes the result into a target's hook declaration file
// without disturbing hand-authored entries.
package hooks
