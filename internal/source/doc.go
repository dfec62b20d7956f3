// Package source enumerates a root directory's convention subtrees (rules/,
// commands/, assets/, skills/, agents/, hooks.json with hooks/) into typed
// in-memory records. Every record carries its provenance so later stages can
// namespace, merge and report on it without touching the filesystem again.
package source
