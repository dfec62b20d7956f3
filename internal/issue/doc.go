// Package issue defines the fatal error kinds that abort a run: a preset that
// cannot be found or parsed, a circular preset chain, an empty preset, and
// configuration validation failures. Callers match kinds with errors.Is
// against the exported sentinels.
package issue
