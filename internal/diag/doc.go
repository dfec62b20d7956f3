// Package diag collects non-fatal diagnostics produced while resolving and
// merging a configuration. Engine packages append to a Collector instead of
// writing to stderr; the CLI renders the collected diagnostics in order once
// the pipeline has finished, so output order never depends on scheduling.
package diag
