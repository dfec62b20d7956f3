// Package pipeline runs one package through the engine: load its config,
// resolve presets, load sources, merge, apply overrides and rewrite
// references. It performs no writes.
package pipeline
