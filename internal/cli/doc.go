// Package cli defines the Cobra command tree for the aisync CLI. Each file
// in this package registers one top-level command (install, clean, list, etc.)
// with the root command. Commands delegate to the engine packages and only
// handle flag parsing, output formatting and diagnostic emission.
package cli
