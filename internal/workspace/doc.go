// Package workspace discovers the packages of a multi-package repository,
// resolves each one independently and builds the root-level aggregate of
// the flat categories.
package workspace
