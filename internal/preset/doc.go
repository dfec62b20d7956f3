// Package preset locates preset configs and resolves the preset dependency
// graph into an ordered list of layers. Each layer carries its parsed config
// and the collections loaded from its root directory. References are looked
// up on the filesystem first, then as packages under node_modules and the
// configured preset search paths.
package preset
