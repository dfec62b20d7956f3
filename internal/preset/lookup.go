package preset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/aisync/internal/branding"
)

const modulesDir = "node_modules"

// configRef appends the config filename to ref unless it already names it.
func configRef(ref string) string {
	if filepath.Base(filepath.FromSlash(ref)) == branding.ConfigFile() {
		return ref
	}
	return strings.TrimSuffix(ref, "/") + "/" + branding.ConfigFile()
}

// isPathRef reports whether ref is written as a filesystem path rather than
// a package specifier.
func isPathRef(ref string) bool {
	return filepath.IsAbs(ref) ||
		ref == "." || ref == ".." ||
		strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") ||
		strings.HasPrefix(ref, `.\`) || strings.HasPrefix(ref, `..\`)
}

// locate returns the absolute config path for ref, searched in order:
//  1. as a filesystem path relative to fromDir
//  2. as a package under node_modules, walking up from fromDir
//  3. under each of r.SearchPaths
//  4. as a package under node_modules, walking up from the executable
//
// ok is false when nothing matches.
func (r *Resolver) locate(ref, fromDir string) (string, bool) {
	rel := filepath.FromSlash(configRef(ref))

	candidate := rel
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(fromDir, rel)
	}
	if isFile(candidate) {
		return absPath(candidate), true
	}
	if isPathRef(ref) {
		return "", false
	}

	if p, ok := findInModules(fromDir, rel); ok {
		return p, true
	}
	for _, dir := range r.SearchPaths {
		p := filepath.Join(dir, rel)
		if isFile(p) {
			return absPath(p), true
		}
	}
	if execDir := r.execDir(); execDir != "" {
		if p, ok := findInModules(execDir, rel); ok {
			return p, true
		}
	}
	return "", false
}

// findInModules walks from dir up to the filesystem root looking for
// node_modules/<rel>.
func findInModules(dir, rel string) (string, bool) {
	dir = absPath(dir)
	for {
		p := filepath.Join(dir, modulesDir, rel)
		if isFile(p) {
			return p, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func (r *Resolver) execDir() string {
	if r.ExecDir != "" {
		return r.ExecDir
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
