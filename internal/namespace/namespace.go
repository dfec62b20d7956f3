// Package namespace derives install-path segments from a preset reference.
package namespace

import (
	"os"
	"path"
	"strings"

	"github.com/agentx-labs/aisync/internal/branding"
)

// Of returns the directory segments that prefix a preset's namespaced
// artifacts. It depends only on ref.
//
//	"../sibling-preset"      -> ["sibling-preset"]
//	"@scope/pkg/sub"         -> ["@scope", "pkg", "sub"]
//	"./presets/a/aisync.json" -> ["presets", "a"]
//
// Scoped package names always split on "/". Anything else splits on the
// host path separator with empty, "." and ".." segments dropped, so the
// result can never escape the directory it is joined to.
func Of(ref string) []string {
	sep := string(os.PathSeparator)
	if strings.HasPrefix(ref, "@") {
		sep = "/"
	}

	parts := strings.Split(ref, sep)
	if n := len(parts); n > 0 && parts[n-1] == branding.ConfigFile() {
		parts = parts[:n-1]
	}

	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		segments = append(segments, p)
	}
	return segments
}

// Join prefixes name with the namespace of ref, slash-separated.
func Join(segments []string, name string) string {
	if len(segments) == 0 {
		return name
	}
	return path.Join(append(append([]string(nil), segments...), name)...)
}
