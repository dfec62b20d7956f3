package rewrite

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/agentx-labs/aisync/internal/source"
	"github.com/agentx-labs/aisync/internal/targets"
)

// tokenPattern matches "./" or "../" prefixed path-like tokens that are not
// the tail of a longer path. Group 2 is the token.
var tokenPattern = regexp.MustCompile(`(^|[^A-Za-z0-9_./-])((?:\.\.?/)+[A-Za-z0-9_@\-./]*[A-Za-z0-9_@\-])`)

// Rewriter maps source files to their install locations.
type Rewriter struct {
	// installed maps an absolute source path to its install path
	// relative to the tool root.
	installed map[string]string
}

// New indexes the rules, commands and assets of a merged collection.
func New(c *source.Collection) *Rewriter {
	r := &Rewriter{installed: map[string]string{}}
	for _, f := range c.Rules {
		r.add(f.SourcePath, targets.RulePath(f.Namespace(), f.Name))
	}
	for _, f := range c.Commands {
		r.add(f.SourcePath, targets.CommandPath(f.Name))
	}
	for _, a := range c.Assets {
		r.add(a.SourcePath, targets.AssetPath(a.Namespace(), a.Name))
	}
	return r
}

func (r *Rewriter) add(sourcePath, installPath string) {
	if sourcePath == "" {
		return
	}
	r.installed[absPath(sourcePath)] = installPath
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// Depth returns how many directories separate an installed file from the
// tool root: the category's base depth, one per namespace segment of
// namespaced categories, and one per directory in the file's own name.
func Depth(c targets.Category, f source.ManagedFile) int {
	depth := targets.BaseDepth(c) + strings.Count(f.Name, "/")
	if c == targets.Rules {
		depth += len(f.Namespace())
	}
	return depth
}

// Collection returns a copy of c whose rules and commands have their
// references rewritten.
func (r *Rewriter) Collection(c *source.Collection) *source.Collection {
	out := *c
	out.Rules = r.files(targets.Rules, c.Rules)
	out.Commands = r.files(targets.Commands, c.Commands)
	return &out
}

func (r *Rewriter) files(c targets.Category, files []source.ManagedFile) []source.ManagedFile {
	out := make([]source.ManagedFile, len(files))
	for i, f := range files {
		f.Content = r.Rewrite(f.Content, f.SourcePath, Depth(c, f))
		out[i] = f
	}
	return out
}

// Rewrite replaces every qualifying token in content. sourcePath is the
// artifact's source file and depth its installed depth below the tool root.
// Unmatched text is never altered.
func (r *Rewriter) Rewrite(content, sourcePath string, depth int) string {
	matches := tokenPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	srcDir := filepath.Dir(sourcePath)
	up := strings.Repeat("../", depth)

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[4], m[5]
		token := content[start:end]

		target, ok := r.resolve(srcDir, token)
		if !ok {
			continue
		}
		b.WriteString(content[last:start])
		b.WriteString(up + target)
		last = end
	}
	if last == 0 {
		return content
	}
	b.WriteString(content[last:])
	return b.String()
}

// resolve returns the install path of the file token refers to, if that
// file exists and is installed.
func (r *Rewriter) resolve(srcDir, token string) (string, bool) {
	abs := absPath(filepath.Join(srcDir, filepath.FromSlash(token)))
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	target, ok := r.installed[abs]
	return target, ok
}
