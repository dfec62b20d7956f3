package source

import (
	"strings"

	"go.yaml.in/yaml/v3"
)

// Frontmatter is the YAML header of a skill or agent markdown file.
type Frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ParseFrontmatter extracts the YAML block delimited by "---" lines at the
// top of content. ok is false when there is no block or it does not parse.
func ParseFrontmatter(content string) (fm Frontmatter, ok bool) {
	text := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return fm, false
	}
	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return fm, false
	}
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return Frontmatter{}, false
	}
	return fm, true
}
