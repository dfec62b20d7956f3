package install

import (
	"strings"

	"github.com/agentx-labs/aisync/internal/branding"
)

// replaceBlock returns content with the managed marker block holding body.
// An existing block is replaced in place; otherwise the block is appended
// after a blank line. Text outside the markers is preserved.
func replaceBlock(content, body string) string {
	block := branding.MarkerStart() + "\n" + body + branding.MarkerEnd()

	if start, end, ok := findBlock(content); ok {
		return content[:start] + block + content[end:]
	}

	switch {
	case content == "":
		return block + "\n"
	case strings.HasSuffix(content, "\n\n"):
		return content + block + "\n"
	case strings.HasSuffix(content, "\n"):
		return content + "\n" + block + "\n"
	default:
		return content + "\n\n" + block + "\n"
	}
}

// removeBlock deletes the managed marker block and the blank line that
// separated it from preceding text. found is false when there is no block.
func removeBlock(content string) (out string, found bool) {
	start, end, ok := findBlock(content)
	if !ok {
		return content, false
	}
	before := strings.TrimRight(content[:start], "\n")
	after := strings.TrimLeft(content[end:], "\n")
	switch {
	case before == "":
		return after, true
	case after == "":
		return before + "\n", true
	default:
		return before + "\n\n" + after, true
	}
}

// findBlock returns the byte range of the marker block, end markers
// included.
func findBlock(content string) (start, end int, ok bool) {
	start = strings.Index(content, branding.MarkerStart())
	if start < 0 {
		return 0, 0, false
	}
	rel := strings.Index(content[start:], branding.MarkerEnd())
	if rel < 0 {
		return 0, 0, false
	}
	return start, start + rel + len(branding.MarkerEnd()), true
}
