package preset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/jsonc"
)

const packageFile = "package.json"

// packageVersion returns the version declared by the package.json next to
// the preset config, canonicalized as semver when it parses as one.
// Returns "" when there is no package.json or it carries no version.
func packageVersion(configDir string) string {
	data, err := os.ReadFile(filepath.Join(configDir, packageFile))
	if err != nil {
		return ""
	}
	var pkg struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return ""
	}
	return canonicalVersion(pkg.Version)
}

func canonicalVersion(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return raw
	}
	return v.String()
}
