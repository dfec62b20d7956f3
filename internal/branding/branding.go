// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package to rename the tool. Every
// on-disk convention that carries the tool's name (config file, managed
// subdirectory, ownership marker, metadata side-file) is derived from it.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	ConfigFile  string `yaml:"config_file"`
	ManagedDir  string `yaml:"managed_dir"`
	MarkerField string `yaml:"marker_field"`
	GoModule    string `yaml:"go_module"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:     "aisync",
			DisplayName: "aisync",
			Description: "Distribute AI assistant rules, commands, hooks, skills and agents from one source",
			HomeDir:     ".aisync",
			EnvPrefix:   "AISYNC",
			ConfigFile:  "aisync.json",
			ManagedDir:  "aisync",
			MarkerField: "aisync",
			GoModule:    "github.com/agentx-labs/aisync",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "aisync").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".aisync").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "AISYNC").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ConfigFile returns the project config file name (e.g., "aisync.json").
func ConfigFile() string { load(); return defaults.ConfigFile }

// ManagedDir returns the directory segment the tool owns inside each
// target category directory (e.g., ".cursor/rules/aisync").
func ManagedDir() string { load(); return defaults.ManagedDir }

// MarkerField returns the boolean field that tags server-list entries
// written by the tool.
func MarkerField() string { load(); return defaults.MarkerField }

// MetadataFile returns the management side-file name written inside each
// installed skill directory (e.g., ".aisync.json").
func MetadataFile() string { load(); return "." + defaults.ManagedDir + ".json" }

// MarkerStart returns the opening marker of a managed block in a shared text file.
func MarkerStart() string {
	load()
	return "<!-- " + strings.ToUpper(defaults.ManagedDir) + ":START -->"
}

// MarkerEnd returns the closing marker of a managed block in a shared text file.
func MarkerEnd() string {
	load()
	return "<!-- " + strings.ToUpper(defaults.ManagedDir) + ":END -->"
}

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "AISYNC_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
