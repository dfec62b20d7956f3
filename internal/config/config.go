package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/agentx-labs/aisync/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyLogLevel    = "log_level"
	KeyPresetPaths = "preset_paths"
)

// Keys lists every recognized setting.
var Keys = []string{KeyLogLevel, KeyPresetPaths}

// Dir returns the path to the user config directory (~/.aisync/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.aisync/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	viper.SetDefault(KeyLogLevel, "info")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	if key == KeyPresetPaths {
		return strings.Join(PresetPaths(), string(os.PathListSeparator))
	}
	return viper.GetString(key)
}

// Set validates and writes a config key-value pair and saves the config file.
// preset_paths takes a list separated by the OS path list separator.
func Set(key, value string) error {
	switch key {
	case KeyLogLevel:
		if _, err := log.ParseLevel(value); err != nil {
			return fmt.Errorf("invalid log level %q", value)
		}
		viper.Set(key, value)
	case KeyPresetPaths:
		viper.Set(key, filepath.SplitList(value))
	default:
		return fmt.Errorf("unknown key %q (known: %s)", key, strings.Join(Keys, ", "))
	}

	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// LogLevel returns the configured log level, falling back to info.
func LogLevel() log.Level {
	lvl, err := log.ParseLevel(viper.GetString(KeyLogLevel))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// PresetPaths returns the extra preset search directories. A single string
// value (as set through the environment) is split on the OS path list
// separator.
func PresetPaths() []string {
	var paths []string
	switch v := viper.Get(KeyPresetPaths).(type) {
	case string:
		paths = filepath.SplitList(v)
	default:
		paths = viper.GetStringSlice(KeyPresetPaths)
	}

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, expandHome(p))
		}
	}
	return out
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
