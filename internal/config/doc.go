// Package config manages user-level settings stored at ~/.aisync/config.yaml
// with AISYNC_* environment overrides. Settings cover the log level and the
// extra directories searched for package-style presets.
package config
