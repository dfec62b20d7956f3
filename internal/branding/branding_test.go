package branding

import "testing"

func TestDerivedNames(t *testing.T) {
	if got := ConfigFile(); got != "aisync.json" {
		t.Errorf("ConfigFile() = %q, want %q", got, "aisync.json")
	}
	if got := MetadataFile(); got != ".aisync.json" {
		t.Errorf("MetadataFile() = %q, want %q", got, ".aisync.json")
	}
	if got := MarkerStart(); got != "<!-- AISYNC:START -->" {
		t.Errorf("MarkerStart() = %q", got)
	}
	if got := EnvVar("log_level"); got != "AISYNC_LOG_LEVEL" {
		t.Errorf("EnvVar(log_level) = %q, want %q", got, "AISYNC_LOG_LEVEL")
	}
}
