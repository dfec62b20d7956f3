package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("loading: %w", PresetNotFound("@acme/rules", "/work"))
	if !errors.Is(err, ErrPresetNotFound) {
		t.Fatal("expected errors.Is to match ErrPresetNotFound")
	}
	if errors.Is(err, ErrValidation) {
		t.Fatal("PresetNotFound must not match ErrValidation")
	}
}

func TestCircularPresetMessageNamesChain(t *testing.T) {
	err := CircularPreset([]string{"/a/aisync.json", "/b/aisync.json", "/a/aisync.json"})
	msg := err.Error()
	if !strings.Contains(msg, "/a/aisync.json -> /b/aisync.json -> /a/aisync.json") {
		t.Errorf("message %q should contain the full chain", msg)
	}
	if !errors.Is(err, ErrCircularPreset) {
		t.Error("expected ErrCircularPreset match")
	}
}

func TestUnwrapCause(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := PresetParse("/p/aisync.json", cause)
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
	if !errors.Is(err, ErrPresetParse) {
		t.Error("expected ErrPresetParse match")
	}
}
