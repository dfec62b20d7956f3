package issue

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a fatal error.
type Kind string

const (
	KindPresetNotFound Kind = "PresetNotFound"
	KindPresetParse    Kind = "PresetParseError"
	KindCircularPreset Kind = "CircularPresetDependency"
	KindEmptyPreset    Kind = "EmptyPreset"
	KindValidation     Kind = "ValidationError"
)

// Sentinels for errors.Is matching. Each *Error matches the sentinel of its Kind.
var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrPresetParse    = errors.New("preset parse error")
	ErrCircularPreset = errors.New("circular preset dependency")
	ErrEmptyPreset    = errors.New("empty preset")
	ErrValidation     = errors.New("validation error")
)

var sentinels = map[Kind]error{
	KindPresetNotFound: ErrPresetNotFound,
	KindPresetParse:    ErrPresetParse,
	KindCircularPreset: ErrCircularPreset,
	KindEmptyPreset:    ErrEmptyPreset,
	KindValidation:     ErrValidation,
}

// Error is a fatal, user-facing error.
type Error struct {
	Kind Kind

	// Path is the file or reference the error is about (optional).
	Path string

	// Chain is the active preset resolution chain, outermost first. Only set
	// for KindCircularPreset.
	Chain []string

	// Message is the human-readable description.
	Message string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Chain) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Chain, " -> "))
	}
	if e.Path != "" && len(e.Chain) == 0 {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// PresetNotFound reports a preset reference that resolves neither as a path
// nor as a package.
func PresetNotFound(ref, from string) *Error {
	return &Error{
		Kind:    KindPresetNotFound,
		Path:    ref,
		Message: fmt.Sprintf("preset %q not found (searched from %s)", ref, from),
	}
}

// PresetParse reports a preset config that is not valid JSON.
func PresetParse(path string, cause error) *Error {
	return &Error{
		Kind:    KindPresetParse,
		Path:    path,
		Message: "failed to parse preset config",
		Cause:   cause,
	}
}

// CircularPreset reports a reference cycle. chain lists every config path in
// the active chain followed by the path that closed the cycle.
func CircularPreset(chain []string) *Error {
	c := make([]string, len(chain))
	copy(c, chain)
	return &Error{
		Kind:    KindCircularPreset,
		Chain:   c,
		Message: "circular preset dependency detected",
	}
}

// EmptyPreset reports a preset with no recognized content and no nested presets.
func EmptyPreset(path string) *Error {
	return &Error{
		Kind:    KindEmptyPreset,
		Path:    path,
		Message: "preset has no rules, commands, assets, skills, agents or hooks and declares no presets",
	}
}

// Validation reports an invalid configuration.
func Validation(path, format string, args ...any) *Error {
	return &Error{
		Kind:    KindValidation,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}
