package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

// SyntaxError reports a config that is not well-formed JSON(C).
type SyntaxError struct {
	Path string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// SchemaError reports a well-formed config that violates the schema.
type SchemaError struct {
	Path   string
	Issues []ValidationIssue
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path != "" {
			parts = append(parts, issue.Path+": "+issue.Message)
		} else {
			parts = append(parts, issue.Message)
		}
	}
	return fmt.Sprintf("invalid config %s: %s", e.Path, strings.Join(parts, "; "))
}

// ParseFile reads a config file, validates it, and decodes it.
func ParseFile(path string) (*RawConfig, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse strips JSONC comments and trailing commas from data, validates the
// result against the config schema, and decodes it. path is used only in
// error messages. Malformed input yields *SyntaxError; schema violations
// yield *SchemaError listing every issue.
func Parse(data []byte, path string) (*RawConfig, error) {
	stripped := jsonc.ToJSON(data)

	var doc any
	if err := json.Unmarshal(stripped, &doc); err != nil {
		return nil, &SyntaxError{Path: path, Err: err}
	}

	result, err := Validate(stripped)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if !result.Valid {
		return nil, &SchemaError{Path: path, Issues: result.Issues}
	}

	var cfg RawConfig
	dec := json.NewDecoder(bytes.NewReader(stripped))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, &SchemaError{Path: path, Issues: []ValidationIssue{{Message: err.Error()}}}
	}

	return &cfg, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
