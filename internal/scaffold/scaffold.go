package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/agentx-labs/aisync/internal/branding"
	"github.com/agentx-labs/aisync/internal/manifest"
)

//go:embed scaffolds
var scaffoldFS embed.FS

// Kinds of scaffold.
const (
	KindProject = "project"
	KindPreset  = "preset"
)

// ScaffoldData holds all template variables available to scaffold templates.
type ScaffoldData struct {
	Name    string   // directory name of the project or preset
	Targets []string // e.g., ["cursor", "claude"]
	RootDir string   // project only, e.g., "."
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// NewScaffoldData creates a ScaffoldData for outputDir. Empty targets fall
// back to the default targets.
func NewScaffoldData(outputDir string, targets []string) *ScaffoldData {
	if len(targets) == 0 {
		targets = manifest.DefaultTargets
	}
	name := filepath.Base(outputDir)
	if abs, err := filepath.Abs(outputDir); err == nil {
		name = filepath.Base(abs)
	}
	return &ScaffoldData{
		Name:    name,
		Targets: append([]string(nil), targets...),
		RootDir: ".",
	}
}

// Generate renders the template set for kind into outputDir. It refuses to
// overwrite any existing file and validates the generated config.
func Generate(kind string, data *ScaffoldData, outputDir string) (*Result, error) {
	templatesDir := path.Join("scaffolds", kind)
	if _, err := fs.Stat(scaffoldFS, templatesDir); err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", kind, err)
	}

	type rendered struct {
		rel  string
		data []byte
	}
	var files []rendered

	err := fs.WalkDir(scaffoldFS, templatesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		tmplBytes, err := fs.ReadFile(scaffoldFS, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}
		tmpl, err := template.New(d.Name()).Parse(string(tmplBytes))
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", d.Name(), err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("executing template %s: %w", d.Name(), err)
		}
		rel := strings.TrimSuffix(strings.TrimPrefix(p, templatesDir+"/"), ".tmpl")
		files = append(files, rendered{rel: rel, data: buf.Bytes()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Check every target first so a refusal leaves nothing behind.
	for _, f := range files {
		outPath := filepath.Join(outputDir, filepath.FromSlash(f.rel))
		if _, err := os.Stat(outPath); err == nil {
			return nil, fmt.Errorf("%s already exists; remove it first", outPath)
		}
	}

	result := &Result{OutputDir: outputDir}
	for _, f := range files {
		outPath := filepath.Join(outputDir, filepath.FromSlash(f.rel))
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return nil, fmt.Errorf("creating directory for %s: %w", outPath, err)
		}
		if err := os.WriteFile(outPath, f.data, 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}
		result.Files = append(result.Files, f.rel)
	}

	// Validate the generated config against JSON Schema.
	configFile := filepath.Join(outputDir, branding.ConfigFile())
	valResult, valErr := manifest.ValidateFile(configFile)
	if valErr != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not validate config: %v", valErr))
	} else if !valResult.Valid {
		for _, issue := range valResult.Issues {
			msg := issue.Message
			if issue.Path != "" {
				msg = issue.Path + ": " + msg
			}
			result.Warnings = append(result.Warnings, msg)
		}
	}

	return result, nil
}
