package install

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/agentx-labs/aisync/internal/platform"
)

// Op is a filesystem operation recorded in a Report.
type Op string

const (
	OpWrite  Op = "write"
	OpRemove Op = "remove"
)

// Action is one recorded operation. Path is slash-separated and relative
// to the project directory.
type Action struct {
	Op   Op     `json:"op"`
	Path string `json:"path"`
}

// Report lists what an install or clean did, or would do in a dry run.
type Report struct {
	Actions []Action `json:"actions"`
}

// Paths returns the paths of every action of kind op, sorted.
func (r *Report) Paths(op Op) []string {
	var out []string
	for _, a := range r.Actions {
		if a.Op == op {
			out = append(out, a.Path)
		}
	}
	sort.Strings(out)
	return out
}

// fileOps performs writes and removals below dir, recording each one.
// In dry-run mode nothing touches the disk.
type fileOps struct {
	dir    string
	dryRun bool
	report *Report
}

func (o *fileOps) record(op Op, path string) {
	rel, err := filepath.Rel(o.dir, path)
	if err != nil {
		rel = path
	}
	o.report.Actions = append(o.report.Actions, Action{Op: op, Path: filepath.ToSlash(rel)})
}

func (o *fileOps) write(path string, data []byte, mode fs.FileMode) error {
	o.record(OpWrite, path)
	if o.dryRun {
		return nil
	}
	return platform.WriteFile(path, data, mode)
}

// removeAll removes path if it exists.
func (o *fileOps) removeAll(path string) error {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	o.record(OpRemove, path)
	if o.dryRun {
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// readOptional returns the content of path, or nil when it does not exist.
func readOptional(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, true, nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
