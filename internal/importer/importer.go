// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package importer hands converted models to an external import
// pipeline. The pipeline is an opaque collaborator: convpix runs the
// configured command, checks the exit code, and surfaces its output on
// failure.
package importer

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Placeholders in the import command template.
const (
	placeholderFile = "{file}"
	placeholderDir  = "{dir}"
)

// executor abstracts command execution for testing.
type executor interface {
	CombinedOutput(name string, args ...string) ([]byte, error)
}

type osExecutor struct{}

func (osExecutor) CombinedOutput(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Importer runs a user-configured import command on converted model files.
type Importer struct {
	argv []string
	exec executor
}

// New returns an Importer for the given command template. Each argv
// element may contain the {file} and {dir} placeholders, expanded per
// import to the model file path and its directory.
func New(argv []string) (*Importer, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("import command not configured")
	}
	return &Importer{argv: argv, exec: osExecutor{}}, nil
}

// Import runs the import command on the model file at path. On a
// non-zero exit the combined output is included in the error.
func (imp *Importer) Import(path string) error {
	expanded := make([]string, len(imp.argv))
	for i, arg := range imp.argv {
		arg = strings.ReplaceAll(arg, placeholderFile, path)
		arg = strings.ReplaceAll(arg, placeholderDir, filepath.Dir(path))
		expanded[i] = arg
	}

	out, err := imp.exec.CombinedOutput(expanded[0], expanded[1:]...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("import command %s: %w\n%s", expanded[0], err, msg)
		}
		return fmt.Errorf("import command %s: %w", expanded[0], err)
	}
	return nil
}
