// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract converts archive resources with ConverterPIX and
// distributes the converted files into a project tree.
package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/slusenc/convpix/pkg/types"
)

// Model and animation resource extensions inside the archives. The
// converter wants the subpaths without them.
const (
	ModelExt = ".pmg"
	AnimExt  = ".pma"
)

// Converter runs ConverterPIX and returns its stdout lines.
// *converter.Runner satisfies it.
type Converter interface {
	Run(args ...string) ([]string, error)
}

// Extract converts the model (and optional animations) from the base
// archives into a temp directory, then distributes the resulting files
// into the project tree per cfg. Progress goes to w. The returned Run
// records what was placed where; it is non-nil even on failure so
// callers can log partial outcomes.
func Extract(c Converter, bases []string, model string, anims []string, cfg types.ExtractConfig, w io.Writer) (*types.Run, error) {
	run := &types.Run{
		Time:   time.Now().UTC(),
		Bases:  bases,
		Model:  strings.TrimSuffix(model, ModelExt),
		Status: types.RunFailed,
	}
	for _, a := range anims {
		run.Anims = append(run.Anims, strings.TrimSuffix(a, AnimExt))
	}

	exportDir, err := os.MkdirTemp("", "convpix-*")
	if err != nil {
		return run, fmt.Errorf("creating export dir: %w", err)
	}

	args := make([]string, 0, len(bases)*2+len(anims)+4)
	for _, b := range bases {
		args = append(args, "-b", b)
	}
	args = append(args, "-m", run.Model)
	args = append(args, run.Anims...)
	args = append(args, "-e", exportDir)

	fmt.Fprintf(w, "converting: %s\n", run.Model)
	if _, err := c.Run(args...); err != nil {
		os.RemoveAll(exportDir)
		return run, fmt.Errorf("converting %s: %w", run.Model, err)
	}

	placed, err := Distribute(exportDir, cfg, w)
	run.Files = placed
	if err != nil {
		return run, err
	}

	if cfg.KeepTemp {
		fmt.Fprintf(w, "conversion output kept at %s\n", exportDir)
	}

	run.Status = types.RunDone
	return run, nil
}

// ModelFilePath returns the path of the converted model file under the
// project tree, the one handed to the import pipeline. modelSubpath is
// the archive subpath of the model without extension.
func ModelFilePath(projectDir, modelSubpath string) string {
	rel := strings.TrimPrefix(strings.TrimSuffix(modelSubpath, ModelExt), "/")
	return filepath.Join(projectDir, filepath.FromSlash(rel)+".pim")
}
