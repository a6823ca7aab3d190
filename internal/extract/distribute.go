// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/slusenc/convpix/pkg/types"
)

// textureExts lists extensions routed to the textures root. Keeping
// textures apart from model geometry lets them live in the sibling
// "base" directory, outside mod packing.
var textureExts = []string{".tobj", ".dds", ".png"}

func isTexture(name string) bool {
	for _, ext := range textureExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Distribute moves every file under srcDir into the project tree,
// preserving relative subdirectories. Texture files go under the
// textures root, everything else under the models root. Emptied source
// directories are removed, srcDir included, unless cfg.KeepTemp is set
// (files are then copied instead of moved).
func Distribute(srcDir string, cfg types.ExtractConfig, w io.Writer) ([]types.PlacedFile, error) {
	modelsRoot := cfg.ProjectDir
	texturesRoot := modelsRoot
	if cfg.TexturesToBase {
		texturesRoot = filepath.Join(modelsRoot, "..", "base")
	}

	var placed []types.PlacedFile
	var dirs []string

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		texture := isTexture(d.Name())
		root := modelsRoot
		if texture {
			root = texturesRoot
		}

		dest := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
		}

		if cfg.KeepTemp {
			err = copyFile(path, dest)
		} else {
			err = moveFile(path, dest)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "placed: %s -> %s\n", filepath.ToSlash(rel), dest)
		placed = append(placed, types.PlacedFile{
			Source:  filepath.ToSlash(rel),
			Dest:    dest,
			Texture: texture,
		})
		return nil
	})
	if err != nil {
		return placed, fmt.Errorf("distributing %s: %w", srcDir, err)
	}

	if !cfg.KeepTemp {
		// Deepest directories first, so each is empty when removed.
		sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
		for _, dir := range dirs {
			if err := os.Remove(dir); err != nil {
				return placed, fmt.Errorf("removing %s: %w", dir, err)
			}
		}
	}

	return placed, nil
}

// moveFile renames src to dest, falling back to copy+remove when the
// rename crosses filesystems (temp dir and project tree often do).
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyFile(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("copying to %s: %w", dest, err)
	}
	return out.Close()
}
