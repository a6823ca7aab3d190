// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package converter

import (
	"sort"
	"strings"

	"github.com/slusenc/convpix/pkg/types"
)

// Output line prefixes of the -listdir protocol.
const (
	prefixDir  = "[D] "
	prefixFile = "[F] "
)

// ListDir lists one level of the merged archive tree at subpath. Every
// base archive is passed to the converter with its own -b flag; later
// bases shadow earlier ones, mirroring game mod load order.
func (r *Runner) ListDir(bases []string, subpath string) (types.Listing, error) {
	args := make([]string, 0, len(bases)*2+2)
	for _, b := range bases {
		args = append(args, "-b", b)
	}
	args = append(args, "-listdir", subpath)

	lines, err := r.Run(args...)
	if err != nil {
		return types.Listing{}, err
	}
	return ParseListing(subpath, lines), nil
}

// ParseListing extracts directory and file entries from -listdir output.
// Entries arrive as full archive paths prefixed "[D] " or "[F] "; they are
// returned relative to subpath and sorted. Unrelated lines are skipped.
func ParseListing(subpath string, lines []string) types.Listing {
	l := types.Listing{Subpath: subpath}
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, prefixDir):
			l.Dirs = append(l.Dirs, relative(subpath, line[len(prefixDir):]))
		case strings.HasPrefix(line, prefixFile):
			l.Files = append(l.Files, relative(subpath, line[len(prefixFile):]))
		}
	}
	sort.Strings(l.Dirs)
	sort.Strings(l.Files)
	return l
}

// relative strips the base subpath from an archive path. Archive paths
// always use forward slashes, but the Windows converter build may emit
// backslashes, so those are normalized first.
func relative(base, target string) string {
	target = strings.ReplaceAll(target, "\\", "/")
	base = strings.TrimSuffix(strings.ReplaceAll(base, "\\", "/"), "/")
	rel := strings.TrimPrefix(target, base)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return "."
	}
	return rel
}

// Walk descends the merged archive tree from subpath, calling fn with the
// listing of every visited directory. depth limits recursion; negative
// means unlimited. Walking stops at the first error from fn or the
// converter.
func (r *Runner) Walk(bases []string, subpath string, depth int, fn func(types.Listing) error) error {
	listing, err := r.ListDir(bases, subpath)
	if err != nil {
		return err
	}
	if err := fn(listing); err != nil {
		return err
	}
	if depth == 0 {
		return nil
	}
	for _, dir := range listing.Dirs {
		if err := r.Walk(bases, Join(subpath, dir), depth-1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Join joins archive subpaths with forward slashes, normalizing any
// backslashes. Needed for proper navigation of the archive tree when the
// converter runs on Windows.
func Join(base, name string) string {
	joined := strings.TrimSuffix(base, "/") + "/" + name
	return strings.ReplaceAll(joined, "\\", "/")
}

// Parent returns the parent subpath, stopping at the archive root "/".
func Parent(subpath string) string {
	if subpath == "/" || subpath == "" {
		return "/"
	}
	subpath = strings.TrimSuffix(subpath, "/")
	idx := strings.LastIndex(subpath, "/")
	if idx <= 0 {
		return "/"
	}
	return subpath[:idx]
}
