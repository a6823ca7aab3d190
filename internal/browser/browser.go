// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package browser tracks navigation and selection state for walking the
// merged tree of a set of base archives. It backs the interactive shell
// but holds no terminal code itself.
package browser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/slusenc/convpix/internal/converter"
	"github.com/slusenc/convpix/pkg/types"
)

// ParentEntry is the synthetic first entry navigating one level up.
const ParentEntry = ".."

// Lister provides archive directory listings. *converter.Runner satisfies it.
type Lister interface {
	ListDir(bases []string, subpath string) (types.Listing, error)
}

// Browser navigates the merged tree of a set of base archives. It keeps
// the current subpath, the entries visible there after extension
// filtering, and the files selected so far (keyed by full subpath, so
// selections survive navigation).
type Browser struct {
	lister  Lister
	bases   []string
	subpath string

	// ext filters listed files by extension; "*" keeps everything.
	ext string

	// multi allows more than one selected file.
	multi bool

	entries  []types.Entry
	selected map[string]bool
}

// New returns a Browser rooted at "/" over the given base archives.
// Entries are not loaded until the first Refresh.
func New(lister Lister, bases []string, ext string, multi bool) *Browser {
	if ext == "" {
		ext = "*"
	}
	return &Browser{
		lister:   lister,
		bases:    bases,
		subpath:  "/",
		ext:      ext,
		multi:    multi,
		selected: make(map[string]bool),
	}
}

// Subpath returns the current position in the archive tree.
func (b *Browser) Subpath() string { return b.subpath }

// Bases returns the base archives the browser reads from.
func (b *Browser) Bases() []string { return b.bases }

// Entries returns the entries at the current subpath: ".." first, then
// directories, then files passing the extension filter.
func (b *Browser) Entries() []types.Entry { return b.entries }

// Refresh reloads the entries at the current subpath.
func (b *Browser) Refresh() error {
	listing, err := b.lister.ListDir(b.bases, b.subpath)
	if err != nil {
		return err
	}
	b.setEntries(listing)
	return nil
}

// SetSubpath moves to subpath, falling back to the root when the subpath
// no longer exists in the current base archives. Validity is judged on
// the raw listing, before extension filtering: a directory holding only
// filtered-out files is still a real position to restore.
func (b *Browser) SetSubpath(subpath string) error {
	b.subpath = subpath
	listing, err := b.lister.ListDir(b.bases, b.subpath)
	if err != nil || listing.Empty() {
		b.subpath = "/"
		return b.Refresh()
	}
	b.setEntries(listing)
	return nil
}

// setEntries rebuilds the visible entries: ".." first, then directories,
// then files passing the extension filter.
func (b *Browser) setEntries(listing types.Listing) {
	entries := []types.Entry{{Name: ParentEntry, IsDir: true}}
	for _, dir := range listing.Dirs {
		entries = append(entries, types.Entry{Name: dir, IsDir: true})
	}
	for _, file := range listing.Files {
		if b.ext != "*" && !strings.HasSuffix(file, b.ext) {
			continue
		}
		entries = append(entries, types.Entry{Name: file})
	}
	b.entries = entries
}

// Enter acts on the named entry at the current subpath: directories are
// descended into, ".." goes one level up unless already at the root, and
// files are selected (replacing the previous selection, or toggling when
// multi-select is on).
func (b *Browser) Enter(name string) error {
	entry, ok := b.find(name)
	if !ok {
		return fmt.Errorf("no entry %q at %s", name, b.subpath)
	}

	if entry.IsDir {
		if entry.Name == ParentEntry {
			if b.subpath == "/" {
				return nil
			}
			b.subpath = converter.Parent(b.subpath)
		} else {
			b.subpath = converter.Join(b.subpath, entry.Name)
		}
		return b.Refresh()
	}

	full := converter.Join(b.subpath, entry.Name)
	if b.multi {
		if b.selected[full] {
			delete(b.selected, full)
		} else {
			b.selected[full] = true
		}
		return nil
	}
	b.selected = map[string]bool{full: true}
	return nil
}

func (b *Browser) find(name string) (types.Entry, bool) {
	for _, e := range b.entries {
		if e.Name == name {
			return e, true
		}
	}
	return types.Entry{}, false
}

// Selected returns the full subpaths of all selected files, sorted.
func (b *Browser) Selected() []string {
	paths := make([]string, 0, len(b.selected))
	for p := range b.selected {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// IsSelected reports whether the file named at the current subpath is in
// the selection.
func (b *Browser) IsSelected(name string) bool {
	return b.selected[converter.Join(b.subpath, name)]
}

// ClearSelection drops all selected files.
func (b *Browser) ClearSelection() {
	b.selected = make(map[string]bool)
}
