// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Entry is a single directory or file shown at one level of the archive tree.
type Entry struct {
	// Name is the entry name relative to the listing subpath.
	Name string `json:"name" yaml:"name"`

	// IsDir marks the entry as a directory.
	IsDir bool `json:"is_dir" yaml:"is_dir"`
}

// Listing holds the contents of one subpath inside a set of base archives.
// Directory and file names are relative to Subpath and sorted.
type Listing struct {
	Subpath string   `json:"subpath" yaml:"subpath"`
	Dirs    []string `json:"dirs" yaml:"dirs"`
	Files   []string `json:"files" yaml:"files"`
}

// Empty reports whether the listing contains no entries at all. An empty
// listing usually means the subpath does not exist in any base archive.
func (l Listing) Empty() bool {
	return len(l.Dirs) == 0 && len(l.Files) == 0
}
