// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus indicates the outcome of an extraction run.
type RunStatus string

const (
	RunDone   RunStatus = "done"
	RunFailed RunStatus = "failed"
)

// PlacedFile records where one converted file ended up.
type PlacedFile struct {
	// Source is the file path relative to the conversion output root.
	Source string `json:"source" yaml:"source"`

	// Dest is the absolute destination path inside the project tree.
	Dest string `json:"dest" yaml:"dest"`

	// Texture marks files routed to the textures root instead of the
	// models root.
	Texture bool `json:"texture" yaml:"texture"`
}

// Run describes one extraction run: what was converted from which base
// archives and where the results were placed.
type Run struct {
	ID    int64     `json:"id,omitempty" yaml:"id,omitempty"`
	Time  time.Time `json:"time" yaml:"time"`
	Bases []string  `json:"bases" yaml:"bases"`

	// Model is the archive subpath of the converted model, without the
	// ".pmg" extension.
	Model string `json:"model" yaml:"model"`

	// Anims lists converted animation subpaths, without the ".pma"
	// extension.
	Anims []string `json:"anims,omitempty" yaml:"anims,omitempty"`

	Status RunStatus    `json:"status" yaml:"status"`
	Files  []PlacedFile `json:"files,omitempty" yaml:"files,omitempty"`
}
