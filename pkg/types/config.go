package types

import "time"

// HTTPConfig holds shared HTTP settings for code that talks to the network.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "convpix/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// UpdateConfig holds settings for downloading the ConverterPIX binary.
type UpdateConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL overrides the per-OS download URL when non-empty.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// BinaryPath is the destination path for the downloaded binary.
	BinaryPath string `json:"binary_path" yaml:"binary_path"`

	// MaxAge is how old the cached binary may grow before a background
	// refresh re-downloads it (default 24h).
	MaxAge time.Duration `json:"max_age" yaml:"max_age"`

	// GitHubToken, when set, is sent as a bearer token with download
	// requests to avoid anonymous rate limits.
	GitHubToken string `json:"github_token,omitempty" yaml:"github_token,omitempty"`
}

// ExtractConfig holds settings for conversion and file distribution.
type ExtractConfig struct {
	// ProjectDir is the project root converted models are placed under.
	ProjectDir string `json:"project_dir" yaml:"project_dir"`

	// TexturesToBase routes textures into the sibling "base" directory
	// of ProjectDir so they stay out of mod packing.
	TexturesToBase bool `json:"textures_to_base" yaml:"textures_to_base"`

	// KeepTemp leaves the conversion output directory in place, copying
	// files into the project tree instead of moving them.
	KeepTemp bool `json:"keep_temp" yaml:"keep_temp"`
}

// ImportConfig holds settings for the external import pipeline handoff.
type ImportConfig struct {
	// Command is the import command template. The placeholders {file}
	// and {dir} expand to the converted model file and its directory.
	Command []string `json:"command" yaml:"command"`
}
