// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package converter invokes the external ConverterPIX binary and parses
// its line-oriented output. ConverterPIX itself is an opaque collaborator;
// this package only builds argument lists, runs the process, and interprets
// exit codes and output markers.
package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Per-OS download locations for the ConverterPIX binary. The macOS build
// lives in a separate fork.
const (
	urlLinux   = "https://github.com/simon50keda/ConverterPIX/raw/master/bin/linux/converter_pix"
	urlDarwin  = "https://github.com/theHarven/ConverterPIX/raw/MacOS_binary/bin/macos/converter_pix"
	urlWindows = "https://github.com/mwl4/ConverterPIX/raw/master/bin/win_x86/converter_pix.exe"
)

// errorMarker in converter output signals failure even on exit code 0.
const errorMarker = "<error>"

// DownloadURL returns the ConverterPIX download URL for the current OS.
func DownloadURL() string {
	switch runtime.GOOS {
	case "linux":
		return urlLinux
	case "darwin":
		return urlDarwin
	default:
		return urlWindows
	}
}

// BinaryName returns the converter executable filename for the current OS.
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return "converter_pix.exe"
	}
	return "converter_pix"
}

// CacheDir returns the directory the converter binary is cached in,
// creating it if needed. The user config dir is used to avoid permission
// problems with writing an executable next to the installation.
func CacheDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	dir := filepath.Join(base, "convpix")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache dir %s: %w", dir, err)
	}
	return dir, nil
}

// BinaryPath returns the cache path of the converter binary for the
// current OS.
func BinaryPath() (string, error) {
	dir, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, BinaryName()), nil
}

// executor abstracts command execution for testing.
type executor interface {
	Output(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) Output(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// RunError reports a failed converter invocation together with the stdout
// lines it produced, so callers can surface them to the user.
type RunError struct {
	Args  []string
	Lines []string
	Err   error // process error; nil when the output contained <error>
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("converter_pix %s: %v", strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("converter_pix %s: error reported in output", strings.Join(e.Args, " "))
}

func (e *RunError) Unwrap() error { return e.Err }

// Runner invokes a fixed ConverterPIX binary.
type Runner struct {
	bin  string
	exec executor
}

// NewRunner returns a Runner for the converter binary at bin. When bin is
// empty the cached binary for the current OS is used; a missing cached
// binary is an error so callers can suggest running an update first.
func NewRunner(bin string) (*Runner, error) {
	if bin == "" {
		p, err := BinaryPath()
		if err != nil {
			return nil, err
		}
		bin = p
	}
	if _, err := os.Stat(bin); err != nil {
		return nil, fmt.Errorf("converter binary %s not found (run \"convpix update\"): %w", bin, err)
	}
	return &Runner{bin: bin, exec: osExecutor{}}, nil
}

// Run executes the converter with args and returns its stdout split into
// lines. A non-zero exit code or a literal "<error>" marker anywhere in
// the output yields a *RunError carrying the captured lines.
func (r *Runner) Run(args ...string) ([]string, error) {
	out, err := r.exec.Output(r.bin, args...)
	lines := splitLines(out)

	if err != nil {
		return nil, &RunError{Args: args, Lines: lines, Err: err}
	}
	if bytes.Contains(out, []byte(errorMarker)) {
		return nil, &RunError{Args: args, Lines: lines}
	}
	return lines, nil
}

// splitLines splits converter stdout on newlines, dropping carriage
// returns (the Windows build emits CRLF) and a trailing empty line.
func splitLines(out []byte) []string {
	if len(out) == 0 {
		return nil
	}
	raw := strings.Split(string(out), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, strings.TrimSuffix(l, "\r"))
	}
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// OutputLines extracts the converter stdout lines from err when a
// *RunError is in its chain. Callers use this to show converter output
// after a failure.
func OutputLines(err error) []string {
	var re *RunError
	if errors.As(err, &re) {
		return re.Lines
	}
	return nil
}
