// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package update downloads and refreshes the cached ConverterPIX binary.
package update

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/slusenc/convpix/internal/converter"
	"github.com/slusenc/convpix/internal/httputil"
	"github.com/slusenc/convpix/pkg/types"
)

// DefaultMaxAge is how old the cached binary may grow before a refresh
// re-downloads it.
const DefaultMaxAge = 24 * time.Hour

// Stale reports whether the binary at path is missing or its mod time is
// older than maxAge. maxAge <= 0 means DefaultMaxAge.
func Stale(path string, maxAge time.Duration) bool {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return time.Since(info.ModTime()) > maxAge
}

// Refresh downloads the converter binary into the cache when force is
// set or the cached copy is stale. Progress goes to w.
func Refresh(ctx context.Context, cfg types.UpdateConfig, force bool, w io.Writer) error {
	dest := cfg.BinaryPath
	if dest == "" {
		p, err := converter.BinaryPath()
		if err != nil {
			return err
		}
		dest = p
	}

	if !force && !Stale(dest, cfg.MaxAge) {
		fmt.Fprintf(w, "converter binary up to date: %s\n", dest)
		return nil
	}

	url := cfg.URL
	if url == "" {
		url = converter.DownloadURL()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	fmt.Fprintf(w, "downloading ConverterPIX from %s\n", url)
	if err := download(ctx, client, cfg, url, dest); err != nil {
		return fmt.Errorf("updating ConverterPIX: %w", err)
	}
	fmt.Fprintf(w, "ConverterPIX updated: %s\n", dest)
	return nil
}

// RefreshAsync runs Refresh in the background. Failures are reported to
// w and otherwise ignored; the returned channel closes when the attempt
// finishes, so long-lived callers can wait if they want to.
func RefreshAsync(ctx context.Context, cfg types.UpdateConfig, w io.Writer) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := Refresh(ctx, cfg, false, io.Discard); err != nil {
			fmt.Fprintf(w, "warning: ConverterPIX update failed: %v\n", err)
		}
	}()
	return done
}

// download fetches url to dest via a temp file and rename, then marks
// the result executable.
func download(ctx context.Context, client *http.Client, cfg types.UpdateConfig, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	if cfg.GitHubToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.GitHubToken)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), ".convpix-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(dest, 0o755); err != nil {
			return fmt.Errorf("marking %s executable: %w", dest, err)
		}
	}
	return nil
}
