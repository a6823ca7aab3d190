// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package update

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slusenc/convpix/pkg/types"
)

func TestStale(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "converter_pix")

	// Missing binary is always stale.
	assert.True(t, Stale(path, time.Hour))

	require.NoError(t, os.WriteFile(path, []byte("bin"), 0o755))
	assert.False(t, Stale(path, time.Hour))

	// Backdate the mod time past the max age.
	old := time.Now().Add(-25 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
	assert.True(t, Stale(path, 0))
}

func TestRefreshDownloads(t *testing.T) {
	var gotAuth, gotAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte("binary contents"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "converter_pix")
	cfg := types.UpdateConfig{
		HTTPConfig:  types.HTTPConfig{UserAgent: "convpix/0.1"},
		URL:         ts.URL,
		BinaryPath:  dest,
		GitHubToken: "ghp_test",
	}

	var log bytes.Buffer
	require.NoError(t, Refresh(context.Background(), cfg, true, &log))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "binary contents", string(data))
	assert.Equal(t, "Bearer ghp_test", gotAuth)
	assert.Equal(t, "convpix/0.1", gotAgent)
	assert.Contains(t, log.String(), "ConverterPIX updated")

	if runtime.GOOS != "windows" {
		info, err := os.Stat(dest)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&0o111, "binary should be executable")
	}
}

func TestRefreshSkipsFreshBinary(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte("bin"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "converter_pix")
	require.NoError(t, os.WriteFile(dest, []byte("existing"), 0o755))

	cfg := types.UpdateConfig{URL: ts.URL, BinaryPath: dest}

	var log bytes.Buffer
	require.NoError(t, Refresh(context.Background(), cfg, false, &log))

	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.Contains(t, log.String(), "up to date")
}

func TestRefreshHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "converter_pix")
	cfg := types.UpdateConfig{URL: ts.URL, BinaryPath: dest}

	err := Refresh(context.Background(), cfg, true, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")

	// No partial file left behind.
	assert.NoFileExists(t, dest)
}

func TestRefreshAsyncReportsFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "converter_pix")
	cfg := types.UpdateConfig{URL: ts.URL, BinaryPath: dest}

	var log bytes.Buffer
	<-RefreshAsync(context.Background(), cfg, &log)

	assert.Contains(t, log.String(), "ConverterPIX update failed")
}

func TestRefreshAsyncSuccessIsQuiet(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("bin"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "converter_pix")
	cfg := types.UpdateConfig{URL: ts.URL, BinaryPath: dest}

	var log bytes.Buffer
	<-RefreshAsync(context.Background(), cfg, &log)

	assert.Empty(t, log.String())
	assert.FileExists(t, dest)
}
