package gtfsstatic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDownloadsWhenMissing(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("archive-v1"))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "gtfs.zip")
	d := NewDownloader(server.URL, path, time.Hour)

	got, err := d.Ensure(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, 1, hits)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "archive-v1", string(data))
}

func TestEnsureReusesFreshCache(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("archive-v1"))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "gtfs.zip")
	require.NoError(t, os.WriteFile(path, []byte("cached"), 0o644))

	d := NewDownloader(server.URL, path, time.Hour)

	got, err := d.Ensure(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, 0, hits)
}

func TestEnsureRefetchesExpiredCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("archive-v2"))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "gtfs.zip")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(path, stale, stale))

	d := NewDownloader(server.URL, path, time.Hour)

	_, err := d.Ensure(context.Background(), false)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "archive-v2", string(data))
}

func TestEnsureForceBypassesFreshCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("archive-v2"))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "gtfs.zip")
	require.NoError(t, os.WriteFile(path, []byte("cached"), 0o644))

	d := NewDownloader(server.URL, path, time.Hour)

	_, err := d.Ensure(context.Background(), true)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "archive-v2", string(data))
}

func TestEnsureServesStaleOnDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "gtfs.zip")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	d := NewDownloader(server.URL, path, time.Hour)

	got, err := d.Ensure(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "stale", string(data))
}

func TestEnsureErrorsWithoutCacheOrDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "gtfs.zip")
	d := NewDownloader(server.URL, path, time.Hour)

	_, err := d.Ensure(context.Background(), false)
	assert.Error(t, err)
}
