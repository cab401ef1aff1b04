package gtfsstatic

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Downloader maintains a single locally cached copy of the GTFS static
// archive with a freshness window measured from the last successful
// download.
type Downloader struct {
	url        string
	path       string
	ttl        time.Duration
	httpClient *http.Client
}

func NewDownloader(url, path string, ttl time.Duration) *Downloader {
	return &Downloader{
		url:        url,
		path:       path,
		ttl:        ttl,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Ensure returns the path to a usable archive copy. A cached file
// within the freshness window is reused; otherwise (or when force is
// set) the archive is re-downloaded and atomically replaced. When the
// download fails but a stale copy exists, the stale copy is returned
// best-effort. No cache and no download means no archive.
func (d *Downloader) Ensure(ctx context.Context, force bool) (string, error) {
	info, statErr := os.Stat(d.path)
	cached := statErr == nil

	if cached && !force && time.Since(info.ModTime()) < d.ttl {
		return d.path, nil
	}

	if err := d.download(ctx); err != nil {
		if cached {
			log.Printf("GTFS static download failed, serving stale cache: %v", err)
			return d.path, nil
		}
		return "", fmt.Errorf("no cached archive and download failed: %w", err)
	}

	return d.path, nil
}

// download fetches the archive into a temp file next to the cache path
// and renames it into place, so a concurrent reader never observes a
// partially written archive.
func (d *Downloader) download(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return err
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", d.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, d.url)
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "gtfs-static-*.zip")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, d.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace archive: %w", err)
	}

	log.Printf("Downloaded GTFS static archive to %s", d.path)
	return nil
}
