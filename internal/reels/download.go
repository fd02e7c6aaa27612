package reels

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	downloadAttempts   = 5
	downloadRetryDelay = 5 * time.Second
)

// Downloader fetches remote media into a job's working directory, with a
// shared file cache so repeated jobs don't refetch the same footage.
type Downloader struct {
	cacheDir   string
	client     *http.Client
	retryDelay time.Duration
}

// NewDownloader creates a downloader caching into cacheDir.
func NewDownloader(cacheDir string) (*Downloader, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download cache dir: %w", err)
	}
	return &Downloader{
		cacheDir:   cacheDir,
		client:     &http.Client{Timeout: 5 * time.Minute},
		retryDelay: downloadRetryDelay,
	}, nil
}

// SetRetryDelay overrides the fixed inter-attempt delay.
func (d *Downloader) SetRetryDelay(delay time.Duration) { d.retryDelay = delay }

// Download fetches rawURL into destDir and returns the local path. Cache hits
// skip the network entirely; transient fetch failures are retried with a
// fixed delay.
func (d *Downloader) Download(ctx context.Context, destDir, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid resource URL %q: %w", rawURL, err)
	}
	filename := path.Base(parsed.Path)
	if filename == "" || filename == "." || filename == "/" {
		return "", fmt.Errorf("resource URL %q has no usable filename", rawURL)
	}
	destPath := filepath.Join(destDir, filename)
	cachePath := filepath.Join(d.cacheDir, filename)

	if _, err := os.Stat(cachePath); err == nil {
		log.Printf("[Download] found resource in cache: %s", cachePath)
		if err := copyFile(cachePath, destPath); err != nil {
			return "", fmt.Errorf("failed to copy cached resource: %w", err)
		}
		return destPath, nil
	}

	op := func() error {
		return d.fetch(ctx, rawURL, destPath)
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(d.retryDelay), downloadAttempts-1), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", fmt.Errorf("failed to download %s: %w", rawURL, err)
	}

	// Populate the cache best-effort; the download already succeeded.
	if err := copyFile(destPath, cachePath); err != nil {
		log.Printf("[Download] warning: failed to cache %s: %v", filename, err)
	}
	return destPath, nil
}

func (d *Downloader) fetch(ctx context.Context, rawURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	log.Printf("[Download] downloading resource from: %s", rawURL)
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// copyFile copies src to dst, truncating dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
