package reels

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

func newTestDownloader(t *testing.T) *Downloader {
	t.Helper()
	d, err := NewDownloader(filepath.Join(t.TempDir(), "videos"))
	require.NoError(t, err)
	d.SetRetryDelay(time.Millisecond)
	return d
}

func TestDownloadFetchesAndCaches(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("clip-bytes"))
	}))
	defer srv.Close()

	d := newTestDownloader(t)
	destDir := t.TempDir()

	got, err := d.Download(context.Background(), destDir, srv.URL+"/footage/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "clip.mp4"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "clip-bytes", string(data))

	// Second fetch of the same filename is served from the cache.
	otherDir := t.TempDir()
	got, err = d.Download(context.Background(), otherDir, srv.URL+"/footage/clip.mp4")
	require.NoError(t, err)

	data, err = os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "clip-bytes", string(data))
	assert.Equal(t, 1, requests)
}

func TestDownloadRetriesTransientFailures(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	d := newTestDownloader(t)

	_, err := d.Download(context.Background(), t.TempDir(), srv.URL+"/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, 3, requests)
}

func TestDownloadExhaustsRetryBudget(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := newTestDownloader(t)

	_, err := d.Download(context.Background(), t.TempDir(), srv.URL+"/a.mp4")
	require.Error(t, err)
	assert.Equal(t, downloadAttempts, requests)
}

func TestDownloadRejectsBareURL(t *testing.T) {
	d := newTestDownloader(t)

	_, err := d.Download(context.Background(), t.TempDir(), "https://example.com/")
	assert.Error(t, err)
}
