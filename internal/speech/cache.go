package speech

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// speechExt is the on-disk extension for cached narration. The cache directory
// layout ({voiceId}_{sha256(text)}.mp3, no index file) is persisted state and
// must stay stable across versions.
const speechExt = ".mp3"

// CacheKey derives the content address for a narration request. It is a pure
// function of the voice id and the text (trimmed of surrounding whitespace), so
// equal requests map to the same key across process restarts.
func CacheKey(voiceID, text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return fmt.Sprintf("%s_%x", voiceID, sum)
}

// Cache is a content-addressable store of synthesized speech files. Existence
// of a file named by the key is the index; entries are never mutated and never
// deleted here.
type Cache struct {
	dir string
}

// NewCache opens (creating if needed) the cache directory.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create speech cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string { return c.dir }

// Lookup probes the cache for a key and returns the cached file path on a hit.
func (c *Cache) Lookup(key string) (string, bool) {
	path := filepath.Join(c.dir, key+speechExt)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Store copies sourcePath into the cache under the given key. The caller keeps
// its own copy. The write goes to a temporary name in the cache directory and
// is renamed into place, so concurrent writers racing on the same key can never
// expose a partial file to a reader.
func (c *Cache) Store(key, sourcePath string) error {
	tmp, err := os.CreateTemp(c.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create cache temp file: %w", err)
	}
	tmpPath := tmp.Name()

	src, err := os.Open(sourcePath)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to open speech file: %w", err)
	}
	defer src.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy speech into cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush cache temp file: %w", err)
	}

	final := filepath.Join(c.dir, key+speechExt)
	if err := os.Rename(tmpPath, final); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to publish cache entry: %w", err)
	}
	return nil
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
