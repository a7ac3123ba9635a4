// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-19
// Last Modified: 2026-08-23

package github

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DefaultCacheLifespan is how long a cached response is served without
// revalidation.
const DefaultCacheLifespan = 60 * time.Second

// Cache is a read-through store of GitHub GET responses, keyed by request
// URL. Entries carry the validators (ETag / Last-Modified) needed for
// conditional requests; Mark invalidates freshness after any write call so
// subsequent reads revalidate.
type Cache struct {
	dir      string
	lifespan time.Duration
}

// cacheEntry is the on-disk JSON shape of one cached response.
type cacheEntry struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    []byte            `json:"body"`
}

// NewCache creates a response cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir, lifespan: DefaultCacheLifespan}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

func (c *Cache) entryPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

func (c *Cache) markPath() string {
	return filepath.Join(c.dir, "mark")
}

// read returns the cached entry for key, if any.
func (c *Cache) read(key string) (*cacheEntry, bool) {
	data, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

// write stores an entry for key. The file mtime doubles as the fetch time.
func (c *Cache) write(key string, entry *cacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(c.entryPath(key), data, 0o644)
}

// Mark records that a mutating request went through; entries fetched before
// the mark are no longer served without revalidation.
func (c *Cache) Mark() {
	now := time.Now()
	if err := os.Chtimes(c.markPath(), now, now); err != nil {
		os.WriteFile(c.markPath(), nil, 0o644)
	}
}

// current reports whether the entry for key is fresh: fetched within the
// lifespan and after the last mark.
func (c *Cache) current(key string) bool {
	info, err := os.Stat(c.entryPath(key))
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) > c.lifespan {
		return false
	}
	if mark, err := os.Stat(c.markPath()); err == nil && info.ModTime().Before(mark.ModTime()) {
		return false
	}
	return true
}

// cacheTransport serves GETs through the cache with conditional
// revalidation and marks the cache on successful write calls.
type cacheTransport struct {
	next  http.RoundTripper
	cache *Cache
}

func (t *cacheTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		resp, err := t.next.RoundTrip(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			t.cache.Mark()
		}
		return resp, err
	}

	key := req.URL.String()
	entry, cached := t.cache.read(key)
	if cached {
		if t.cache.current(key) {
			return entry.response(req), nil
		}
		if etag := entry.Headers["Etag"]; etag != "" {
			req.Header.Set("If-None-Match", etag)
		} else if modified := entry.Headers["Last-Modified"]; modified != "" {
			req.Header.Set("If-Modified-Since", modified)
		}
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if cached && resp.StatusCode == http.StatusNotModified {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		// Rewrite to refresh the fetch time.
		t.cache.write(key, entry)
		return entry.response(req), nil
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		fresh := &cacheEntry{
			Status:  resp.StatusCode,
			Headers: map[string]string{},
			Body:    body,
		}
		for name := range resp.Header {
			fresh.Headers[name] = resp.Header.Get(name)
		}
		t.cache.write(key, fresh)
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	return resp, nil
}

// response synthesizes an http.Response from a cached entry.
func (e *cacheEntry) response(req *http.Request) *http.Response {
	header := make(http.Header, len(e.Headers))
	for name, value := range e.Headers {
		header.Set(name, value)
	}
	return &http.Response{
		StatusCode:    e.Status,
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}
