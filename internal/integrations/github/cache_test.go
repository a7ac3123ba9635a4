// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-19
// Last Modified: 2026-08-23

package github

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newCachedHTTPClient(t *testing.T, lifespan time.Duration) (*http.Client, *Cache) {
	t.Helper()
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	cache.lifespan = lifespan
	return &http.Client{Transport: &cacheTransport{next: http.DefaultTransport, cache: cache}}, cache
}

func get(t *testing.T, client *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body failed: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestCacheServesFreshEntryWithoutRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Etag", `"v1"`)
		fmt.Fprint(w, "payload")
	}))
	defer srv.Close()

	client, _ := newCachedHTTPClient(t, time.Minute)

	if _, body := get(t, client, srv.URL+"/resource"); body != "payload" {
		t.Errorf("first fetch body = %q", body)
	}
	if _, body := get(t, client, srv.URL+"/resource"); body != "payload" {
		t.Errorf("cached fetch body = %q", body)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 upstream hit for a fresh entry, got %d", got)
	}
}

func TestCacheRevalidatesWithETag(t *testing.T) {
	var conditional atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			conditional.Add(1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Etag", `"v1"`)
		fmt.Fprint(w, "payload")
	}))
	defer srv.Close()

	// Zero lifespan: every read revalidates.
	client, _ := newCachedHTTPClient(t, 0)

	get(t, client, srv.URL+"/resource")
	status, body := get(t, client, srv.URL+"/resource")
	if status != http.StatusOK || body != "payload" {
		t.Errorf("revalidated fetch = %d %q, want 200 with cached payload", status, body)
	}
	if got := conditional.Load(); got != 1 {
		t.Errorf("expected 1 conditional request, got %d", got)
	}
}

func TestCacheMarkForcesRevalidation(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			return
		}
		hits.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Etag", `"v1"`)
		fmt.Fprint(w, "payload")
	}))
	defer srv.Close()

	client, cache := newCachedHTTPClient(t, time.Minute)

	get(t, client, srv.URL+"/resource")

	// A write call marks the cache; mtime resolution needs a beat.
	time.Sleep(10 * time.Millisecond)
	resp, err := client.Post(srv.URL+"/resource", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()

	if cache.current(srv.URL + "/resource") {
		t.Error("entry should not be current after a mark")
	}

	if _, body := get(t, client, srv.URL+"/resource"); body != "payload" {
		t.Errorf("post-mark fetch body = %q", body)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("expected revalidation after mark, got %d GET hits", got)
	}
}

func TestCacheIgnoresErrorResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client, cache := newCachedHTTPClient(t, time.Minute)
	if status, _ := get(t, client, srv.URL+"/missing"); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if _, ok := cache.read(srv.URL + "/missing"); ok {
		t.Error("404 responses must not be cached")
	}
}
