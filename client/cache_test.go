package client

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"metasearch/search"
)

func TestCachePutGet(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "responses.db"), time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cache.Close()

	body := []byte("<html>cached</html>")
	if err := cache.Put(search.Bing, "https://www.bing.com/search?q=x", body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := cache.Get(search.Bing, "https://www.bing.com/search?q=x")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if !bytes.Equal(got, body) {
		t.Errorf("expected %q, got %q", body, got)
	}

	if _, ok := cache.Get(search.Google, "https://www.bing.com/search?q=x"); ok {
		t.Error("expected a miss for a different engine")
	}
	if _, ok := cache.Get(search.Bing, "https://www.bing.com/search?q=y"); ok {
		t.Error("expected a miss for a different url")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "responses.db"), time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cache.Close()

	now := time.Unix(1700000000, 0)
	cache.now = func() time.Time { return now }

	if err := cache.Put(search.Bing, "https://www.bing.com/search?q=x", []byte("body")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(30 * time.Second)
	if _, ok := cache.Get(search.Bing, "https://www.bing.com/search?q=x"); !ok {
		t.Error("expected a hit before the ttl elapsed")
	}

	now = now.Add(31 * time.Second)
	if _, ok := cache.Get(search.Bing, "https://www.bing.com/search?q=x"); ok {
		t.Error("expected a miss after the ttl elapsed")
	}
}
