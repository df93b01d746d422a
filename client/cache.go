package client

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"metasearch/search"
)

var cacheBucket = []byte("responses")

// Cache is a time-bounded response cache on bbolt, keyed by engine and
// URL. Entries past their TTL are treated as absent and overwritten on the
// next write.
type Cache struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time
}

// OpenCache opens (or creates) the cache database at path.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("cache: create directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create bucket: %w", err)
	}

	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

func cacheKey(engine search.Engine, url string) []byte {
	return []byte(string(engine) + "\x00" + url)
}

// Get returns the cached body for engine+url if a fresh entry exists.
func (c *Cache) Get(engine search.Engine, url string) ([]byte, bool) {
	var body []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(cacheBucket).Get(cacheKey(engine, url))
		if len(v) < 8 {
			return nil
		}
		storedAt := time.Unix(0, int64(binary.BigEndian.Uint64(v[:8])))
		if c.now().Sub(storedAt) > c.ttl {
			return nil
		}
		body = append([]byte(nil), v[8:]...)
		return nil
	})
	if err != nil || body == nil {
		return nil, false
	}
	return body, true
}

// Put stores a response body for engine+url, stamped with the current time.
func (c *Cache) Put(engine search.Engine, url string, body []byte) error {
	value := make([]byte, 8+len(body))
	binary.BigEndian.PutUint64(value[:8], uint64(c.now().UnixNano()))
	copy(value[8:], body)

	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put(cacheKey(engine, url), value)
	})
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
