package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when CachePayload format changes.
const cacheSchemaVersion uint16 = 1

// Digest identifies a (source, configuration) pair.
type Digest [32]byte

// Cache stores optimized output on disk keyed by source and configuration,
// so re-optimizing unchanged files is a read. Thread-safe for concurrent
// access from parallel directory runs.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is the serialized cache entry.
type CachePayload struct {
	// Schema version for safe invalidation when the format changes.
	Schema uint16

	Path    string // source path, informational only
	Passes  string // pass key sequence that produced Output
	Dialect string
	Output  string // canonical optimized source text
}

// OpenCache initializes and returns a disk cache at the standard location.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Key derives the cache digest for one file under one session.
func (s *Session) Key(sourceHash [32]byte, passes string) Digest {
	h := sha256.New()
	h.Write(sourceHash[:])
	fmt.Fprintf(h, "|schema=%d|dialect=%s|passes=%s|stack=%d|reserved=%s",
		cacheSchemaVersion, s.Dialect.Name(), passes, s.Config.StackLimit,
		strings.Join(s.Config.Reserved, ","))
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

func (c *Cache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Subdirectory "out" keeps entries easy to inspect and clear.
	return filepath.Join(c.dir, "out", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache atomically.
func (c *Cache) Put(key Digest, payload *CachePayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace.
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. A missing or
// schema-mismatched entry reports ok=false without error.
func (c *Cache) Get(key Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != cacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "out"))
}
