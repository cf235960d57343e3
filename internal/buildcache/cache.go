// Package buildcache remembers, per object file, a fingerprint of the exact
// compile invocation that produced it, so a change of flags, includes or
// defines makes the object stale even when timestamps say otherwise.
package buildcache

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pelletier/go-toml"
	"github.com/vk/buldr/internal/ctxlog"
	"github.com/vk/buldr/internal/toolchain"
	"lukechampine.com/blake3"
)

// FileName is the state file kept inside the object directory.
const FileName = ".buldr-state.toml"

type stateFile struct {
	Objects []objectEntry `toml:"object,omitempty"`
}

type objectEntry struct {
	Path   string `toml:"path"`
	Digest string `toml:"digest"`
}

// Cache is a persisted map from object path to invocation fingerprint.
// It is safe for concurrent use by the compile workers of one project.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
	dirty   bool
}

// Open loads the state file at path. A missing file yields an empty cache;
// an unreadable one is logged and discarded, which only costs a rebuild.
func Open(ctx context.Context, path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]string)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("buildcache: read %s: %w", path, err)
	}

	var state stateFile
	if err := toml.Unmarshal(data, &state); err != nil {
		ctxlog.FromContext(ctx).Warn("Discarding unreadable build state.", "path", path, "error", err)
		c.dirty = true
		return c, nil
	}
	for _, e := range state.Objects {
		c.entries[e.Path] = e.Digest
	}
	return c, nil
}

// Fingerprint hashes everything that determines an object's content apart
// from the sources themselves.
func Fingerprint(inv toolchain.Invocation) string {
	h := blake3.New(32, nil)
	h.Write([]byte(inv.Tool))
	for _, arg := range inv.Args {
		h.Write([]byte{0})
		h.Write([]byte(arg))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Matches reports whether object was last built with digest.
func (c *Cache) Matches(object, digest string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	recorded, ok := c.entries[object]
	return ok && recorded == digest
}

// Record stores the digest of a successful compile.
func (c *Cache) Record(object, digest string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[object] == digest {
		return
	}
	c.entries[object] = digest
	c.dirty = true
}

// Len returns the number of remembered objects.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Save writes the state file if anything changed since Open.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	state := stateFile{Objects: make([]objectEntry, 0, len(c.entries))}
	for path, digest := range c.entries {
		state.Objects = append(state.Objects, objectEntry{Path: path, Digest: digest})
	}
	sort.Slice(state.Objects, func(i, j int) bool { return state.Objects[i].Path < state.Objects[j].Path })

	data, err := toml.Marshal(state)
	if err != nil {
		return fmt.Errorf("buildcache: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("buildcache: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("buildcache: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("buildcache: %w", err)
	}
	c.dirty = false
	return nil
}
