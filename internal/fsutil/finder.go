// Package fsutil expands manifest source entries into concrete source files.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultCacheEntries bounds how many directory walks a Resolver remembers.
const defaultCacheEntries = 256

// MatchesExtension reports whether name ends with one of extensions.
func MatchesExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if ext != "" && strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// FindFilesByExtension recursively searches rootPath for files ending with
// any of the given extensions. Paths are returned in lexical order.
func FindFilesByExtension(rootPath string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		panic("extensions must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && MatchesExtension(d.Name(), extensions) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Resolver expands source entries and memoises directory walks, so projects
// sharing a source tree (and repeated resolution within one invocation)
// walk the filesystem once.
type Resolver struct {
	walks *lru.Cache[string, []string]
}

// NewResolver creates a Resolver with a bounded walk cache.
func NewResolver() *Resolver {
	cache, err := lru.New[string, []string](defaultCacheEntries)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &Resolver{walks: cache}
}

// Expand resolves one absolute source entry. A file is returned as-is when
// its extension is recognised (and dropped otherwise); a directory yields
// every matching file beneath it in lexical order. A missing entry returns
// an error wrapping fs.ErrNotExist.
func (r *Resolver) Expand(entry string, extensions []string) ([]string, error) {
	info, err := os.Stat(entry)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if MatchesExtension(filepath.Base(entry), extensions) {
			return []string{entry}, nil
		}
		return nil, nil
	}

	key := entry + "\x00" + strings.Join(extensions, "\x00")
	if files, ok := r.walks.Get(key); ok {
		return append([]string(nil), files...), nil
	}
	files, err := FindFilesByExtension(entry, extensions)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", entry, err)
	}
	r.walks.Add(key, files)
	return append([]string(nil), files...), nil
}
