package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/buldr/internal/config"
	"github.com/vk/buldr/internal/ctxlog"
)

// Candidates are the manifest names Find looks for, in priority order.
var Candidates = []string{"build.hcl", "build.toml", "build.yaml", "build.yml"}

// Find returns the first manifest candidate present in dir.
func Find(dir string) (string, error) {
	for _, name := range Candidates {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("manifest: %w", err)
		}
	}
	return "", config.Errorf(dir, "no manifest found (looked for %s)", strings.Join(Candidates, ", "))
}

// LoaderFor picks the front-end matching the extension of path.
func LoaderFor(path string) (config.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return NewHCLLoader(), nil
	case ".toml":
		return NewTOMLLoader(), nil
	case ".yaml", ".yml":
		return NewYAMLLoader(), nil
	default:
		return nil, config.Errorf(path, "unsupported manifest format %q", filepath.Ext(path))
	}
}

// Load reads the manifest at path with the matching front-end.
func Load(ctx context.Context, path string) (*config.Model, error) {
	loader, err := LoaderFor(path)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx, path)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, config.Errorf(path, "manifest does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return data, nil
}

// finish anchors m at the manifest location, applies defaults and
// validates it.
func finish(ctx context.Context, m *config.Model, path string) (*config.Model, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	m.Path = abs
	m.Root = filepath.Dir(abs)
	m.ApplyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Manifest loaded.", "path", m.Path, "root", m.Root, "projects", len(m.Projects))
	return m, nil
}
