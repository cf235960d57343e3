package manifest

import (
	"bytes"
	"context"

	"github.com/pelletier/go-toml"
	"github.com/vk/buldr/internal/config"
	"github.com/vk/buldr/internal/ctxlog"
)

// TOMLLoader reads build.toml manifests.
type TOMLLoader struct{}

// NewTOMLLoader creates a TOML manifest loader.
func NewTOMLLoader() *TOMLLoader {
	return &TOMLLoader{}
}

// Load implements config.Loader. Unknown keys are rejected.
func (l *TOMLLoader) Load(ctx context.Context, path string) (*config.Model, error) {
	ctxlog.FromContext(ctx).Debug("TOML loader started.", "path", path)

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := toml.NewDecoder(bytes.NewReader(data)).Strict(true).Decode(&doc); err != nil {
		return nil, config.Errorf(path, "%v", err)
	}

	m, err := doc.translate(path)
	if err != nil {
		return nil, err
	}
	return finish(ctx, m, path)
}
