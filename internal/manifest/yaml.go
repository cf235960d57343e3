package manifest

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/vk/buldr/internal/config"
	"github.com/vk/buldr/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// YAMLLoader reads build.yaml and build.yml manifests.
type YAMLLoader struct{}

// NewYAMLLoader creates a YAML manifest loader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// Load implements config.Loader. Unknown keys are rejected.
func (l *YAMLLoader) Load(ctx context.Context, path string) (*config.Model, error) {
	ctxlog.FromContext(ctx).Debug("YAML loader started.", "path", path)

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, config.Errorf(path, "%v", err)
	}

	m, err := doc.translate(path)
	if err != nil {
		return nil, err
	}
	return finish(ctx, m, path)
}
