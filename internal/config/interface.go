package config

import "context"

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load reads the manifest at path, translates it into the
	// format-agnostic model, applies defaults and validates it.
	Load(ctx context.Context, path string) (*Model, error)
}
