package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed template.toml
var template []byte

// TemplateName is the file written by WriteTemplate.
const TemplateName = "build.toml"

// WriteTemplate writes a starter build.toml into dir. An existing manifest
// of any format is left untouched; created reports whether a file was
// written and path names the manifest in either case.
func WriteTemplate(dir string) (path string, created bool, err error) {
	if existing, err := Find(dir); err == nil {
		return existing, false, nil
	}

	path = filepath.Join(dir, TemplateName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return path, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("manifest: create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(template); err != nil {
		return "", false, fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return path, true, nil
}
