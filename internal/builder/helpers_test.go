package builder

import (
	"os"
	"path/filepath"
	"strings"
)

func removeFile(path string) error { return os.Remove(path) }

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && !strings.HasPrefix(rel, "..")
}
