// Package cleaner removes build outputs.
package cleaner

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/buldr/internal/config"
	"github.com/vk/buldr/internal/ctxlog"
)

// Clean deletes the object and binary directories of m, including the
// persisted build state. Cleaning an already clean tree is not an error.
func Clean(ctx context.Context, m *config.Model) error {
	logger := ctxlog.FromContext(ctx)
	for _, dir := range []string{m.ObjDir(), m.BinDir()} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("cleaner: remove %s: %w", dir, err)
		}
		logger.Info("🧹 Removed.", "dir", dir)
	}
	return nil
}
