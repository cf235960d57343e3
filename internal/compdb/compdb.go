// Package compdb exports a JSON compilation database
// (compile_commands.json) for editor tooling.
package compdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/buldr/internal/builder"
	"github.com/vk/buldr/internal/ctxlog"
	"github.com/vk/buldr/internal/fsutil"
)

// FileName is the conventional database name.
const FileName = "compile_commands.json"

// Entry is one translation unit.
type Entry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Arguments []string `json:"arguments"`
	Output    string   `json:"output"`
}

// Export lists every source of every project, in build order and then by
// source path. The arguments are exactly what a compile would run, so the
// database never disagrees with the build.
func Export(ctx context.Context, bctx *builder.Context, r *fsutil.Resolver) ([]Entry, error) {
	logger := ctxlog.FromContext(ctx)

	var entries []Entry
	for _, name := range bctx.Graph.Order() {
		p, _ := bctx.Project(name)
		units, err := bctx.ResolveSources(r, p)
		if err != nil {
			return nil, err
		}
		for _, u := range units {
			inv := bctx.CompileInvocation(u)
			entries = append(entries, Entry{
				Directory: inv.Dir,
				File:      u.Source,
				Arguments: append([]string{inv.Tool}, inv.Args...),
				Output:    u.Object,
			})
		}
		logger.Debug("Compilation database entries collected.", "project", name, "count", len(units))
	}
	return entries, nil
}

// Write exports the database and writes it to dir/compile_commands.json,
// returning the path written.
func Write(ctx context.Context, bctx *builder.Context, r *fsutil.Resolver, dir string) (string, error) {
	entries, err := Export(ctx, bctx, r)
	if err != nil {
		return "", err
	}
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("compdb: encode: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("compdb: write %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Info("📝 Compilation database written.", "path", path, "entries", len(entries))
	return path, nil
}
