package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/buldr/internal/buildcache"
	"github.com/vk/buldr/internal/builder"
	"github.com/vk/buldr/internal/cleaner"
	"github.com/vk/buldr/internal/compdb"
	"github.com/vk/buldr/internal/config"
	"github.com/vk/buldr/internal/ctxlog"
	"github.com/vk/buldr/internal/fsutil"
	"github.com/vk/buldr/internal/manifest"
	"github.com/vk/buldr/internal/toolchain"
)

// Run executes the configured command. Failures are reported to the user
// before being returned so the caller only has to pick an exit code.
func (a *App) Run(ctx context.Context) error {
	ctx = a.Context(ctx)
	a.logger.Debug("App.Run method started.", "command", a.cfg.Command)

	var err error
	switch a.cfg.Command {
	case CommandCreate:
		err = a.create(ctx)
	case CommandClean:
		err = a.clean(ctx)
	case CommandCompileCommands:
		err = a.compileCommands(ctx)
	default:
		err = a.build(ctx)
	}
	if err != nil {
		a.reportFailure(err)
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) loadManifest(ctx context.Context) (*config.Model, error) {
	path := a.cfg.ManifestPath
	if path == "" {
		found, err := manifest.Find(a.cfg.WorkDir)
		if err != nil {
			return nil, err
		}
		path = found
	}
	return manifest.Load(ctx, path)
}

func (a *App) build(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	m, err := a.loadManifest(ctx)
	if err != nil {
		return err
	}
	bctx, err := builder.NewContext(ctx, m)
	if err != nil {
		return err
	}
	order, err := bctx.Targets(a.cfg.Target)
	if err != nil {
		return err
	}
	logger.Debug("Build order computed.", "order", order)

	cache, err := buildcache.Open(ctx, filepath.Join(m.ObjDir(), buildcache.FileName))
	if err != nil {
		return err
	}
	o := builder.NewOrchestrator(bctx, a.runner, fsutil.NewResolver(), cache, builder.Options{
		Jobs:     a.cfg.Jobs,
		Progress: a.progress,
	})
	report, err := o.Build(ctx, order)
	if err != nil {
		return err
	}

	a.out.success("Build succeeded: %d compiled, %d linked or packed, %d up to date (%s).",
		report.Compiled, len(report.Built), len(report.UpToDate), report.Elapsed.Round(time.Millisecond))
	return nil
}

func (a *App) clean(ctx context.Context) error {
	m, err := a.loadManifest(ctx)
	if err != nil {
		return err
	}
	if err := cleaner.Clean(ctx, m); err != nil {
		return err
	}
	a.out.success("Cleaned %s and %s.", m.ObjDir(), m.BinDir())
	return nil
}

func (a *App) compileCommands(ctx context.Context) error {
	m, err := a.loadManifest(ctx)
	if err != nil {
		return err
	}
	bctx, err := builder.NewContext(ctx, m)
	if err != nil {
		return err
	}
	path, err := compdb.Write(ctx, bctx, fsutil.NewResolver(), a.cfg.WorkDir)
	if err != nil {
		return err
	}
	a.out.success("Wrote %s.", path)
	return nil
}

func (a *App) create(ctx context.Context) error {
	path, created, err := manifest.WriteTemplate(a.cfg.WorkDir)
	if err != nil {
		return err
	}
	if !created {
		ctxlog.FromContext(ctx).Warn("Manifest already exists, leaving it untouched.", "path", path)
		a.out.warn("%s already exists.", path)
		return nil
	}
	a.out.success("Created %s.", path)
	return nil
}

// reportFailure prints err for humans. Tool failures also get the exact
// command and the captured diagnostics.
func (a *App) reportFailure(err error) {
	a.logger.Error("Invocation failed.", "error", err)

	var toolErr *toolchain.ToolInvocationError
	if !errors.As(err, &toolErr) {
		a.out.failure("error: %v", err)
		return
	}
	if toolErr.Err != nil {
		a.out.failure("error: %s step could not start: %v", toolErr.Step, toolErr.Err)
	} else {
		a.out.failure("error: %s step failed (exit code %d)", toolErr.Step, toolErr.ExitCode)
	}
	a.out.plain("  %s", strings.Join(append([]string{toolErr.Tool}, toolErr.Args...), " "))
	if diag := strings.TrimRight(toolErr.Output, "\n"); diag != "" {
		a.out.plain("%s", diag)
	}
}
