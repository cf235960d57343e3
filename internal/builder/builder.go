package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vk/buldr/internal/buildcache"
	"github.com/vk/buldr/internal/config"
	"github.com/vk/buldr/internal/ctxlog"
	"github.com/vk/buldr/internal/fsutil"
	"github.com/vk/buldr/internal/toolchain"
	"golang.org/x/sync/errgroup"
)

// Options tune an Orchestrator.
type Options struct {
	// Jobs bounds concurrent compiles within one project. Values below 1
	// mean 1.
	Jobs int
	// Progress is optional.
	Progress ProgressFunc
}

// Orchestrator runs the compile and link steps of a build order.
type Orchestrator struct {
	bctx     *Context
	runner   toolchain.Runner
	resolver *fsutil.Resolver
	cache    *buildcache.Cache
	opts     Options
}

// NewOrchestrator wires an Orchestrator. cache may be nil, in which case
// staleness is decided by timestamps alone.
func NewOrchestrator(bctx *Context, runner toolchain.Runner, resolver *fsutil.Resolver, cache *buildcache.Cache, opts Options) *Orchestrator {
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	if opts.Progress == nil {
		opts.Progress = discardProgress
	}
	return &Orchestrator{
		bctx:     bctx,
		runner:   runner,
		resolver: resolver,
		cache:    cache,
		opts:     opts,
	}
}

// Report summarises a finished build.
type Report struct {
	Order    []string
	Compiled int
	Built    []string
	UpToDate []string
	Elapsed  time.Duration
}

// Build processes each project of order in sequence. The first failing
// compile, link or pack step aborts the whole build.
func (o *Orchestrator) Build(ctx context.Context, order []string) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	report := &Report{Order: order}

	logger.Info("🚀 Starting build.", "projects", len(order), "jobs", o.opts.Jobs)
	for _, name := range order {
		p, ok := o.bctx.Project(name)
		if !ok {
			return report, fmt.Errorf("builder: project %q is not in the manifest", name)
		}
		if err := o.buildProject(ctx, p, report); err != nil {
			return report, err
		}
	}
	report.Elapsed = time.Since(start)
	logger.Info("✅ Build finished.", "compiled", report.Compiled, "built", len(report.Built), "up_to_date", len(report.UpToDate), "elapsed", report.Elapsed)
	return report, nil
}

func (o *Orchestrator) buildProject(ctx context.Context, p *config.Project, report *Report) error {
	logger := ctxlog.FromContext(ctx).With("project", p.Name)

	units, err := o.bctx.ResolveSources(o.resolver, p)
	if err != nil {
		return err
	}
	logger.Debug("Sources resolved.", "count", len(units))

	stale, err := o.staleUnits(ctx, units)
	if err != nil {
		return err
	}

	if len(stale) > 0 {
		if err := o.compile(ctx, p, stale); err != nil {
			return err
		}
		report.Compiled += len(stale)
	}

	objects := make([]string, len(units))
	for i, u := range units {
		objects[i] = u.Object
	}

	relink, reason, err := o.needsArtifact(p, objects, len(stale) > 0)
	if err != nil {
		return err
	}
	if !relink {
		logger.Info("Project is up to date.")
		report.UpToDate = append(report.UpToDate, p.Name)
		return nil
	}

	inv := o.bctx.ArtifactInvocation(p, objects)
	if err := os.MkdirAll(filepath.Dir(inv.Output), 0o755); err != nil {
		return fmt.Errorf("builder: create output directory: %w", err)
	}
	logger.Info("🔗 Producing artifact.", "step", inv.Step, "output", inv.Output, "reason", reason)
	logger.Debug("Running tool.", "command", inv.CommandLine())
	if _, err := toolchain.Invoke(ctx, o.runner, inv); err != nil {
		return err
	}
	report.Built = append(report.Built, p.Name)
	if dependents, err := o.bctx.Graph.Dependents(p.Name); err == nil && len(dependents) > 0 {
		logger.Debug("Artifact refreshed for dependents.", "dependents", dependents)
	}
	return nil
}

// staleUnits returns the units whose object is missing, older than the
// source, or was produced by a different compile invocation.
func (o *Orchestrator) staleUnits(ctx context.Context, units []SourceUnit) ([]SourceUnit, error) {
	logger := ctxlog.FromContext(ctx)

	var stale []SourceUnit
	for _, u := range units {
		reason, err := o.staleReason(u)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			logger.Debug("Object is stale.", "object", u.Object, "reason", reason)
			stale = append(stale, u)
		}
	}
	return stale, nil
}

func (o *Orchestrator) staleReason(u SourceUnit) (string, error) {
	obj, err := os.Stat(u.Object)
	if errors.Is(err, fs.ErrNotExist) {
		return "object missing", nil
	}
	if err != nil {
		return "", fmt.Errorf("builder: stat %s: %w", u.Object, err)
	}
	src, err := os.Stat(u.Source)
	if err != nil {
		return "", fmt.Errorf("builder: stat %s: %w", u.Source, err)
	}
	if src.ModTime().After(obj.ModTime()) {
		return "source modified", nil
	}
	if o.cache != nil && !o.cache.Matches(u.Object, buildcache.Fingerprint(o.bctx.CompileInvocation(u))) {
		return "compile command changed", nil
	}
	return "", nil
}

// compile runs the stale units of one project with at most Jobs compiles
// in flight. After the first failure no further compiles are started.
func (o *Orchestrator) compile(ctx context.Context, p *config.Project, stale []SourceUnit) error {
	logger := ctxlog.FromContext(ctx).With("project", p.Name)
	logger.Info("🔨 Compiling.", "stale", len(stale))

	bar := o.opts.Progress(p.Name, len(stale))
	defer func() {
		if err := bar.Finish(); err != nil {
			logger.Warn("Failed to finish progress output.", "error", err)
		}
	}()

	if o.cache != nil {
		defer func() {
			if err := o.cache.Save(); err != nil {
				logger.Warn("Failed to persist build state.", "error", err)
			}
		}()
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Jobs)
	for _, u := range stale {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			inv := o.bctx.CompileInvocation(u)
			if err := os.MkdirAll(filepath.Dir(u.Object), 0o755); err != nil {
				return fmt.Errorf("builder: create object directory: %w", err)
			}
			logger.Debug("Running tool.", "command", inv.CommandLine())
			if _, err := toolchain.Invoke(gctx, o.runner, inv); err != nil {
				return err
			}
			if o.cache != nil {
				o.cache.Record(u.Object, buildcache.Fingerprint(inv))
			}
			mu.Lock()
			defer mu.Unlock()
			return bar.Add(1)
		})
	}
	return g.Wait()
}

// needsArtifact decides whether the link or pack step must run.
func (o *Orchestrator) needsArtifact(p *config.Project, objects []string, recompiled bool) (bool, string, error) {
	if recompiled {
		return true, "sources recompiled", nil
	}
	out := o.bctx.ArtifactPath(p)
	info, err := os.Stat(out)
	if errors.Is(err, fs.ErrNotExist) {
		return true, "artifact missing", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("builder: stat %s: %w", out, err)
	}

	inputs := append([]string(nil), objects...)
	if p.Kind == config.KindExecutable {
		for _, l := range o.bctx.Settings[p.Name].Links {
			if l.Archive != "" {
				inputs = append(inputs, l.Archive)
			}
		}
	}
	for _, in := range inputs {
		st, err := os.Stat(in)
		if err != nil {
			return true, "input missing", nil
		}
		if st.ModTime().After(info.ModTime()) {
			return true, "input newer than artifact", nil
		}
	}
	return false, "", nil
}
