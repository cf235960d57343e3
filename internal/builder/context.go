package builder

import (
	"context"
	"path/filepath"

	"github.com/vk/buldr/internal/config"
	"github.com/vk/buldr/internal/ctxlog"
	"github.com/vk/buldr/internal/dag"
	"github.com/vk/buldr/internal/planner"
)

// Context is everything a build step may read. It is built once per
// invocation and never mutated afterwards.
type Context struct {
	Model    *config.Model
	Graph    *dag.Graph
	Settings map[string]*planner.EffectiveSettings
}

// NewContext builds the dependency graph and plans effective settings for m.
func NewContext(ctx context.Context, m *config.Model) (*Context, error) {
	logger := ctxlog.FromContext(ctx)

	g, err := dag.Build(ctx, m.Projects)
	if err != nil {
		return nil, err
	}
	logger.Debug("Dependency graph built.", "projects", g.Names())

	bctx := &Context{Model: m, Graph: g}
	settings, err := planner.Plan(ctx, m, g, bctx.archivePathOf)
	if err != nil {
		return nil, err
	}
	bctx.Settings = settings
	return bctx, nil
}

func (c *Context) archivePathOf(name string) string {
	return filepath.Join(c.Model.BinDir(), ArchiveName(name))
}

// Project returns the manifest entry for name.
func (c *Context) Project(name string) (*config.Project, bool) {
	return c.Model.Project(name)
}

// Targets computes the build order for an invocation. An empty name selects
// every project flagged default together with its dependencies; otherwise the
// named project and its transitive dependency closure are returned.
func (c *Context) Targets(name string) ([]string, error) {
	var roots []string
	if name != "" {
		if !c.Graph.Has(name) {
			return nil, &dag.UnknownProjectError{Name: name}
		}
		roots = []string{name}
	} else {
		for _, p := range c.Model.Projects {
			if p.Default {
				roots = append(roots, p.Name)
			}
		}
		if len(roots) == 0 {
			return nil, config.Errorf(c.Model.Path, "no default project; name one on the command line or set default = true")
		}
	}

	sub, err := c.Graph.Closure(roots...)
	if err != nil {
		return nil, err
	}
	return sub.Order(), nil
}
