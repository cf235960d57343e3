package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/vk/buldr/internal/config"
	"github.com/vk/buldr/internal/fsutil"
)

// SourceUnit is one source file of a project together with the object it
// compiles to. Units live for a single build pass.
type SourceUnit struct {
	Project *config.Project
	Source  string
	Object  string
}

// MissingSourceError is returned when a declared source path does not exist
// or a project resolves to no source files at all.
type MissingSourceError struct {
	Project string
	Path    string
}

func (e *MissingSourceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("project %q: no source files matched its src entries", e.Project)
	}
	return fmt.Sprintf("project %q: source %q does not exist", e.Project, e.Path)
}

// ResolveSources expands every src entry of p into SourceUnits ordered by
// source path. A file listed more than once yields a single unit.
func (c *Context) ResolveSources(r *fsutil.Resolver, p *config.Project) ([]SourceUnit, error) {
	seen := make(map[string]struct{})
	var units []SourceUnit
	for _, entry := range p.Sources {
		files, err := r.Expand(c.Model.Abs(entry), p.Extensions)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingSourceError{Project: p.Name, Path: entry}
		}
		if err != nil {
			return nil, fmt.Errorf("project %q: resolve %s: %w", p.Name, entry, err)
		}
		for _, f := range files {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			units = append(units, SourceUnit{Project: p, Source: f, Object: c.ObjectPath(p, f)})
		}
	}
	if len(units) == 0 {
		return nil, &MissingSourceError{Project: p.Name}
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Source < units[j].Source })

	owners := make(map[string]string, len(units))
	for _, u := range units {
		if other, clash := owners[u.Object]; clash {
			return nil, config.Errorf(p.Name, "sources %s and %s both compile to %s", other, u.Source, u.Object)
		}
		owners[u.Object] = u.Source
	}
	return units, nil
}
