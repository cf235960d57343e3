// Package planner derives each project's effective compile and link
// settings by merging its own includes, defines and link libraries with those
// inherited from its transitive dependency closure.
package planner

import (
	"context"
	"fmt"

	"github.com/vk/buldr/internal/config"
	"github.com/vk/buldr/internal/ctxlog"
	"github.com/vk/buldr/internal/dag"
)

// Link is one entry of an effective link list: either the archive produced
// by a library dependency (by full path) or a named system library.
type Link struct {
	Archive string
	Name    string
}

// Flag renders the link item as a linker argument.
func (l Link) Flag() string {
	if l.Archive != "" {
		return l.Archive
	}
	return "-l" + l.Name
}

func (l Link) key() string {
	if l.Archive != "" {
		return "a:" + l.Archive
	}
	return "l:" + l.Name
}

// EffectiveSettings are a project's own settings merged with everything it
// inherits. Slices are ordered by precedence and free of duplicates.
type EffectiveSettings struct {
	Includes []string
	Defines  []string
	Links    []Link
}

// IncludeFlags renders the includes as -I arguments.
func (s *EffectiveSettings) IncludeFlags() []string {
	return prefixed("-I", s.Includes)
}

// DefineFlags renders the defines as -D arguments.
func (s *EffectiveSettings) DefineFlags() []string {
	return prefixed("-D", s.Defines)
}

// LinkFlags renders the link list as linker arguments: archives by full
// path first, then -l system libraries, each group in merge order.
func (s *EffectiveSettings) LinkFlags() []string {
	out := make([]string, 0, len(s.Links))
	for _, l := range s.Links {
		if l.Archive != "" {
			out = append(out, l.Flag())
		}
	}
	for _, l := range s.Links {
		if l.Archive == "" {
			out = append(out, l.Flag())
		}
	}
	return out
}

func prefixed(prefix string, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = prefix + v
	}
	return out
}

// ArchivePathFunc maps a library project name to the archive it produces.
type ArchivePathFunc func(project string) string

// Plan computes EffectiveSettings for every project of the graph.
//
// For project P with dependencies D1..Dn, P's own values come first, then
// each Di's effective values in declaration order, keeping the first
// occurrence of every value. When Di is a library its archive is placed
// ahead of Di's inherited link list.
func Plan(ctx context.Context, m *config.Model, g *dag.Graph, archive ArchivePathFunc) (map[string]*EffectiveSettings, error) {
	logger := ctxlog.FromContext(ctx)
	plan := make(map[string]*EffectiveSettings, g.Len())

	// Walking the build order guarantees every dependency is already planned.
	for _, name := range g.Order() {
		p, ok := m.Project(name)
		if !ok {
			return nil, fmt.Errorf("planner: project %q is in the graph but not in the manifest", name)
		}
		deps, err := g.Dependencies(name)
		if err != nil {
			return nil, err
		}

		includes := newOrderedSet(identity)
		defines := newOrderedSet(identity)
		links := newOrderedSet(Link.key)
		includes.add(p.Includes...)
		defines.add(p.Defines...)
		for _, l := range p.Links {
			links.add(Link{Name: l})
		}

		for _, depName := range deps {
			dep, _ := m.Project(depName)
			inherited := plan[depName]
			includes.add(inherited.Includes...)
			defines.add(inherited.Defines...)
			if dep.Kind == config.KindLibrary {
				links.add(Link{Archive: archive(depName)})
			}
			links.add(inherited.Links...)
		}

		plan[name] = &EffectiveSettings{
			Includes: includes.items,
			Defines:  defines.items,
			Links:    links.items,
		}
		logger.Debug("Effective settings planned.", "project", name,
			"includes", len(includes.items), "defines", len(defines.items), "links", len(links.items))
	}
	return plan, nil
}

// orderedSet keeps insertion order and drops repeats, comparing by key.
type orderedSet[T any] struct {
	key   func(T) string
	seen  map[string]struct{}
	items []T
}

func newOrderedSet[T any](key func(T) string) *orderedSet[T] {
	return &orderedSet[T]{key: key, seen: make(map[string]struct{}), items: []T{}}
}

func (s *orderedSet[T]) add(values ...T) {
	for _, v := range values {
		k := s.key(v)
		if _, ok := s.seen[k]; ok {
			continue
		}
		s.seen[k] = struct{}{}
		s.items = append(s.items, v)
	}
}

func identity(s string) string { return s }
