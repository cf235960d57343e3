package config

import (
	"path/filepath"
	"strings"
)

// Validate checks the structural invariants of the manifest. Dependency
// resolution and cycle checks belong to the dag package.
func (m *Model) Validate() error {
	if len(m.Projects) == 0 {
		return Errorf(m.Path, "no projects defined")
	}

	seen := make(map[string]struct{}, len(m.Projects))
	for i, p := range m.Projects {
		if p == nil {
			return Errorf(m.Path, "project #%d is empty", i+1)
		}
		if p.Name == "" {
			return Errorf(m.Path, "project #%d has no name", i+1)
		}
		if _, dup := seen[p.Name]; dup {
			return Errorf(p.Name, "duplicate project name")
		}
		seen[p.Name] = struct{}{}

		if p.Kind != KindExecutable && p.Kind != KindLibrary {
			return Errorf(p.Name, "invalid kind %s", p.Kind)
		}
		if len(p.Sources) == 0 {
			return Errorf(p.Name, "src must list at least one file or directory")
		}
		for _, ext := range p.Extensions {
			if ext == "" || ext == "." {
				return Errorf(p.Name, "empty source extension")
			}
		}
	}

	root := filepath.Clean(m.Root)
	obj, bin := m.ObjDir(), m.BinDir()
	switch {
	case within(root, obj):
		return Errorf(m.Path, "obj directory must not be the project root or one of its parents")
	case within(root, bin):
		return Errorf(m.Path, "bin directory must not be the project root or one of its parents")
	case within(obj, bin) || within(bin, obj):
		return Errorf(m.Path, "obj and bin must be different, non-nested directories")
	}
	return nil
}

// within reports whether path is dir itself or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
