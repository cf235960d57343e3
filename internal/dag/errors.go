package dag

import (
	"fmt"
	"strings"
)

// UnknownDependencyError is returned when a project names a dependency that
// is not declared in the manifest.
type UnknownDependencyError struct {
	Project    string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("project %q depends on unknown project %q", e.Project, e.Dependency)
}

// CyclicDependencyError carries the offending cycle, starting and ending with
// the re-encountered project.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return "dependency cycle detected: " + strings.Join(e.Cycle, " -> ")
}

// UnknownProjectError is returned when a selection names a project that does
// not exist.
type UnknownProjectError struct {
	Name string
}

func (e *UnknownProjectError) Error() string {
	return fmt.Sprintf("no project named %q", e.Name)
}
