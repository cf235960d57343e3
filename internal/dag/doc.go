// Package dag turns the manifest's declared project dependencies into a
// directed acyclic graph and derives the build order from it.
//
// Projects are addressed by their index in declaration order. Edges are
// stored as index lists in both directions, so cycle detection (three-colour
// depth-first search) and ordering (Kahn's algorithm with a lowest-index
// tie-break) never chase name-keyed pointers. The tie-break makes the order a
// pure function of the manifest: the same file always yields the same build
// sequence, regardless of map iteration order.
//
// A Graph is immutable once Build returns.
package dag
