// Package builder is the execution layer. It owns the read-only build
// Context (manifest, dependency graph, effective settings) and the
// Orchestrator that walks the build order, compiles stale sources and runs
// the link or pack step of each project.
//
// A single invocation moves through
//
//	Configured -> GraphBuilt -> OrderComputed ->
//	    {per project: SourcesResolved -> Compiled -> Linked}* -> Done
//
// and any failing step ends the invocation; nothing is retried. Projects
// are processed strictly one after another. Only the stale sources of a
// single project may be compiled concurrently.
package builder
