// Package manifest reads build manifests into the format-agnostic
// config.Model. Three front-ends are supported and selected by file
// extension:
//
//	build.hcl            HCL, with os, arch and env available to expressions
//	build.toml           TOML ([config] table and [[project]] array)
//	build.yaml/.yml      YAML (config: mapping and projects: list)
//
// Every loader resolves the model root to the manifest's directory, applies
// defaults and validates the result, so callers always receive a Model that
// is ready for graph construction.
package manifest
