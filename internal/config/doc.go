// Package config defines the format-agnostic build manifest model: global
// tool settings plus an ordered list of projects.
//
// The `config.Model` is inert. It is produced once by a Loader (see the
// `manifest` package for the HCL, TOML and YAML front-ends), validated, and
// then only read by the `dag`, `planner` and `builder` packages.
package config
