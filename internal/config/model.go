package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the closed set of artifacts a project can produce.
type Kind int

const (
	KindExecutable Kind = iota
	KindLibrary
)

// String returns the manifest spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindExecutable:
		return "executable"
	case KindLibrary:
		return "library"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a manifest value into a Kind. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "executable":
		return KindExecutable, nil
	case "library":
		return KindLibrary, nil
	default:
		return 0, fmt.Errorf("unknown project kind %q (want executable or library)", s)
	}
}

// Defaults applied to fields the manifest leaves empty.
const (
	DefaultCompiler = "cc"
	DefaultLinker   = "cc"
	DefaultPacker   = "ar"
	DefaultBinDir   = "bin"
	DefaultObjDir   = "obj"
)

// DefaultExtensions is the recognised C/C++ source set used when a project
// does not override it.
var DefaultExtensions = []string{".c", ".cc", ".cpp", ".cxx", ".c++"}

// DefaultPackerOpts is used when neither the settings nor the project give
// archiver options.
var DefaultPackerOpts = []string{"rcs"}

// Settings is the global `config` block.
type Settings struct {
	Compiler     string
	CompilerOpts []string
	Linker       string
	LinkerOpts   []string
	Packer       string
	PackerOpts   []string
	BinDir       string
	ObjDir       string
}

// Project is a single named build target.
type Project struct {
	Name       string
	Kind       Kind
	Sources    []string
	Extensions []string
	Includes   []string
	Defines    []string
	Links      []string
	Depends    []string
	Default    bool

	// Optional per-project tool overrides. Empty tool names inherit the
	// global setting; option lists are appended to the global ones.
	Compiler     string
	CompilerOpts []string
	Linker       string
	LinkerOpts   []string
	Packer       string
	PackerOpts   []string
}

// Model is the whole manifest after translation.
type Model struct {
	// Path is the manifest file the model was read from.
	Path string
	// Root is the directory relative paths are resolved against and the
	// working directory every tool runs in.
	Root     string
	Settings Settings
	Projects []*Project
}

// Project looks up a project by name.
func (m *Model) Project(name string) (*Project, bool) {
	for _, p := range m.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Abs resolves a manifest-relative path against the model root.
func (m *Model) Abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(m.Root, path)
}

// ObjDir is the absolute object output directory.
func (m *Model) ObjDir() string { return m.Abs(m.Settings.ObjDir) }

// BinDir is the absolute binary output directory.
func (m *Model) BinDir() string { return m.Abs(m.Settings.BinDir) }

// ApplyDefaults fills empty fields with their documented defaults and
// normalises extension spellings. It is idempotent.
func (m *Model) ApplyDefaults() {
	s := &m.Settings
	s.Compiler = firstNonEmpty(s.Compiler, DefaultCompiler)
	s.Linker = firstNonEmpty(s.Linker, DefaultLinker)
	s.Packer = firstNonEmpty(s.Packer, DefaultPacker)
	s.BinDir = firstNonEmpty(s.BinDir, DefaultBinDir)
	s.ObjDir = firstNonEmpty(s.ObjDir, DefaultObjDir)

	for _, p := range m.Projects {
		if len(p.Extensions) == 0 {
			p.Extensions = append([]string(nil), DefaultExtensions...)
		}
		for i, ext := range p.Extensions {
			p.Extensions[i] = NormalizeExtension(ext)
		}
	}
}

// NormalizeExtension makes sure an extension carries its leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// CompilerFor returns the compiler path for p.
func (m *Model) CompilerFor(p *Project) string {
	return firstNonEmpty(p.Compiler, m.Settings.Compiler)
}

// LinkerFor returns the linker path for p.
func (m *Model) LinkerFor(p *Project) string {
	return firstNonEmpty(p.Linker, m.Settings.Linker)
}

// PackerFor returns the archiver path for p.
func (m *Model) PackerFor(p *Project) string {
	return firstNonEmpty(p.Packer, m.Settings.Packer)
}

// CompilerOptsFor returns global then project compiler options.
func (m *Model) CompilerOptsFor(p *Project) []string {
	return concat(m.Settings.CompilerOpts, p.CompilerOpts)
}

// LinkerOptsFor returns global then project linker options.
func (m *Model) LinkerOptsFor(p *Project) []string {
	return concat(m.Settings.LinkerOpts, p.LinkerOpts)
}

// PackerOptsFor returns global then project archiver options, falling back
// to DefaultPackerOpts when both are empty.
func (m *Model) PackerOptsFor(p *Project) []string {
	opts := concat(m.Settings.PackerOpts, p.PackerOpts)
	if len(opts) == 0 {
		return append([]string(nil), DefaultPackerOpts...)
	}
	return opts
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
