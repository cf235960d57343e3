package manifest

import (
	"github.com/vk/buldr/internal/config"
)

// document is the shape shared by the TOML and YAML front-ends.
type document struct {
	Config   settingsDoc  `toml:"config" yaml:"config"`
	Projects []projectDoc `toml:"project" yaml:"projects"`
}

type settingsDoc struct {
	Compiler     string   `toml:"compiler" yaml:"compiler"`
	CompilerOpts []string `toml:"compiler_opts" yaml:"compiler_opts"`
	Linker       string   `toml:"linker" yaml:"linker"`
	LinkerOpts   []string `toml:"linker_opts" yaml:"linker_opts"`
	Packer       string   `toml:"packer" yaml:"packer"`
	PackerOpts   []string `toml:"packer_opts" yaml:"packer_opts"`
	Bin          string   `toml:"bin" yaml:"bin"`
	Obj          string   `toml:"obj" yaml:"obj"`
}

type projectDoc struct {
	Name         string   `toml:"name" yaml:"name"`
	Kind         string   `toml:"kind" yaml:"kind"`
	Src          []string `toml:"src" yaml:"src"`
	Extensions   []string `toml:"extensions" yaml:"extensions"`
	Include      []string `toml:"include" yaml:"include"`
	Defines      []string `toml:"defines" yaml:"defines"`
	Links        []string `toml:"links" yaml:"links"`
	Depends      []string `toml:"depends" yaml:"depends"`
	Default      bool     `toml:"default" yaml:"default"`
	Compiler     string   `toml:"compiler" yaml:"compiler"`
	CompilerOpts []string `toml:"compiler_opts" yaml:"compiler_opts"`
	Linker       string   `toml:"linker" yaml:"linker"`
	LinkerOpts   []string `toml:"linker_opts" yaml:"linker_opts"`
	Packer       string   `toml:"packer" yaml:"packer"`
	PackerOpts   []string `toml:"packer_opts" yaml:"packer_opts"`
}

func (d *document) translate(path string) (*config.Model, error) {
	s := d.Config
	m := &config.Model{
		Settings: config.Settings{
			Compiler:     s.Compiler,
			CompilerOpts: s.CompilerOpts,
			Linker:       s.Linker,
			LinkerOpts:   s.LinkerOpts,
			Packer:       s.Packer,
			PackerOpts:   s.PackerOpts,
			BinDir:       s.Bin,
			ObjDir:       s.Obj,
		},
		Projects: make([]*config.Project, 0, len(d.Projects)),
	}
	for i, p := range d.Projects {
		if p.Kind == "" {
			return nil, config.Errorf(path, "project #%d (%s): kind is required", i+1, p.Name)
		}
		kind, err := config.ParseKind(p.Kind)
		if err != nil {
			return nil, config.Errorf(path, "project #%d (%s): %v", i+1, p.Name, err)
		}
		m.Projects = append(m.Projects, &config.Project{
			Name:         p.Name,
			Kind:         kind,
			Sources:      p.Src,
			Extensions:   p.Extensions,
			Includes:     p.Include,
			Defines:      p.Defines,
			Links:        p.Links,
			Depends:      p.Depends,
			Default:      p.Default,
			Compiler:     p.Compiler,
			CompilerOpts: p.CompilerOpts,
			Linker:       p.Linker,
			LinkerOpts:   p.LinkerOpts,
			Packer:       p.Packer,
			PackerOpts:   p.PackerOpts,
		})
	}
	return m, nil
}
