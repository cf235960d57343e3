package manifest

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/buldr/internal/config"
	"github.com/vk/buldr/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// HCLLoader reads build.hcl manifests.
type HCLLoader struct {
	// Environ supplies the env variable of the evaluation context.
	// Defaults to os.Environ.
	Environ func() []string
}

// NewHCLLoader creates an HCL manifest loader.
func NewHCLLoader() *HCLLoader {
	return &HCLLoader{Environ: os.Environ}
}

type hclRoot struct {
	Config   *hclSettings  `hcl:"config,block"`
	Projects []*hclProject `hcl:"project,block"`
}

type hclSettings struct {
	Compiler     string   `hcl:"compiler,optional"`
	CompilerOpts []string `hcl:"compiler_opts,optional"`
	Linker       string   `hcl:"linker,optional"`
	LinkerOpts   []string `hcl:"linker_opts,optional"`
	Packer       string   `hcl:"packer,optional"`
	PackerOpts   []string `hcl:"packer_opts,optional"`
	Bin          string   `hcl:"bin,optional"`
	Obj          string   `hcl:"obj,optional"`
}

type hclProject struct {
	Name         string   `hcl:"name,label"`
	Kind         string   `hcl:"kind"`
	Src          []string `hcl:"src"`
	Extensions   []string `hcl:"extensions,optional"`
	Include      []string `hcl:"include,optional"`
	Defines      []string `hcl:"defines,optional"`
	Links        []string `hcl:"links,optional"`
	Depends      []string `hcl:"depends,optional"`
	Default      bool     `hcl:"default,optional"`
	Compiler     string   `hcl:"compiler,optional"`
	CompilerOpts []string `hcl:"compiler_opts,optional"`
	Linker       string   `hcl:"linker,optional"`
	LinkerOpts   []string `hcl:"linker_opts,optional"`
	Packer       string   `hcl:"packer,optional"`
	PackerOpts   []string `hcl:"packer_opts,optional"`
}

// Load implements config.Loader.
func (l *HCLLoader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	file, diags := hclparse.NewParser().ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, config.Errorf(path, "parse: %s", diags.Error())
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, l.evalContext(), &root); diags.HasErrors() {
		return nil, config.Errorf(path, "decode: %s", diags.Error())
	}
	logger.Debug("HCL manifest decoded.", "projects", len(root.Projects))

	m, err := root.toDocument().translate(path)
	if err != nil {
		return nil, err
	}
	return finish(ctx, m, path)
}

// evalContext exposes the host platform and environment to expressions,
// e.g. compiler = env.CC or defines = ["TARGET_OS=${os}"].
func (l *HCLLoader) evalContext() *hcl.EvalContext {
	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}
	env := make(map[string]cty.Value)
	for _, kv := range environ() {
		name, value, ok := strings.Cut(kv, "=")
		if ok && name != "" {
			env[name] = cty.StringVal(value)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"os":   cty.StringVal(runtime.GOOS),
			"arch": cty.StringVal(runtime.GOARCH),
			"env":  cty.ObjectVal(env),
		},
	}
}

// toDocument converts the decoded blocks into the shape shared with the
// other front-ends; the structs differ only in their tags.
func (root *hclRoot) toDocument() *document {
	doc := &document{Projects: make([]projectDoc, 0, len(root.Projects))}
	if root.Config != nil {
		doc.Config = settingsDoc(*root.Config)
	}
	for _, p := range root.Projects {
		doc.Projects = append(doc.Projects, projectDoc(*p))
	}
	return doc
}
