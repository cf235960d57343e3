package builder

import (
	"github.com/vk/buldr/internal/config"
	"github.com/vk/buldr/internal/toolchain"
)

// CompileInvocation is the compiler call for one source unit:
// options, -I includes, -D defines, then the input and output.
// The compilation database uses the same construction.
func (c *Context) CompileInvocation(u SourceUnit) toolchain.Invocation {
	m := c.Model
	settings := c.Settings[u.Project.Name]

	args := m.CompilerOptsFor(u.Project)
	args = append(args, settings.IncludeFlags()...)
	args = append(args, settings.DefineFlags()...)
	args = append(args, "-c", u.Source, "-o", u.Object)

	return toolchain.Invocation{
		Step:   toolchain.StepCompile,
		Tool:   m.CompilerFor(u.Project),
		Args:   args,
		Dir:    m.Root,
		Output: u.Object,
	}
}

// ArtifactInvocation is the link or pack call producing p's artifact from
// its full current object set.
func (c *Context) ArtifactInvocation(p *config.Project, objects []string) toolchain.Invocation {
	m := c.Model
	out := c.ArtifactPath(p)

	switch p.Kind {
	case config.KindLibrary:
		args := m.PackerOptsFor(p)
		args = append(args, out)
		args = append(args, objects...)
		return toolchain.Invocation{
			Step:   toolchain.StepArchive,
			Tool:   m.PackerFor(p),
			Args:   args,
			Dir:    m.Root,
			Output: out,
		}
	case config.KindExecutable:
		args := m.LinkerOptsFor(p)
		args = append(args, objects...)
		args = append(args, c.Settings[p.Name].LinkFlags()...)
		args = append(args, "-o", out)
		return toolchain.Invocation{
			Step:   toolchain.StepLink,
			Tool:   m.LinkerFor(p),
			Args:   args,
			Dir:    m.Root,
			Output: out,
		}
	default:
		panic("builder: unhandled project kind " + p.Kind.String())
	}
}
