package builder

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/vk/buldr/internal/config"
)

// ObjectExt replaces the source extension in object file names.
const ObjectExt = ".o"

// ArchiveName is the platform-conventional static archive name of a library.
func ArchiveName(project string) string {
	if runtime.GOOS == "windows" {
		return project + ".lib"
	}
	return "lib" + project + ".a"
}

// ExecutableName is the file name of an executable project's binary.
func ExecutableName(project string) string {
	if runtime.GOOS == "windows" {
		return project + ".exe"
	}
	return project
}

// ArtifactPath is where the link or pack step of p writes its output.
func (c *Context) ArtifactPath(p *config.Project) string {
	switch p.Kind {
	case config.KindLibrary:
		return filepath.Join(c.Model.BinDir(), ArchiveName(p.Name))
	case config.KindExecutable:
		return filepath.Join(c.Model.BinDir(), ExecutableName(p.Name))
	default:
		panic("builder: unhandled project kind " + p.Kind.String())
	}
}

// ObjectPath maps a source of p to <obj>/<project>/<path relative to the
// project root> with the recognised extension replaced by ObjectExt.
func (c *Context) ObjectPath(p *config.Project, source string) string {
	rel, err := filepath.Rel(c.Model.Root, source)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = outsideRoot(source)
	}
	return filepath.Join(c.Model.ObjDir(), p.Name, trimSourceExt(rel, p.Extensions)+ObjectExt)
}

// outsideRoot turns a source path outside the project root into a relative
// path that still keeps distinct sources distinct.
func outsideRoot(source string) string {
	source = filepath.ToSlash(strings.TrimPrefix(source, filepath.VolumeName(source)))
	parts := strings.Split(strings.TrimLeft(source, "/"), "/")
	for i, part := range parts {
		if part == ".." {
			parts[i] = "__"
		}
	}
	return filepath.Join(append([]string{"_ext"}, parts...)...)
}

// trimSourceExt removes the longest recognised extension from path.
func trimSourceExt(path string, extensions []string) string {
	best := ""
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	if best == "" {
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return strings.TrimSuffix(path, best)
}
