package app

import (
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/schollz/progressbar/v3"
	"github.com/vk/buldr/internal/builder"
	"golang.org/x/term"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newProgress renders one compile progress bar per project on w.
func newProgress(w io.Writer) builder.ProgressFunc {
	return func(project string, total int) builder.Progress {
		return progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("compiling "+project),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
}

type painter interface {
	Sprint(a ...any) string
}

// printer writes human-facing lines, coloured only on a terminal.
type printer struct {
	w      io.Writer
	colour bool
}

func (p printer) line(style painter, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.colour {
		msg = style.Sprint(msg)
	}
	fmt.Fprintln(p.w, msg)
}

func (p printer) failure(format string, args ...any) { p.line(color.Danger, format, args...) }
func (p printer) warn(format string, args ...any)    { p.line(color.Warn, format, args...) }
func (p printer) success(format string, args ...any) { p.line(color.Success, format, args...) }

func (p printer) plain(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}
