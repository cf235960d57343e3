package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/vk/buldr/internal/builder"
	"github.com/vk/buldr/internal/ctxlog"
	"github.com/vk/buldr/internal/toolchain"
)

// App encapsulates one invocation: its configuration, logger and the
// collaborators that touch the outside world.
type App struct {
	cfg      *Config
	logger   *slog.Logger
	out      printer
	runner   toolchain.Runner
	progress builder.ProgressFunc
}

// Option customises an App.
type Option func(*App)

// WithRunner replaces the process runner, e.g. with a fake in tests.
func WithRunner(r toolchain.Runner) Option {
	return func(a *App) { a.runner = r }
}

// WithProgressWriter shows compile progress on w when w is a terminal.
func WithProgressWriter(w io.Writer) Option {
	return func(a *App) {
		if !a.cfg.NoProgress && isTerminal(w) {
			a.progress = newProgress(w)
		}
	}
}

// NewApp is the constructor for the main application. Logs and the final
// report are written to outW.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		cfg:    cfg,
		logger: logger,
		out:    printer{w: outW, colour: isTerminal(outW)},
		runner: toolchain.NewExecRunner(),
	}
	WithProgressWriter(os.Stderr)(a)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Context returns ctx carrying the application logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
