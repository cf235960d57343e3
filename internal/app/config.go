package app

import (
	"fmt"
	"strings"
)

// Command selects what an invocation does.
type Command string

const (
	CommandBuild           Command = "build"
	CommandClean           Command = "clean"
	CommandCompileCommands Command = "compile_commands"
	CommandCreate          Command = "create"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command Command
	// Target names the project to build; empty builds the default projects.
	Target string
	// ManifestPath is discovered in WorkDir when empty.
	ManifestPath string
	// WorkDir is where manifests are discovered, the compilation database is
	// written and create puts its template.
	WorkDir string

	Jobs       int
	LogFormat  string
	LogLevel   string
	NoProgress bool
}

// NewConfig validates cfg and fills defaults.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case "":
		cfg.Command = CommandBuild
	case CommandBuild, CommandClean, CommandCompileCommands, CommandCreate:
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	if cfg.Target != "" && cfg.Command != CommandBuild {
		return nil, fmt.Errorf("%s does not take a project name", cfg.Command)
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = 1
	}
	if cfg.Jobs < 0 {
		return nil, fmt.Errorf("jobs must be positive, got %d", cfg.Jobs)
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn' or 'error'", cfg.LogLevel)
	}
	return &cfg, nil
}
