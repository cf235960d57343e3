package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/vk/buldr/internal/app"
)

// Environment variables providing flag defaults. A .env file in the working
// directory is loaded into the environment before parsing.
const (
	EnvManifest  = "BULDR_MANIFEST"
	EnvJobs      = "BULDR_JOBS"
	EnvLogLevel  = "BULDR_LOG_LEVEL"
	EnvLogFormat = "BULDR_LOG_FORMAT"
)

var commands = map[string]app.Command{
	string(app.CommandBuild):           app.CommandBuild,
	string(app.CommandClean):           app.CommandClean,
	string(app.CommandCompileCommands): app.CommandCompileCommands,
	string(app.CommandCreate):          app.CommandCreate,
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Flags may appear before or after the command and project name.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("buldr", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
buldr - A declarative build orchestrator for C/C++ projects.

Usage:
  buldr [options] [PROJECT]             build PROJECT, or every default project
  buldr [options] build [PROJECT]
  buldr [options] clean                 remove the obj and bin directories
  buldr [options] compile_commands      write compile_commands.json
  buldr [options] create                write a starter build.toml

Options:
`)
		flagSet.PrintDefaults()
	}

	jobsDefault := 1
	if v := os.Getenv(EnvJobs); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("invalid %s %q: %v", EnvJobs, v, err)}
		}
		jobsDefault = n
	}

	manifestFlag := flagSet.String("file", os.Getenv(EnvManifest), "Path to the build manifest (default: discover build.hcl, build.toml, build.yaml or build.yml).")
	fFlag := flagSet.String("f", "", "Path to the build manifest (shorthand).")
	dirFlag := flagSet.String("C", ".", "Directory to discover the manifest in and to write generated files to.")
	jobsFlag := flagSet.Int("jobs", jobsDefault, "Maximum concurrent compiles within one project.")
	jFlag := flagSet.Int("j", 0, "Maximum concurrent compiles within one project (shorthand).")
	logFormatFlag := flagSet.String("log-format", envOr(EnvLogFormat, "text"), "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", envOr(EnvLogLevel, "info"), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	noProgressFlag := flagSet.Bool("no-progress", false, "Disable the compile progress bar.")

	var positional []string
	rest := args
	for {
		if err := flagSet.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, true, nil
			}
			return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
		}
		rest = flagSet.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}
	slog.Debug("Arguments parsed successfully.", "positional", positional)

	command := app.CommandBuild
	if len(positional) > 0 {
		if c, ok := commands[positional[0]]; ok {
			command = c
			positional = positional[1:]
		}
	}
	target := ""
	if command == app.CommandBuild && len(positional) > 0 {
		target = positional[0]
		positional = positional[1:]
	}
	if len(positional) > 0 {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unexpected arguments: %v", positional)}
	}

	manifestPath := *manifestFlag
	if *fFlag != "" {
		manifestPath = *fFlag
	}
	jobs := *jobsFlag
	if *jFlag != 0 {
		jobs = *jFlag
	}

	config, err := app.NewConfig(app.Config{
		Command:      command,
		Target:       target,
		ManifestPath: manifestPath,
		WorkDir:      *dirFlag,
		Jobs:         jobs,
		LogFormat:    *logFormatFlag,
		LogLevel:     *logLevelFlag,
		NoProgress:   *noProgressFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
