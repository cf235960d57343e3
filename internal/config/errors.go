package config

import "fmt"

// ConfigError reports a malformed manifest or a missing required field.
type ConfigError struct {
	// Source is the manifest path or the offending element (e.g. a project name).
	Source string
	Msg    string
}

func (e *ConfigError) Error() string {
	if e.Source == "" {
		return "config: " + e.Msg
	}
	return fmt.Sprintf("config: %s: %s", e.Source, e.Msg)
}

// Errorf builds a ConfigError for source.
func Errorf(source, format string, args ...any) *ConfigError {
	return &ConfigError{Source: source, Msg: fmt.Sprintf(format, args...)}
}
