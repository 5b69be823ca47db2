package app

import (
	"strings"

	"github.com/specialistvlad/jobhost/internal/job"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	JobName      string
	ContextFiles []string

	LogLevel  string
	LogFormat string
	// LogConfig locates an optional HCL logging configuration, looked up as
	// an embedded resource first and as a file path second.
	LogConfig string
	Debug     bool

	// ServePort selects the host: 0 runs the job once over the given
	// streams, anything else serves HTTP on that port.
	ServePort int

	Region          string
	FunctionName    string
	FunctionVersion string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.JobName == "" {
		return nil, job.NewError(job.ConfigurationError, "", "job name is missing or empty", nil)
	}
	if cfg.ServePort < 0 {
		return nil, job.NewError(job.ConfigurationError, cfg.JobName, "serve port must not be negative", nil)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}

	return &cfg, nil
}

// SplitContextFiles splits a list of source identifiers separated by ':' or
// ';'. Empty items are dropped.
func SplitContextFiles(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == ';' })
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// IsDebugValue reports whether s switches the bootstrap trace on.
func IsDebugValue(s string) bool {
	switch s {
	case "on", "ON", "true", "TRUE", "1":
		return true
	}
	return false
}
