package app

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/specialistvlad/jobhost/internal/overlay"
)

//go:embed resources
var embedded embed.FS

// resources is the embedded tree searched before the filesystem when
// resolving the logging configuration.
var resources, _ = fs.Sub(embedded, "resources")

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}

// logConfig is the HCL logging configuration file.
type logConfig struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

// loadedLogConfig is a resolved logging configuration and where it came from.
type loadedLogConfig struct {
	logConfig
	Source  string
	Content []byte
}

// loadLogConfig resolves locator as an embedded resource, then as a file
// path. A locator that resolves to nothing returns nil without error; a file
// that exists but is malformed is a configuration error.
func loadLogConfig(locator string, files overlay.Locator, trace func(string, ...any)) (*loadedLogConfig, error) {
	if locator == "" {
		return nil, nil
	}

	rc, err := overlay.Open(resources, files, locator)
	if errors.Is(err, fs.ErrNotExist) {
		trace("could not resolve logging configuration '%s', using defaults", locator)
		return nil, nil
	}
	if err != nil {
		return nil, job.NewError(job.ConfigurationError, "", fmt.Sprintf("cannot open logging configuration '%s'", locator), err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, job.NewError(job.ConfigurationError, "", fmt.Sprintf("cannot read logging configuration '%s'", locator), err)
	}
	trace("resolved logging configuration '%s' (%d bytes)", locator, len(content))

	file, diags := hclparse.NewParser().ParseHCL(content, locator)
	if diags.HasErrors() {
		return nil, job.NewError(job.ConfigurationError, "", "failed to parse logging configuration", diags)
	}
	var cfg logConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, job.NewError(job.ConfigurationError, "", "failed to decode logging configuration", diags)
	}
	if err := validateLogSettings(cfg.Level, cfg.Format); err != nil {
		return nil, job.NewError(job.ConfigurationError, "", fmt.Sprintf("invalid logging configuration '%s'", locator), err)
	}

	return &loadedLogConfig{logConfig: cfg, Source: locator, Content: content}, nil
}

// validateLogSettings accepts empty values, which keep the current setting.
func validateLogSettings(level, format string) error {
	switch level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level '%s': must be 'debug', 'info', 'warn', or 'error'", level)
	}
	switch format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid format '%s': must be 'text' or 'json'", format)
	}
	return nil
}
