package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/jobhost/internal/ctxlog"
	"github.com/specialistvlad/jobhost/internal/diag"
	"github.com/specialistvlad/jobhost/internal/invoker"
	"github.com/specialistvlad/jobhost/internal/overlay"
	"github.com/specialistvlad/jobhost/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logW      io.Writer
	logger    *slog.Logger
	config    *Config
	logConfig *loadedLogConfig
	registry  *registry.Registry
	invoker   *invoker.Invoker
	reporter  *diag.Reporter
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Logs, and the bootstrap trace enabled by Config.Debug, go to logW.
func NewApp(logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	trace := func(format string, args ...any) {
		if cfg.Debug {
			fmt.Fprintf(logW, "initLog: "+format+"\n", args...)
		}
	}
	trace("job=%q context_files=%q log_config=%q", cfg.JobName, cfg.ContextFiles, cfg.LogConfig)

	level, format := cfg.LogLevel, cfg.LogFormat
	logCfg, err := loadLogConfig(cfg.LogConfig, overlay.FileLocator{}, trace)
	if err != nil {
		return nil, err
	}
	if logCfg != nil {
		if logCfg.Level != "" {
			level = logCfg.Level
		}
		if logCfg.Format != "" {
			format = logCfg.Format
		}
	}

	logger := newLogger(level, format, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.", "level", level, "format", format)

	// Create and populate the registry with Go jobs.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	reg.RegisterModules(modules...)
	ctxlog.FromContext(ctx).Debug("All Go modules registered.", "modules", len(modules), "jobs", reg.Names())

	return &App{
		logW:      logW,
		logger:    logger,
		config:    cfg,
		logConfig: logCfg,
		registry:  reg,
		invoker:   invoker.New(reg, overlay.New()),
		reporter:  diag.NewReporter(diag.DefaultChain(reg)),
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Config returns the application's configuration.
func (a *App) Config() *Config {
	return a.config
}
