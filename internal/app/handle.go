package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/specialistvlad/jobhost/internal/ctxlog"
	"github.com/specialistvlad/jobhost/internal/invoker"
	"github.com/specialistvlad/jobhost/internal/job"
)

// Handle runs the configured job once for a single host event. It is the
// entry point every host calls. The streams are passed to the job as they
// are and are not closed.
func (a *App) Handle(ctx context.Context, in io.Reader, out io.Writer, md *job.Metadata) error {
	md = a.metadata(md)
	ctx = ctxlog.With(ctxlog.WithLogger(ctx, a.logger), md.LogAttrs()...)

	a.logDiagnostics(ctx, ctxlog.FromContext(ctx))

	return a.invoker.Run(ctx, job.Descriptor{Name: a.config.JobName}, a.config.ContextFiles, invoker.HostBindings{
		Input:    in,
		Output:   out,
		Metadata: md,
	})
}

// metadata returns a copy of md completed with the process-level defaults.
func (a *App) metadata(md *job.Metadata) *job.Metadata {
	var out job.Metadata
	if md != nil {
		out = *md
	}
	if out.RequestID == "" {
		out.RequestID = uuid.NewString()
	}
	if out.Region == "" {
		out.Region = a.config.Region
	}
	if out.FunctionName == "" {
		out.FunctionName = a.config.FunctionName
	}
	if out.FunctionVersion == "" {
		out.FunctionVersion = a.config.FunctionVersion
	}
	return &out
}

// logDiagnostics emits the environment and scope chain descriptions. They
// are logged at info level when the debug flag is on and at debug level
// otherwise.
func (a *App) logDiagnostics(ctx context.Context, logger *slog.Logger) {
	level := slog.LevelDebug
	if a.config.Debug {
		level = slog.LevelInfo
	}
	if !logger.Enabled(ctx, level) {
		return
	}

	logger.Log(ctx, level, "Process environment.", "environment", a.reporter.DescribeEnvironment())
	logger.Log(ctx, level, "Job scope chain.", "scopes", a.reporter.DescribeLoaderChain())
	if a.logConfig != nil {
		logger.Log(ctx, level, "Logging configuration.", "source", a.logConfig.Source, "content", string(a.logConfig.Content))
	}
}
