package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/specialistvlad/jobhost/internal/ctxlog"
	"github.com/specialistvlad/jobhost/internal/host"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP host.
const shutdownTimeout = 5 * time.Second

// Run executes the application. With no serve port it handles exactly one
// event over in and out; otherwise it serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "serve_port", a.config.ServePort)

	if a.config.ServePort > 0 {
		return a.serve(ctx, fmt.Sprintf(":%d", a.config.ServePort))
	}

	a.logger.Info("🚀 Running job once.", "job", a.config.JobName)
	if err := a.Handle(ctx, in, out, nil); err != nil {
		return err
	}
	a.logger.Info("🏁 Execution finished.", "job", a.config.JobName)
	return nil
}

// serve runs the HTTP host on addr until ctx is done, then shuts it down.
func (a *App) serve(ctx context.Context, addr string) error {
	srv := host.NewServer(addr, a, a.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
