package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/jobhost/internal/app"
	"github.com/specialistvlad/jobhost/internal/cli"
)

// main is the entrypoint for the jobhost application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:], os.LookupEnv)
	stop()

	// The real main function handles errors and exit codes.
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Job data flows over in and out; help text and logs go to errW.
func run(ctx context.Context, in io.Reader, out, errW io.Writer, args []string, lookupEnv func(string) (string, bool)) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, lookupEnv, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Duplicate job registration panics; report it as an ordinary failure.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	jobhost, err := app.NewApp(errW, appConfig)
	if err != nil {
		return err
	}
	return jobhost.Run(ctx, in, out)
}
