package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/jobhost/internal/app"
)

// Environment variables read at startup. Flags take precedence.
const (
	EnvJobName         = "JOBHOST_JOB_NAME"
	EnvContextFiles    = "JOBHOST_CONTEXT_FILES"
	EnvDebug           = "JOBHOST_DEBUG"
	EnvLogConfig       = "JOBHOST_LOG_CONFIG"
	EnvRegion          = "JOBHOST_REGION"
	EnvFunctionName    = "JOBHOST_FUNCTION_NAME"
	EnvFunctionVersion = "JOBHOST_FUNCTION_VERSION"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Parse processes command-line arguments and the environment. It returns a
// populated app.Config, a boolean indicating if the program should exit
// cleanly, or an ExitError. lookupEnv is usually os.LookupEnv.
func Parse(args []string, lookupEnv func(string) (string, bool), output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	if lookupEnv == nil {
		lookupEnv = func(string) (string, bool) { return "", false }
	}
	env := func(key string) string {
		v, _ := lookupEnv(key)
		return v
	}

	flagSet := flag.NewFlagSet("jobhost", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
jobhost - Runs a named job with layered configuration.

Usage:
  jobhost [options] [JOB_NAME]

Arguments:
  JOB_NAME
    Logical name of the job to run. Overrides `+EnvJobName+`.

Environment:
  `+EnvJobName+`, `+EnvContextFiles+`, `+EnvDebug+`, `+EnvLogConfig+`,
  `+EnvRegion+`, `+EnvFunctionName+`, `+EnvFunctionVersion+`

Options:
`)
		flagSet.PrintDefaults()
	}

	jobFlag := flagSet.String("job", env(EnvJobName), "Logical name of the job to run.")
	contextFilesFlag := flagSet.String("context-files", env(EnvContextFiles), "Configuration sources applied in order, separated by ':' or ';'.")
	debugFlag := flagSet.Bool("debug", app.IsDebugValue(env(EnvDebug)), "Trace startup to the log output.")
	logConfigFlag := flagSet.String("log-config", env(EnvLogConfig), "Logging configuration file (HCL).")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	servePortFlag := flagSet.Int("serve-port", 0, "Port for the HTTP host. 0 runs the job once over stdin and stdout.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error(), Err: err}
	}
	slog.Debug("Arguments parsed successfully.")

	jobName := strings.TrimSpace(*jobFlag)
	if flagSet.NArg() > 0 {
		jobName = strings.TrimSpace(flagSet.Arg(0))
	}
	slog.Debug("Job name determined.", "job", jobName)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		JobName:         jobName,
		ContextFiles:    app.SplitContextFiles(*contextFilesFlag),
		LogLevel:        logLevel,
		LogFormat:       logFormat,
		LogConfig:       strings.TrimSpace(*logConfigFlag),
		Debug:           *debugFlag,
		ServePort:       *servePortFlag,
		Region:          env(EnvRegion),
		FunctionName:    env(EnvFunctionName),
		FunctionVersion: env(EnvFunctionVersion),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 1, Message: err.Error(), Err: err}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
