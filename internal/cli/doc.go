// Package cli is responsible for parsing command-line arguments and the
// JOBHOST_* environment, validating user input, and handling process-level
// concerns like exit codes. It translates both into the application's
// internal configuration.
package cli
