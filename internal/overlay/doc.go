// Package overlay layers configuration sources over a job's base context.
//
// Sources are named by identifiers and merged in the order given, so a later
// source overrides an earlier one and every source overrides the job's own
// defaults. Each identifier is resolved against the job's bundled resources
// first and the filesystem second. A source that cannot be found is skipped:
// overlays are optional by nature. A source that is found but cannot be read
// or decoded fails the merge with a job.ContextLoadError.
//
// The decoder is chosen by file extension. Java-style properties are the
// default; .hcl, .toml and .env files are also understood.
package overlay
