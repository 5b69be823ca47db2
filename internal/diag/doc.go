// Package diag builds best-effort diagnostic strings describing the process
// environment and the chain of scopes jobs and their resources are loaded
// from. Nothing in this package can fail an invocation: every error, and any
// panic, degrades to placeholder output.
package diag
