package job

import (
	"fmt"
	"strings"
)

// Kind classifies an invocation failure. Every Kind is itself an error so it
// can be used as an errors.Is target:
//
//	if errors.Is(err, job.ResolutionError) { ... }
type Kind string

const (
	// ConfigurationError means a required startup input is missing or empty.
	ConfigurationError Kind = "configuration error"
	// ResolutionError means no implementation is registered under the name.
	ResolutionError Kind = "resolution error"
	// ConstructionError means the factory failed to build an instance.
	ConstructionError Kind = "construction error"
	// CapabilityError means the instance lacks a context map or entry point.
	CapabilityError Kind = "capability error"
	// ContextLoadError means a configuration source was found but could not
	// be read or decoded.
	ContextLoadError Kind = "context load error"
	// ExecutionError means the job's entry point failed.
	ExecutionError Kind = "execution error"
)

// Error implements the error interface.
func (k Kind) Error() string {
	return string(k)
}

// Error is the typed failure returned by the invocation engine.
type Error struct {
	Kind Kind
	// Job is the logical job name involved, if any.
	Job string
	// Source is the configuration source identifier involved, if any.
	Source string
	Msg    string
	Err    error
}

// NewError builds an Error of the given kind.
func NewError(kind Kind, jobName, msg string, cause error) *Error {
	return &Error{Kind: kind, Job: jobName, Msg: msg, Err: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Job != "" {
		fmt.Fprintf(&b, " [job %q]", e.Job)
	}
	if e.Source != "" {
		fmt.Fprintf(&b, " [source %q]", e.Source)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}
