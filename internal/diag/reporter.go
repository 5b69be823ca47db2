package diag

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
)

// Unavailable replaces the entries of a scope that could not be described.
const Unavailable = "<unavailable>"

// Reporter renders diagnostic strings.
type Reporter struct {
	root       Scope
	executable func() (string, error)
	getenv     func(string) string
	buildInfo  func() (*debug.BuildInfo, bool)
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithExecutable overrides how the executable path is found.
func WithExecutable(fn func() (string, error)) Option {
	return func(r *Reporter) { r.executable = fn }
}

// WithGetenv overrides environment lookup.
func WithGetenv(fn func(string) string) Option {
	return func(r *Reporter) { r.getenv = fn }
}

// WithBuildInfo overrides how build information is read.
func WithBuildInfo(fn func() (*debug.BuildInfo, bool)) Option {
	return func(r *Reporter) { r.buildInfo = fn }
}

// NewReporter creates a Reporter describing the chain starting at root.
func NewReporter(root Scope, opts ...Option) *Reporter {
	r := &Reporter{
		root:       root,
		executable: os.Executable,
		getenv:     os.Getenv,
		buildInfo:  debug.ReadBuildInfo,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DescribeEnvironment returns the executable, Go runtime, main module and
// search path of the current process. It never fails; a panic yields "".
func (r *Reporter) DescribeEnvironment() (out string) {
	defer func() {
		if p := recover(); p != nil {
			out = ""
		}
	}()

	exe, err := r.executable()
	if err != nil {
		exe = Unavailable
	}
	module := Unavailable
	if info, ok := r.buildInfo(); ok && info != nil {
		module = moduleString(&info.Main)
	}
	path := ProcessScope{Getenv: r.getenv}
	entries, _ := path.Entries()

	return fmt.Sprintf("executable=%s, go=%s, module=%s, path=%s",
		exe, runtime.Version(), module, bracket(entries))
}

// DescribeLoaderChain renders every scope from the root passed to
// NewReporter upwards, as "[[a,b],[c]]". A scope whose entries cannot be
// listed is rendered as [<unavailable>]. It never fails; a panic yields "".
func (r *Reporter) DescribeLoaderChain() (out string) {
	defer func() {
		if p := recover(); p != nil {
			out = ""
		}
	}()

	var parts []string
	for s := range Chain(r.root) {
		entries, err := s.Entries()
		if err != nil {
			parts = append(parts, bracket([]string{Unavailable}))
			continue
		}
		parts = append(parts, bracket(entries))
	}
	return bracket(parts)
}

func bracket(items []string) string {
	return "[" + strings.Join(items, ",") + "]"
}
