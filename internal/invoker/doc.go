// Package invoker drives a single job invocation: resolve the job by name,
// overlay configuration onto the job's own context, inject the host bindings
// and call the entry point.
//
// The steps always run in that order. Host bindings are written after every
// configuration source, so a source can never shadow them. Every failure is
// returned as a *job.Error carrying the job name and, where relevant, the
// configuration source involved.
package invoker
