// Package job defines the capability surface every job implementation must
// satisfy, the keys under which host bindings are injected into a job's
// context, and the error taxonomy used across the invocation engine.
//
// A job is any value that exposes its own ContextStore (ContextHolder) and a
// single entry point (Runnable). Implementations usually embed Base:
//
//	type MyJob struct {
//		job.Base
//	}
//
//	func New() (any, error) {
//		j := &MyJob{Base: job.NewBase()}
//		j.ContextMap().Set("greeting", "hello")
//		return j, nil
//	}
//
//	func (j *MyJob) RunJob(ctx context.Context) error {
//		out := job.OutputStream(j.ContextMap())
//		_, err := fmt.Fprintln(out, job.String(j.ContextMap(), "greeting", ""))
//		return err
//	}
package job
