// Package harness runs a whole jobhost App against files written to a
// temporary directory. It is shared by the integration test suites.
package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/jobhost/internal/app"
	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/specialistvlad/jobhost/internal/registry"
	"github.com/specialistvlad/jobhost/internal/testutil"
)

// Invocation describes one App run.
type Invocation struct {
	JobName string
	// Files are written under a temporary directory, keyed by relative path.
	Files map[string]string
	// ContextFiles that exist under the temporary directory are rewritten to
	// their full path. Others, such as bundled resource names, are passed
	// through.
	ContextFiles []string
	LogConfig    string
	Debug        bool
	Input        string
	Metadata     *job.Metadata
	// Modules replace the core modules when set.
	Modules []registry.Module
}

// Result holds the outcomes of an integration test run.
type Result struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
	Dir       string
}

// Run builds an App for inv and handles a single event with it.
func Run(t *testing.T, inv Invocation) *Result {
	t.Helper()
	return RunWithContext(context.Background(), t, inv)
}

// RunWithContext is Run with a caller-supplied context.
func RunWithContext(ctx context.Context, t *testing.T, inv Invocation) *Result {
	t.Helper()

	dir := testutil.WriteFiles(t, inv.Files)
	sources := make([]string, len(inv.ContextFiles))
	for i, id := range inv.ContextFiles {
		if p := filepath.Join(dir, id); id != "" && exists(p) {
			id = p
		}
		sources[i] = id
	}

	logBuffer := &testutil.SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("JOBHOST_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	cfg := &app.Config{
		JobName:      inv.JobName,
		ContextFiles: sources,
		LogLevel:     "debug",
		LogFormat:    "text",
		LogConfig:    inv.LogConfig,
		Debug:        inv.Debug,
	}

	var testApp *app.App
	var startErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				startErr = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		testApp, startErr = app.NewApp(logBuffer, cfg, inv.Modules...)
	}()
	if startErr != nil {
		return &Result{LogOutput: logBuffer.String(), Err: startErr, Dir: dir}
	}

	var out bytes.Buffer
	err := testApp.Handle(ctx, strings.NewReader(inv.Input), &out, inv.Metadata)

	return &Result{
		Output:    out.String(),
		LogOutput: logBuffer.String(),
		Err:       err,
		App:       testApp,
		Dir:       dir,
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
