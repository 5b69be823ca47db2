package integration_tests

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/specialistvlad/jobhost/internal/app"
	"github.com/specialistvlad/jobhost/internal/host"
	"github.com/specialistvlad/jobhost/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newHost(t *testing.T, jobName string) *httptest.Server {
	t.Helper()

	dir := testutil.WriteFiles(t, map[string]string{"base.properties": "greeting=hello\nprint.header=\n"})
	testApp, err := app.NewApp(io.Discard, &app.Config{
		JobName:      jobName,
		ContextFiles: []string{dir + "/base.properties"},
		LogLevel:     "error",
		LogFormat:    "text",
	})
	require.NoError(t, err)

	srv := host.NewServer(":0", testApp, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func TestHost_InvokesConfiguredJob(t *testing.T) {
	t.Parallel()

	ts := newHost(t, "PrintContext")

	resp, err := http.Post(ts.URL+"/invoke", "text/plain", strings.NewReader(""))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "      greeting = \"hello\"\n      print.header = \"\"\n", string(body))
}

func TestHost_UnknownJobIsNotFound(t *testing.T) {
	t.Parallel()

	ts := newHost(t, "NoSuchJob")

	resp, err := http.Post(ts.URL+"/invoke", "text/plain", strings.NewReader(""))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "resolution error", resp.Header.Get(host.HeaderErrorKind))
	require.Contains(t, string(body), `"NoSuchJob"`)
}

func TestHost_ConcurrentInvocations(t *testing.T) {
	t.Parallel()

	ts := newHost(t, "PrintContext")

	const n = 8
	errs := make(chan error, n)
	for range n {
		go func() {
			resp, err := http.Post(ts.URL+"/invoke", "text/plain", strings.NewReader(""))
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					err = &statusError{code: resp.StatusCode}
				}
			}
			errs <- err
		}()
	}
	for range n {
		require.NoError(t, <-errs)
	}
}

type statusError struct{ code int }

func (e *statusError) Error() string { return http.StatusText(e.code) }
