package integration_tests

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/specialistvlad/jobhost/internal/integration_tests/harness"
	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/stretchr/testify/require"
)

func TestModuleContract_PrintContext(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	inv := harness.Invocation{
		JobName: "PrintContext",
		Files: map[string]string{
			"base.properties": "greeting=hello\nname=world\nprint.header=Resolved:\n",
			"override.hcl":    "greeting = \"hi\"\n",
		},
		ContextFiles: []string{"base.properties", "override.hcl"},
	}

	// --- Act ---
	result := harness.Run(t, inv)

	// --- Assert ---
	require.NoError(t, result.Err)
	want := "Resolved:\n" +
		"      greeting = \"hi\"\n" +
		"      name = \"world\"\n" +
		"      print.header = \"Resolved:\"\n"
	require.Equal(t, want, result.Output)
}

func TestModuleContract_EnvVars(t *testing.T) {
	t.Setenv("JOBHOST_IT_MARKER", "present")

	result := harness.Run(t, harness.Invocation{
		JobName:      "EnvVars",
		Files:        map[string]string{"env.properties": "env.prefix=JOBHOST_IT_\n"},
		ContextFiles: []string{"env.properties"},
	})

	require.NoError(t, result.Err)
	require.Equal(t, "JOBHOST_IT_MARKER = present\n", result.Output)
}

func TestModuleContract_HttpRequestFromSources(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
			return
		}
		_, _ = w.Write([]byte("accepted"))
	}))
	defer srv.Close()

	// --- Act ---
	result := harness.Run(t, harness.Invocation{
		JobName:      "HttpRequest",
		Files:        map[string]string{"request.toml": "url = \"" + srv.URL + "\"\nmethod = \"POST\"\ntimeout = \"5s\"\n"},
		ContextFiles: []string{"request.toml"},
		Input:        "ping",
	})

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Equal(t, "accepted", result.Output)
}

func TestModuleContract_SocketIODefaultsResource(t *testing.T) {
	t.Parallel()

	// The bundled defaults provide everything except the URL, so the job
	// fails its own validation rather than attempting to connect.
	result := harness.Run(t, harness.Invocation{
		JobName:      "SocketIO",
		ContextFiles: []string{"socketio.properties"},
	})

	require.ErrorIs(t, result.Err, job.ExecutionError)
	require.ErrorContains(t, result.Err, "context key 'url' is required")
	require.Contains(t, result.LogOutput, "Context source merged.")
}
