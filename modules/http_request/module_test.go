package http_request

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/stretchr/testify/require"
)

func newJob(t *testing.T, values map[string]string) (*Job, *bytes.Buffer) {
	t.Helper()
	instance, err := New()
	require.NoError(t, err)
	j := instance.(*Job)
	for k, v := range values {
		j.Context.Set(k, v)
	}
	var out bytes.Buffer
	j.Context.Set(job.KeyOutputStream, &out)
	return j, &out
}

func TestHttpRequest_GetCopiesBody(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var mu sync.Mutex
	var gotMethod, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotMethod = r.Method
		gotRequestID = r.Header.Get("X-Request-Id")
		mu.Unlock()
		_, _ = w.Write([]byte("pong"))
	}))
	defer srv.Close()

	j, out := newJob(t, map[string]string{KeyURL: srv.URL})
	j.Context.Set(job.KeyHostContext, &job.Metadata{RequestID: "req-1"})

	// --- Act ---
	err := j.RunJob(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, http.MethodGet, gotMethod)
	require.Equal(t, "req-1", gotRequestID)
	require.Equal(t, "pong", out.String())
}

func TestHttpRequest_PostSendsInput(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotBody = string(data)
		gotType = r.Header.Get("Content-Type")
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))
	defer srv.Close()

	j, out := newJob(t, map[string]string{
		KeyURL:         srv.URL,
		KeyMethod:      "post",
		KeyContentType: "application/json",
	})
	j.Context.Set(job.KeyInputStream, strings.NewReader(`{"a":1}`))

	require.NoError(t, j.RunJob(context.Background()))
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, `{"a":1}`, gotBody)
	require.Equal(t, "application/json", gotType)
	require.Equal(t, "created", out.String())
}

func TestHttpRequest_Failures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	t.Cleanup(srv.Close)

	testCases := []struct {
		name    string
		values  map[string]string
		wantErr string
	}{
		{"Missing URL", map[string]string{}, "context key 'url' is required"},
		{"Bad timeout", map[string]string{KeyURL: srv.URL, KeyTimeout: "soon"}, "invalid timeout 'soon'"},
		{"Non-2xx", map[string]string{KeyURL: srv.URL}, "418 I'm a teapot: nope"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			j, out := newJob(t, tc.values)
			err := j.RunJob(context.Background())

			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
			require.Empty(t, out.String())
		})
	}
}
