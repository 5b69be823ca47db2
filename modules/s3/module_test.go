package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/specialistvlad/jobhost/internal/testutil"
	"github.com/stretchr/testify/require"
)

type upload struct {
	method      string
	contentType string
	length      int64
	body        string
}

func newUploadServer(t *testing.T, status int) (*httptest.Server, func() upload) {
	t.Helper()
	var mu sync.Mutex
	var got upload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = upload{method: r.Method, contentType: r.Header.Get("Content-Type"), length: r.ContentLength, body: string(data)}
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, func() upload {
		mu.Lock()
		defer mu.Unlock()
		return got
	}
}

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

func TestS3Upload_FromFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv, received := newUploadServer(t, http.StatusOK)
	dir := testutil.WriteFiles(t, map[string]string{"report.json": `{"ok":true}`})
	j, out := newJob(t, map[string]string{
		KeyUploadURL:  srv.URL + "/bucket/report.json",
		KeySourcePath: filepath.Join(dir, "report.json"),
	})

	// --- Act ---
	err := j.RunJob(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	got := received()
	require.Equal(t, http.MethodPut, got.method)
	require.Equal(t, "application/json", got.contentType)
	require.Equal(t, int64(11), got.length)
	require.Equal(t, `{"ok":true}`, got.body)
	require.Equal(t, "200 OK\n", out.String())
}

func TestS3Upload_FromInputStream(t *testing.T) {
	t.Parallel()

	srv, received := newUploadServer(t, http.StatusOK)
	j, _ := newJob(t, map[string]string{
		KeyUploadURL:   srv.URL,
		KeyContentType: "text/plain",
	})
	j.Context.Set(job.KeyInputStream, strings.NewReader("streamed"))

	require.NoError(t, j.RunJob(context.Background()))
	got := received()
	require.Equal(t, "text/plain", got.contentType)
	require.Equal(t, "streamed", got.body)
}

func TestS3Upload_Failures(t *testing.T) {
	t.Parallel()

	srv, _ := newUploadServer(t, http.StatusForbidden)

	testCases := []struct {
		name    string
		values  map[string]string
		wantErr string
	}{
		{"Missing URL", map[string]string{}, "context key 'upload_url' is required"},
		{"Missing file", map[string]string{KeyUploadURL: srv.URL, KeySourcePath: "/does/not/exist.bin"}, "failed to open source file"},
		{"Rejected", map[string]string{KeyUploadURL: srv.URL}, "S3 upload failed with status: 403 Forbidden"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			j, _ := newJob(t, tc.values)
			err := j.RunJob(context.Background())
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
