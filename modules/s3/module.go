// Package s3 provides the S3Upload job, which uploads data to a pre-signed
// S3 URL.
package s3

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/specialistvlad/jobhost/internal/ctxlog"
	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/specialistvlad/jobhost/internal/registry"
)

// Name is the logical name S3Upload is registered under.
const Name = "S3Upload"

// Context keys read by the job.
const (
	KeyUploadURL   = "upload_url"
	KeySourcePath  = "source_path"
	KeyContentType = "content_type"
)

const defaultContentType = "application/octet-stream"

// Module implements the registry.Module interface for this package.
type Module struct{}

// httpClient is shared by all S3Upload executions to reuse TCP connections.
var httpClient = &http.Client{}

// Job uploads either the file at source_path or, when it is unset, the host
// input stream.
type Job struct {
	job.Base
	client *http.Client
}

// New returns a Job using the shared client.
func New() (any, error) {
	return &Job{Base: job.NewBase(), client: httpClient}, nil
}

// payload opens the data to upload. size is -1 when unknown.
func (j *Job) payload() (body io.Reader, size int64, contentType string, closeFn func() error, err error) {
	contentType = job.String(j.Context, KeyContentType, "")
	source := job.String(j.Context, KeySourcePath, "")
	if source == "" {
		if contentType == "" {
			contentType = defaultContentType
		}
		return job.InputStream(j.Context), -1, contentType, func() error { return nil }, nil
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, 0, "", nil, fmt.Errorf("failed to open source file '%s': %w", source, err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, "", nil, fmt.Errorf("failed to get file stats for '%s': %w", source, err)
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(source))
	}
	if contentType == "" {
		contentType = defaultContentType
	}
	return file, stat.Size(), contentType, file.Close, nil
}

// RunJob implements job.Runnable.
func (j *Job) RunJob(ctx context.Context) error {
	uploadURL := job.String(j.Context, KeyUploadURL, "")
	if uploadURL == "" {
		return fmt.Errorf("context key '%s' is required", KeyUploadURL)
	}
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	body, size, contentType, closeFn, err := j.payload()
	if err != nil {
		return err
	}
	defer closeFn()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return fmt.Errorf("failed to create S3 upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if size >= 0 {
		req.ContentLength = size
	}

	logger.Info("Uploading to S3", "source", job.String(j.Context, KeySourcePath, "<input>"), "size", size, "contentType", contentType)

	resp, err := j.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute S3 upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("S3 upload failed with status: %s", resp.Status)
	}

	logger.Info("Successfully uploaded", "status", resp.Status)
	if _, err := fmt.Fprintln(job.OutputStream(j.Context), resp.Status); err != nil {
		return fmt.Errorf("failed to write upload status: %w", err)
	}
	return nil
}

// Register registers the job with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Name, &registry.Registration{New: New})
}
