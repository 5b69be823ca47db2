package job

import (
	"io"
	"time"

	"github.com/specialistvlad/jobhost/internal/store"
)

// Keys under which host bindings are injected. They are written after all
// configuration sources, so configuration can never shadow them.
const (
	KeyInputStream  = "inputStream"
	KeyOutputStream = "outputStream"
	KeyHostContext  = "hostContext"
)

// Metadata describes one invocation as seen by the host.
type Metadata struct {
	RequestID       string
	FunctionName    string
	FunctionVersion string
	Region          string
	Deadline        time.Time
}

// LogAttrs returns the metadata as slog key/value pairs.
func (m *Metadata) LogAttrs() []any {
	if m == nil {
		return nil
	}
	return []any{
		"request_id", m.RequestID,
		"region", orNull(m.Region),
		"function", orNull(m.FunctionName),
		"version", orNull(m.FunctionVersion),
	}
}

func orNull(s string) string {
	if s == "" {
		return "null"
	}
	return s
}

// InputStream returns the host input bound into s, or an empty reader.
func InputStream(s *store.Store) io.Reader {
	if v, ok := s.Get(KeyInputStream); ok {
		if r, ok := v.(io.Reader); ok && r != nil {
			return r
		}
	}
	return eofReader{}
}

// OutputStream returns the host output bound into s, or io.Discard.
func OutputStream(s *store.Store) io.Writer {
	if v, ok := s.Get(KeyOutputStream); ok {
		if w, ok := v.(io.Writer); ok && w != nil {
			return w
		}
	}
	return io.Discard
}

// HostContext returns the invocation metadata bound into s, if any.
func HostContext(s *store.Store) (*Metadata, bool) {
	v, ok := s.Get(KeyHostContext)
	if !ok {
		return nil, false
	}
	md, ok := v.(*Metadata)
	return md, ok && md != nil
}

// String returns the string value under key, or def when the key is absent,
// empty or not a string.
func String(s *store.Store, key, def string) string {
	if v, ok := s.GetString(key); ok && v != "" {
		return v
	}
	return def
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
