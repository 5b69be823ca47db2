package overlay

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/specialistvlad/jobhost/internal/ctxlog"
	"github.com/specialistvlad/jobhost/internal/job"
	"github.com/specialistvlad/jobhost/internal/store"
)

// Overlay merges configuration sources into a ContextStore.
type Overlay struct {
	decoders Decoders
	files    Locator
}

// Option configures an Overlay.
type Option func(*Overlay)

// WithFileLocator replaces the locator consulted after the job's resources.
func WithFileLocator(l Locator) Option {
	return func(o *Overlay) { o.files = l }
}

// New creates an Overlay with the default decoders and a FileLocator rooted
// at the working directory.
func New(opts ...Option) *Overlay {
	o := &Overlay{
		decoders: DefaultDecoders(),
		files:    FileLocator{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// MergeInto layers each source in order over base and returns base. The
// resources tree, which may be nil, is searched before the filesystem.
// Blank identifiers are ignored.
func (o *Overlay) MergeInto(ctx context.Context, base *store.Store, resources fs.FS, sources []string) (*store.Store, error) {
	logger := ctxlog.FromContext(ctx)
	locator := Chain{FSLocator{FS: resources}, o.files}

	for _, id := range sources {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		n, err := o.mergeOne(base, locator, id)
		if errors.Is(err, errSkipped) {
			logger.Debug("Context source not found, skipping.", "source", id)
			continue
		}
		if err != nil {
			return base, err
		}
		logger.Debug("Context source merged.", "source", id, "keys", n)
	}
	return base, nil
}

var errSkipped = errors.New("source not found")

func (o *Overlay) mergeOne(base *store.Store, locator Locator, id string) (int, error) {
	rc, err := locator.Open(id)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, errSkipped
	}
	if err != nil {
		return 0, &job.Error{Kind: job.ContextLoadError, Source: id, Msg: "could not open context source", Err: err}
	}
	defer rc.Close()

	pairs, err := o.decoders.For(id).Decode(rc)
	if err != nil {
		return 0, &job.Error{Kind: job.ContextLoadError, Source: id, Msg: "could not read context source", Err: err}
	}

	for _, p := range pairs {
		base.Set(p.Key, p.Value)
	}
	return len(pairs), nil
}

// Open resolves id with the same lookup order MergeInto uses, without
// decoding it. It is used for auxiliary files such as logging configuration.
func Open(resources fs.FS, files Locator, id string) (io.ReadCloser, error) {
	if files == nil {
		files = FileLocator{}
	}
	return Chain{FSLocator{FS: resources}, files}.Open(id)
}
