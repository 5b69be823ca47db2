package overlay

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Locator resolves a source identifier to a readable stream. A source that
// does not exist is reported with an error matching fs.ErrNotExist.
type Locator interface {
	Open(id string) (io.ReadCloser, error)
}

// FSLocator resolves identifiers as slash-separated paths inside a resource
// tree. Leading slashes are ignored, so "/base.properties" and
// "base.properties" name the same resource.
type FSLocator struct {
	FS fs.FS
}

// Open implements Locator.
func (l FSLocator) Open(id string) (io.ReadCloser, error) {
	if l.FS == nil {
		return nil, fs.ErrNotExist
	}
	name := path.Clean(strings.TrimLeft(filepath.ToSlash(id), "/"))
	if !fs.ValidPath(name) {
		return nil, fs.ErrNotExist
	}
	return l.FS.Open(name)
}

// FileLocator resolves identifiers as filesystem paths. Relative paths are
// joined to Dir when it is set, and to the working directory otherwise.
type FileLocator struct {
	Dir string
}

// Open implements Locator.
func (l FileLocator) Open(id string) (io.ReadCloser, error) {
	p := id
	if l.Dir != "" && !filepath.IsAbs(p) {
		p = filepath.Join(l.Dir, filepath.FromSlash(p))
	}
	return os.Open(p)
}

// Chain tries each locator in order and returns the first stream found.
type Chain []Locator

// Open implements Locator.
func (c Chain) Open(id string) (io.ReadCloser, error) {
	for _, l := range c {
		rc, err := l.Open(id)
		if err == nil {
			return rc, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to open '%s': %w", id, err)
		}
	}
	return nil, fs.ErrNotExist
}
