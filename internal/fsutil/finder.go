// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"sort"
)

// ListFiles recursively walks fsys and returns the slash-separated paths of
// every regular file, sorted.
func ListFiles(fsys fs.FS) ([]string, error) {
	if fsys == nil {
		return nil, nil
	}

	var files []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
