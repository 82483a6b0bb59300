package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/robotomize/go-junit/internal/slice"
)

var ErrAbsolutePattern = errors.New("fs: pattern must be relative to the root directory")

// FS is a file system rooted at a directory on disk.
type FS interface {
	fs.FS
	RootDir() string
}

var _ FS = (*rootDirFS)(nil)

func New(entry string) FS {
	return &rootDirFS{entry: entry, FS: os.DirFS(entry)}
}

type rootDirFS struct {
	fs.FS
	entry string
}

func (r rootDirFS) RootDir() string {
	return r.entry
}

// Glob expands doublestar patterns ("reports/**/*.json") against fsys. Plain paths are kept
// when they exist. Matches are sorted and de-duplicated; a pattern that matches nothing is not
// an error.
func Glob(fsys fs.FS, patterns ...string) ([]string, error) {
	var matches []string
	for _, pattern := range patterns {
		if path.IsAbs(pattern) {
			return nil, fmt.Errorf("%w: %s", ErrAbsolutePattern, pattern)
		}

		found, err := doublestar.Glob(fsys, path.Clean(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("doublestar.Glob %s: %w", pattern, err)
		}

		matches = append(matches, found...)
	}

	sort.Strings(matches)

	return slice.Uniq(matches), nil
}
