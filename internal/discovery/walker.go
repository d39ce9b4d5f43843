// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/arduinogen/arduinogen/pkg/fspath"
	"github.com/arduinogen/arduinogen/pkg/types"
)

// DefaultEntrySource is the vendor program entry file. The embedding
// application supplies its own entry point, so linking this one would define
// main twice.
const DefaultEntrySource = "main.cpp"

// ErrUnreadableDirectory is the sentinel error wrapped by DirectoryError.
var ErrUnreadableDirectory = errors.New("unreadable directory")

type (
	// Walker lists runtime sources and discovers headers. The zero value is not
	// usable; construct one with NewWalker.
	Walker struct {
		logger         *slog.Logger
		followSymlinks bool
		excluded       []string

		readDir      func(string) ([]fs.DirEntry, error)
		stat         fspath.StatFunc
		evalSymlinks func(string) (string, error)
	}

	// Option configures a Walker.
	Option func(*Walker)

	// DirectoryError is returned when a root directory cannot be listed.
	DirectoryError struct {
		Path  types.FilesystemPath
		Cause error
	}
)

// NewWalker returns a Walker that does not follow symlinked directories and
// excludes DefaultEntrySource from source listings.
func NewWalker(opts ...Option) *Walker {
	w := &Walker{
		logger:       slog.New(slog.DiscardHandler),
		excluded:     []string{DefaultEntrySource},
		readDir:      os.ReadDir,
		stat:         os.Stat,
		evalSymlinks: filepath.EvalSymlinks,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WithLogger sets the logger used for debug tracing of the walk.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithFollowSymlinks controls whether symlinked directories are descended
// during header discovery. When enabled, each resolved directory is visited at
// most once, which also terminates symlink loops.
func WithFollowSymlinks(follow bool) Option {
	return func(w *Walker) { w.followSymlinks = follow }
}

// WithExcludedSources replaces the set of file names dropped from source
// listings. Matching is exact and case-sensitive.
func WithExcludedSources(names ...string) Option {
	return func(w *Walker) { w.excluded = append([]string(nil), names...) }
}

// Error implements the error interface.
func (e *DirectoryError) Error() string {
	return fmt.Sprintf("cannot read directory %s: %v", e.Path, e.Cause)
}

// Unwrap exposes both ErrUnreadableDirectory and the underlying cause.
func (e *DirectoryError) Unwrap() []error {
	return []error{ErrUnreadableDirectory, e.Cause}
}
