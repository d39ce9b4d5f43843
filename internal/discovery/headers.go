// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/arduinogen/arduinogen/pkg/fspath"
	"github.com/arduinogen/arduinogen/pkg/types"
)

// HeaderSuffix is the only extension recognized as a header. Matching is
// case-sensitive.
const HeaderSuffix = ".h"

type (
	// HeaderSet is an ordered, duplicate-free list of absolute header paths.
	// Paths from earlier roots come first; order within a root is walk order.
	HeaderSet struct {
		paths []types.FilesystemPath
		index map[types.FilesystemPath]struct{}
	}

	// HeaderSetResult bundles a HeaderSet with the recoverable diagnostics
	// produced while walking.
	HeaderSetResult struct {
		Set         *HeaderSet
		Diagnostics []Diagnostic
	}

	headerWalk struct {
		w       *Walker
		set     *HeaderSet
		visited map[string]struct{}
		diags   []Diagnostic
	}
)

// NewHeaderSet returns a set containing paths in order, dropping duplicates.
func NewHeaderSet(paths ...types.FilesystemPath) *HeaderSet {
	s := &HeaderSet{index: make(map[types.FilesystemPath]struct{}, len(paths))}
	for _, p := range paths {
		s.add(p)
	}
	return s
}

func (s *HeaderSet) add(p types.FilesystemPath) bool {
	p = fspath.Clean(p)
	if _, ok := s.index[p]; ok {
		return false
	}
	s.index[p] = struct{}{}
	s.paths = append(s.paths, p)
	return true
}

// Paths returns a copy of the header paths.
func (s *HeaderSet) Paths() []types.FilesystemPath {
	return slices.Clone(s.paths)
}

// Len returns the number of headers.
func (s *HeaderSet) Len() int { return len(s.paths) }

// Contains reports whether p (after cleaning) is in the set.
func (s *HeaderSet) Contains(p types.FilesystemPath) bool {
	_, ok := s.index[fspath.Clean(p)]
	return ok
}

// Find returns the first header whose base name is name.
func (s *HeaderSet) Find(name types.HeaderName) (types.FilesystemPath, bool) {
	for _, p := range s.paths {
		if p.Base() == string(name) {
			return p, true
		}
	}
	return "", false
}

// DiscoverHeaders walks each root to completion and returns every file whose
// name ends in HeaderSuffix. Roots are made absolute; a root that cannot be
// listed aborts the walk with a *DirectoryError, while nested directories
// that cannot be listed are skipped with a Diagnostic. A tree without headers
// yields an empty set.
//
// ctx is checked before each directory is read.
func (w *Walker) DiscoverHeaders(ctx context.Context, roots ...types.FilesystemPath) (HeaderSetResult, error) {
	hw := &headerWalk{
		w:       w,
		set:     NewHeaderSet(),
		visited: make(map[string]struct{}),
	}
	for _, root := range roots {
		abs, err := fspath.Abs(root)
		if err != nil {
			return HeaderSetResult{}, err
		}
		if err := hw.walkRoot(ctx, abs); err != nil {
			return HeaderSetResult{}, err
		}
	}
	w.logger.Debug("discovered headers", "roots", len(roots), "headers", hw.set.Len(), "diagnostics", len(hw.diags))
	return HeaderSetResult{Set: hw.set, Diagnostics: hw.diags}, nil
}

// walkRoot performs a depth-first walk of root using an explicit stack.
func (hw *headerWalk) walkRoot(ctx context.Context, root types.FilesystemPath) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := hw.w.readDir(string(root))
	if err != nil {
		return &DirectoryError{Path: root, Cause: err}
	}
	if hw.w.followSymlinks {
		if real, err := hw.w.evalSymlinks(string(root)); err == nil {
			if _, seen := hw.visited[real]; seen {
				hw.w.logger.Debug("root already walked", "root", root, "real", real)
				return nil
			}
			hw.visited[real] = struct{}{}
		}
	}

	stack := hw.visitEntries(root, entries, nil)
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := hw.w.readDir(string(dir))
		if err != nil {
			hw.w.logger.Warn("skipping unreadable directory", "dir", dir, "error", err)
			hw.diags = append(hw.diags, newDiagnostic(SeverityWarning, CodeDirectoryUnreadable, dir,
				"directory could not be listed; its headers are not in the blocklist", err))
			continue
		}
		stack = hw.visitEntries(dir, entries, stack)
	}
	return nil
}

// visitEntries records the headers in one directory and pushes its
// subdirectories onto stack in reverse order, so they pop in listing order.
func (hw *headerWalk) visitEntries(dir types.FilesystemPath, entries []fs.DirEntry, stack []types.FilesystemPath) []types.FilesystemPath {
	var subdirs []types.FilesystemPath
	for _, entry := range entries {
		name := entry.Name()
		if !utf8.ValidString(name) {
			continue
		}
		p := fspath.JoinStr(dir, name)

		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			if next, ok := hw.visitSymlink(p, name); ok {
				subdirs = append(subdirs, next)
			}
		case entry.IsDir():
			if hw.markVisited(p) {
				subdirs = append(subdirs, p)
			}
		case strings.HasSuffix(name, HeaderSuffix):
			hw.set.add(p)
		}
	}
	for i := len(subdirs) - 1; i >= 0; i-- {
		stack = append(stack, subdirs[i])
	}
	return stack
}

// markVisited records a plain directory when symlinks are followed, so a link
// to it found later is reported as a cycle rather than walked twice. It
// reports whether the directory should be descended.
func (hw *headerWalk) markVisited(p types.FilesystemPath) bool {
	if !hw.w.followSymlinks {
		return true
	}
	real, err := hw.w.evalSymlinks(string(p))
	if err != nil {
		return true
	}
	if _, seen := hw.visited[real]; seen {
		return false
	}
	hw.visited[real] = struct{}{}
	return true
}

// visitSymlink applies the symlink policy. It returns a directory to descend
// when the link points at a directory that should be walked.
func (hw *headerWalk) visitSymlink(p types.FilesystemPath, name string) (types.FilesystemPath, bool) {
	info, err := hw.w.stat(string(p))
	if err != nil {
		hw.diags = append(hw.diags, newDiagnostic(SeverityWarning, CodeBrokenSymlink, p,
			"symlink target does not exist", err))
		return "", false
	}
	if !info.IsDir() {
		if strings.HasSuffix(name, HeaderSuffix) {
			hw.set.add(p)
		}
		return "", false
	}
	if !hw.w.followSymlinks {
		hw.w.logger.Debug("not following symlinked directory", "path", p)
		hw.diags = append(hw.diags, newDiagnostic(SeverityWarning, CodeSymlinkSkipped, p,
			"symlinked directory not followed", nil))
		return "", false
	}
	real, err := hw.w.evalSymlinks(string(p))
	if err != nil {
		hw.diags = append(hw.diags, newDiagnostic(SeverityWarning, CodeBrokenSymlink, p,
			"symlink could not be resolved", err))
		return "", false
	}
	if _, seen := hw.visited[real]; seen {
		hw.diags = append(hw.diags, newDiagnostic(SeverityWarning, CodeSymlinkCycle, p,
			"symlink leads to an already visited directory: "+real, nil))
		return "", false
	}
	hw.visited[real] = struct{}{}
	return p, true
}

// Blocklist returns the headers of set minus entry and any kept headers,
// matched by base name. The result is what one binding pass tells the
// generator to skip.
func Blocklist(set *HeaderSet, entry types.HeaderName, keep ...types.HeaderName) []types.FilesystemPath {
	if set == nil {
		return nil
	}
	out := make([]types.FilesystemPath, 0, set.Len())
	for _, p := range set.paths {
		base := types.HeaderName(filepath.Base(string(p)))
		if base == entry || slices.Contains(keep, base) {
			continue
		}
		out = append(out, p)
	}
	return out
}
