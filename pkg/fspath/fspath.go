// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath and os.Stat that
// accept and return types.FilesystemPath, so include roots and header paths
// stay typed from configuration through to the binding plan.
package fspath

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arduinogen/arduinogen/pkg/types"
)

// StatFunc reports file information for a path. os.Stat satisfies it; tests
// substitute fakes to simulate missing or unreadable directories.
type StatFunc func(name string) (fs.FileInfo, error)

// JoinStr joins a typed base path with raw string segments such as directory
// entry names or fixed subdirectory names ("cores", "variants").
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Abs wraps filepath.Abs for FilesystemPath.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path %q: %w", p, err)
	}
	return types.FilesystemPath(abs), nil
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// IsDir reports whether p exists and is a directory. A nil stat uses os.Stat.
// Any stat failure, including permission errors, counts as "not a directory":
// callers only use this for existence checks on candidate locations.
func IsDir(stat StatFunc, p types.FilesystemPath) bool {
	if stat == nil {
		stat = os.Stat
	}
	info, err := stat(string(p))
	return err == nil && info.IsDir()
}

// IsFile reports whether p exists and is not a directory. A nil stat uses os.Stat.
func IsFile(stat StatFunc, p types.FilesystemPath) bool {
	if stat == nil {
		stat = os.Stat
	}
	info, err := stat(string(p))
	return err == nil && !info.IsDir()
}
