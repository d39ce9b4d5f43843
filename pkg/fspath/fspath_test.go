// SPDX-License-Identifier: MPL-2.0

package fspath_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arduinogen/arduinogen/pkg/fspath"
	"github.com/arduinogen/arduinogen/pkg/types"
)

func TestJoinStr(t *testing.T) {
	t.Parallel()

	got := fspath.JoinStr(types.FilesystemPath("/usr/share/arduino"), "variants", "standard")
	want := types.FilesystemPath(filepath.Join("/usr/share/arduino", "variants", "standard"))
	if got != want {
		t.Errorf("JoinStr() = %q, want %q", got, want)
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	got := fspath.Clean(types.FilesystemPath("/a/b/../c/"))
	if got != types.FilesystemPath(filepath.Clean("/a/c")) {
		t.Errorf("Clean() = %q", got)
	}
}

func TestAbs(t *testing.T) {
	t.Parallel()

	got, err := fspath.Abs(types.FilesystemPath("cores"))
	if err != nil {
		t.Fatalf("Abs() error = %v", err)
	}
	if !filepath.IsAbs(string(got)) {
		t.Errorf("Abs() = %q, want absolute path", got)
	}
}

func TestIsDirAndIsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "Arduino.h")
	if err := os.WriteFile(file, []byte("#pragma once\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if !fspath.IsDir(nil, types.FilesystemPath(dir)) {
		t.Error("IsDir(dir) = false, want true")
	}
	if fspath.IsDir(nil, types.FilesystemPath(file)) {
		t.Error("IsDir(file) = true, want false")
	}
	if !fspath.IsFile(nil, types.FilesystemPath(file)) {
		t.Error("IsFile(file) = false, want true")
	}
	if fspath.IsDir(nil, types.FilesystemPath(filepath.Join(dir, "missing"))) {
		t.Error("IsDir(missing) = true, want false")
	}
}

func TestIsDir_StatFailure(t *testing.T) {
	t.Parallel()

	denied := func(string) (fs.FileInfo, error) { return nil, fs.ErrPermission }
	if fspath.IsDir(denied, types.FilesystemPath("/usr/avr/include")) {
		t.Error("IsDir() with failing stat = true, want false")
	}

	calls := 0
	counting := func(name string) (fs.FileInfo, error) {
		calls++
		return nil, errors.New("boom")
	}
	_ = fspath.IsFile(counting, types.FilesystemPath("x"))
	if calls != 1 {
		t.Errorf("stat called %d times, want 1", calls)
	}
}
