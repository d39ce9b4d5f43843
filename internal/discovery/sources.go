// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/arduinogen/arduinogen/pkg/fspath"
	"github.com/arduinogen/arduinogen/pkg/toolchain"
	"github.com/arduinogen/arduinogen/pkg/types"
)

type (
	// SourceFile is one compilable runtime source.
	SourceFile struct {
		Path     types.FilesystemPath `json:"path" toml:"path"`
		Language toolchain.Language   `json:"language" toml:"language"`
	}

	// SourceSet is a runtime source listing split by language.
	SourceSet struct {
		C   []SourceFile `json:"c" toml:"c"`
		CXX []SourceFile `json:"cxx" toml:"cxx"`
	}
)

// sourceLanguage maps a file name to its compile language by extension,
// case-insensitively. ok is false for anything that is not a runtime source.
func sourceLanguage(name string) (toolchain.Language, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".c":
		return toolchain.LanguageC, true
	case ".cpp":
		return toolchain.LanguageCXX, true
	default:
		return "", false
	}
}

// ListSourceFiles returns the C and C++ sources directly inside root, in
// directory-listing order, minus the excluded entry files. Subdirectories are
// not scanned. An unreadable root returns a *DirectoryError.
func (w *Walker) ListSourceFiles(root types.FilesystemPath) ([]SourceFile, error) {
	entries, err := w.readDir(string(root))
	if err != nil {
		return nil, &DirectoryError{Path: root, Cause: err}
	}

	var files []SourceFile
	for _, entry := range entries {
		name := entry.Name()
		if !utf8.ValidString(name) {
			w.logger.Debug("skipping entry with non UTF-8 name", "dir", root)
			continue
		}
		if entry.IsDir() {
			continue
		}
		lang, ok := sourceLanguage(name)
		if !ok {
			continue
		}
		if slices.Contains(w.excluded, name) {
			w.logger.Debug("excluding entry source", "file", name)
			continue
		}
		files = append(files, SourceFile{Path: fspath.JoinStr(root, name), Language: lang})
	}
	return files, nil
}

// Sources lists root and splits the result by language.
func (w *Walker) Sources(root types.FilesystemPath) (SourceSet, error) {
	files, err := w.ListSourceFiles(root)
	if err != nil {
		return SourceSet{}, err
	}
	var set SourceSet
	for _, f := range files {
		if f.Language == toolchain.LanguageC {
			set.C = append(set.C, f)
		} else {
			set.CXX = append(set.CXX, f)
		}
	}
	w.logger.Debug("listed runtime sources", "dir", root, "c", len(set.C), "cxx", len(set.CXX))
	return set, nil
}

// Len returns the total number of sources.
func (s SourceSet) Len() int { return len(s.C) + len(s.CXX) }
