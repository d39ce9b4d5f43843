// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"errors"
	"fmt"
	"slices"

	"github.com/arduinogen/arduinogen/pkg/fspath"
	"github.com/arduinogen/arduinogen/pkg/types"
)

const (
	// LanguageC compiles .c runtime sources.
	LanguageC Language = "c"
	// LanguageCXX compiles .cpp runtime sources.
	LanguageCXX Language = "c++"

	// DefaultIncludeRoot is the conventional Debian/Ubuntu install location of
	// the Arduino AVR hardware package.
	DefaultIncludeRoot types.FilesystemPath = "/usr/share/arduino/hardware/arduino/avr"
	// DefaultCoreName is the cores/ subdirectory holding the shared runtime.
	DefaultCoreName = "arduino"

	variantHeader = "pins_arduino.h"
	avrHeader     = "avr/io.h"
)

// ErrInvalidLanguage is the sentinel error wrapped by InvalidLanguageError.
var ErrInvalidLanguage = errors.New("invalid language")

var defaultAVRIncludeCandidates = []types.FilesystemPath{
	"/usr/avr/include",
	"/usr/lib/avr/include",
	"/usr/local/avr/include",
	"/opt/homebrew/opt/avr-gcc/avr/include",
}

type (
	// Language selects the compiler binary and language standard.
	Language string

	// InvalidLanguageError is returned when a Language value is not recognized.
	InvalidLanguageError struct {
		Value Language
	}

	// Options holds every input to Resolve. Callers fill it from configuration
	// once per build; Resolve itself never consults the environment.
	Options struct {
		// Target is the logical target to resolve.
		Target TargetSpec
		// IncludeRoot contains cores/ and variants/. Empty uses DefaultIncludeRoot.
		IncludeRoot types.FilesystemPath
		// CoreName selects cores/<name>. Empty uses DefaultCoreName.
		CoreName string
		// AVRIncludeOverride, when set, is the only standard-library include
		// location considered. A missing override is fatal; it never falls back.
		AVRIncludeOverride types.FilesystemPath
		// AVRIncludeCandidates are checked in order when no override is set.
		// Nil uses DefaultAVRIncludeCandidates.
		AVRIncludeCandidates []types.FilesystemPath
		// Boards is the target table. Nil uses BuiltinBoards.
		Boards BoardTable
		// Stat performs existence checks. Nil uses os.Stat.
		Stat fspath.StatFunc
	}

	// Config is the resolved, immutable toolchain configuration for one target
	// and one source language. Resolve always produces a C and a C++ sibling
	// that differ only in Language, Compiler and StdFlag.
	Config struct {
		Target             TargetSpec           `json:"target" toml:"target"`
		Language           Language             `json:"language" toml:"language"`
		Compiler           string               `json:"compiler" toml:"compiler"`
		StdFlag            string               `json:"std_flag" toml:"std_flag"`
		MachineFlag        string               `json:"machine_flag" toml:"machine_flag"`
		BoardDefine        string               `json:"board_define" toml:"board_define"`
		CoreIncludePath    types.FilesystemPath `json:"core_include_path" toml:"core_include_path"`
		VariantIncludePath types.FilesystemPath `json:"variant_include_path" toml:"variant_include_path"`
		AVRIncludePath     types.FilesystemPath `json:"avr_include_path" toml:"avr_include_path"`
	}
)

// String returns the string representation of the Language.
func (l Language) String() string { return string(l) }

// Validate returns an error unless l is LanguageC or LanguageCXX.
func (l Language) Validate() error {
	switch l {
	case LanguageC, LanguageCXX:
		return nil
	default:
		return &InvalidLanguageError{Value: l}
	}
}

// Error implements the error interface for InvalidLanguageError.
func (e *InvalidLanguageError) Error() string {
	return fmt.Sprintf("invalid language %q (valid: c, c++)", e.Value)
}

// Unwrap returns ErrInvalidLanguage for errors.Is() compatibility.
func (e *InvalidLanguageError) Unwrap() error { return ErrInvalidLanguage }

// DefaultAVRIncludeCandidates returns the well-known standard-library include
// locations in the order they are checked.
func DefaultAVRIncludeCandidates() []types.FilesystemPath {
	return slices.Clone(defaultAVRIncludeCandidates)
}

// Resolve maps opts.Target to its C and C++ toolchain configurations.
//
// Errors are *UnknownTargetError, *InvalidTargetSpecError or
// *MissingDirectoryError. All of them are fatal to the build step, and no
// configuration is returned alongside an error.
func Resolve(opts Options) (Config, Config, error) {
	boards := opts.Boards
	if boards == nil {
		boards = builtinBoards
	}
	board, err := boards.Lookup(opts.Target)
	if err != nil {
		return Config{}, Config{}, err
	}
	arch, chip, ok := opts.Target.Split()
	if !ok {
		return Config{}, Config{}, &InvalidTargetSpecError{Value: opts.Target}
	}

	root := opts.IncludeRoot
	if root == "" {
		root = DefaultIncludeRoot
	}
	coreName := opts.CoreName
	if coreName == "" {
		coreName = DefaultCoreName
	}

	variant := fspath.JoinStr(root, "variants", board.Variant)
	if !fspath.IsDir(opts.Stat, variant) {
		return Config{}, Config{}, &MissingDirectoryError{
			Role:       DirectoryVariant,
			Candidates: []types.FilesystemPath{variant},
			Header:     variantHeader,
		}
	}

	avrInclude, err := resolveAVRInclude(opts)
	if err != nil {
		return Config{}, Config{}, err
	}

	shared := Config{
		Target:             opts.Target,
		MachineFlag:        chip,
		BoardDefine:        board.Define,
		CoreIncludePath:    fspath.JoinStr(root, "cores", coreName),
		VariantIncludePath: variant,
		AVRIncludePath:     avrInclude,
	}

	c := shared
	c.Language = LanguageC
	c.Compiler = arch + "-gcc"
	c.StdFlag = "-std=gnu11"

	cxx := shared
	cxx.Language = LanguageCXX
	cxx.Compiler = arch + "-g++"
	cxx.StdFlag = "-std=gnu++11"

	return c, cxx, nil
}

// resolveAVRInclude applies the override-then-candidates policy.
func resolveAVRInclude(opts Options) (types.FilesystemPath, error) {
	if opts.AVRIncludeOverride != "" {
		override := fspath.Clean(opts.AVRIncludeOverride)
		if !fspath.IsDir(opts.Stat, override) {
			return "", &MissingDirectoryError{
				Role:       DirectoryAVRInclude,
				Candidates: []types.FilesystemPath{override},
				Header:     avrHeader,
				Override:   true,
			}
		}
		return override, nil
	}

	candidates := opts.AVRIncludeCandidates
	if candidates == nil {
		candidates = defaultAVRIncludeCandidates
	}
	for _, candidate := range candidates {
		if fspath.IsDir(opts.Stat, candidate) {
			return candidate, nil
		}
	}
	return "", &MissingDirectoryError{
		Role:       DirectoryAVRInclude,
		Candidates: slices.Clone(candidates),
		Header:     avrHeader,
	}
}
