// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/arduinogen/arduinogen/pkg/types"
)

// newTestRoot creates an Arduino hardware tree with both built-in variants and
// an AVR include directory, returning options that point at them.
func newTestRoot(t *testing.T) Options {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{
		filepath.Join(root, "cores", "arduino"),
		filepath.Join(root, "variants", VariantStandard),
		filepath.Join(root, "variants", VariantMega),
		filepath.Join(root, "avr-include", "avr"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	return Options{
		IncludeRoot:          types.FilesystemPath(root),
		AVRIncludeCandidates: []types.FilesystemPath{types.FilesystemPath(filepath.Join(root, "avr-include"))},
	}
}

func TestResolve_SupportedTargets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target      TargetSpec
		machine     string
		boardDefine string
		variant     string
	}{
		{TargetATmega328P, "atmega328p", "ARDUINO_AVR_UNO", VariantStandard},
		{TargetATmega2560, "atmega2560", "ARDUINO_AVR_MEGA2560", VariantMega},
	}

	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			t.Parallel()
			opts := newTestRoot(t)
			opts.Target = tt.target

			c, cxx, err := Resolve(opts)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			for _, cfg := range []Config{c, cxx} {
				if cfg.MachineFlag != tt.machine {
					t.Errorf("MachineFlag = %q, want %q", cfg.MachineFlag, tt.machine)
				}
				if cfg.MachineFlag != strings.TrimPrefix(string(tt.target), "avr-") {
					t.Errorf("MachineFlag %q is not the target without its architecture prefix", cfg.MachineFlag)
				}
				if cfg.BoardDefine != tt.boardDefine {
					t.Errorf("BoardDefine = %q, want %q", cfg.BoardDefine, tt.boardDefine)
				}
				wantSuffix := filepath.Join("variants", tt.variant)
				if !strings.HasSuffix(string(cfg.VariantIncludePath), wantSuffix) {
					t.Errorf("VariantIncludePath = %q, want suffix %q", cfg.VariantIncludePath, wantSuffix)
				}
				if cfg.CoreIncludePath != types.FilesystemPath(filepath.Join(string(opts.IncludeRoot), "cores", "arduino")) {
					t.Errorf("CoreIncludePath = %q", cfg.CoreIncludePath)
				}
				if cfg.AVRIncludePath != opts.AVRIncludeCandidates[0] {
					t.Errorf("AVRIncludePath = %q, want %q", cfg.AVRIncludePath, opts.AVRIncludeCandidates[0])
				}
			}
		})
	}
}

func TestResolve_SiblingsDifferOnlyInLanguage(t *testing.T) {
	t.Parallel()
	opts := newTestRoot(t)
	opts.Target = TargetATmega328P

	c, cxx, err := Resolve(opts)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if c.Language != LanguageC || c.Compiler != "avr-gcc" || c.StdFlag != "-std=gnu11" {
		t.Errorf("C config = %+v", c)
	}
	if cxx.Language != LanguageCXX || cxx.Compiler != "avr-g++" || cxx.StdFlag != "-std=gnu++11" {
		t.Errorf("C++ config = %+v", cxx)
	}

	c.Language, c.Compiler, c.StdFlag = "", "", ""
	cxx.Language, cxx.Compiler, cxx.StdFlag = "", "", ""
	if c != cxx {
		t.Errorf("siblings differ outside language fields:\n C   %+v\n C++ %+v", c, cxx)
	}
}

func TestResolve_UnknownTarget(t *testing.T) {
	t.Parallel()

	for _, target := range []TargetSpec{"xtensa-esp32", "avr-attiny85", "", "atmega328p"} {
		t.Run(string(target), func(t *testing.T) {
			t.Parallel()
			opts := newTestRoot(t)
			opts.Target = target

			c, cxx, err := Resolve(opts)
			if !errors.Is(err, ErrUnknownTarget) {
				t.Fatalf("Resolve(%q) error = %v, want ErrUnknownTarget", target, err)
			}
			if c != (Config{}) || cxx != (Config{}) {
				t.Error("Resolve returned a partially populated configuration alongside an error")
			}

			var unknown *UnknownTargetError
			if !errors.As(err, &unknown) {
				t.Fatalf("error should be *UnknownTargetError, got %T", err)
			}
			if unknown.Value != target {
				t.Errorf("Value = %q, want %q", unknown.Value, target)
			}
			want := []TargetSpec{TargetATmega2560, TargetATmega328P}
			if !slices.Equal(unknown.Supported, want) {
				t.Errorf("Supported = %v, want %v", unknown.Supported, want)
			}
		})
	}
}

func TestResolve_UnknownTargetMessageNamesAllValues(t *testing.T) {
	t.Parallel()
	opts := newTestRoot(t)
	opts.Target = "xtensa-esp32"

	_, _, err := Resolve(opts)
	if err == nil {
		t.Fatal("Resolve() succeeded for xtensa-esp32")
	}
	msg := err.Error()
	for _, want := range []string{"xtensa-esp32", "avr-atmega328p", "avr-atmega2560"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestResolve_MissingVariant(t *testing.T) {
	t.Parallel()
	opts := newTestRoot(t)
	opts.Target = TargetATmega2560
	if err := os.RemoveAll(filepath.Join(string(opts.IncludeRoot), "variants", VariantMega)); err != nil {
		t.Fatal(err)
	}

	_, _, err := Resolve(opts)
	var missing *MissingDirectoryError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *MissingDirectoryError", err)
	}
	if missing.Role != DirectoryVariant {
		t.Errorf("Role = %q, want %q", missing.Role, DirectoryVariant)
	}
	if missing.Header != "pins_arduino.h" {
		t.Errorf("Header = %q, want pins_arduino.h", missing.Header)
	}
	if !errors.Is(err, ErrMissingDirectory) {
		t.Error("error should wrap ErrMissingDirectory")
	}
}

func TestResolve_AVRIncludeOverride(t *testing.T) {
	t.Parallel()

	t.Run("existing override wins over candidates", func(t *testing.T) {
		t.Parallel()
		opts := newTestRoot(t)
		opts.Target = TargetATmega328P
		override := t.TempDir()
		opts.AVRIncludeOverride = types.FilesystemPath(override)

		c, _, err := Resolve(opts)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if c.AVRIncludePath != types.FilesystemPath(override) {
			t.Errorf("AVRIncludePath = %q, want override %q", c.AVRIncludePath, override)
		}
	})

	t.Run("nonexistent override is fatal without fallback", func(t *testing.T) {
		t.Parallel()
		opts := newTestRoot(t)
		opts.Target = TargetATmega328P
		opts.AVRIncludeOverride = types.FilesystemPath(filepath.Join(t.TempDir(), "does-not-exist"))

		_, _, err := Resolve(opts)
		var missing *MissingDirectoryError
		if !errors.As(err, &missing) {
			t.Fatalf("error = %v, want *MissingDirectoryError", err)
		}
		if !missing.Override {
			t.Error("Override = false, want true")
		}
		if len(missing.Candidates) != 1 || missing.Candidates[0] != opts.AVRIncludeOverride {
			t.Errorf("Candidates = %v, want only the override", missing.Candidates)
		}
	})
}

func TestResolve_AVRIncludeCandidates(t *testing.T) {
	t.Parallel()

	t.Run("first existing candidate wins", func(t *testing.T) {
		t.Parallel()
		opts := newTestRoot(t)
		opts.Target = TargetATmega328P
		second := types.FilesystemPath(t.TempDir())
		third := types.FilesystemPath(t.TempDir())
		opts.AVRIncludeCandidates = []types.FilesystemPath{"/nonexistent/avr/include", second, third}

		c, _, err := Resolve(opts)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if c.AVRIncludePath != second {
			t.Errorf("AVRIncludePath = %q, want %q", c.AVRIncludePath, second)
		}
	})

	t.Run("no candidate exists", func(t *testing.T) {
		t.Parallel()
		opts := newTestRoot(t)
		opts.Target = TargetATmega328P
		opts.AVRIncludeCandidates = []types.FilesystemPath{"/nonexistent/a", "/nonexistent/b"}

		_, _, err := Resolve(opts)
		var missing *MissingDirectoryError
		if !errors.As(err, &missing) {
			t.Fatalf("error = %v, want *MissingDirectoryError", err)
		}
		if missing.Role != DirectoryAVRInclude || missing.Override {
			t.Errorf("unexpected error fields: %+v", missing)
		}
		if len(missing.Candidates) != 2 {
			t.Errorf("Candidates = %v, want both searched locations", missing.Candidates)
		}
		if !strings.Contains(err.Error(), "avr/io.h") {
			t.Errorf("error %q should name the header that triggered the search", err)
		}
	})
}

func TestResolve_ExtraBoards(t *testing.T) {
	t.Parallel()
	opts := newTestRoot(t)
	if err := os.MkdirAll(filepath.Join(string(opts.IncludeRoot), "variants", "leonardo"), 0o755); err != nil {
		t.Fatal(err)
	}

	boards, err := BuiltinBoards().WithExtra(BoardTable{
		"avr-atmega32u4": {Define: "ARDUINO_AVR_LEONARDO", Variant: "leonardo"},
	})
	if err != nil {
		t.Fatalf("WithExtra() error = %v", err)
	}
	opts.Boards = boards
	opts.Target = "avr-atmega32u4"

	c, _, err := Resolve(opts)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if c.MachineFlag != "atmega32u4" || c.BoardDefine != "ARDUINO_AVR_LEONARDO" {
		t.Errorf("unexpected config: %+v", c)
	}
}

func TestDefaultAVRIncludeCandidates_ReturnsCopy(t *testing.T) {
	t.Parallel()
	a := DefaultAVRIncludeCandidates()
	a[0] = "mutated"
	if DefaultAVRIncludeCandidates()[0] == "mutated" {
		t.Error("DefaultAVRIncludeCandidates exposes the package slice")
	}
}

func TestLanguage_Validate(t *testing.T) {
	t.Parallel()
	for _, l := range []Language{LanguageC, LanguageCXX} {
		if err := l.Validate(); err != nil {
			t.Errorf("Language(%q).Validate() = %v", l, err)
		}
	}
	if err := Language("fortran").Validate(); !errors.Is(err, ErrInvalidLanguage) {
		t.Errorf("Language(fortran).Validate() = %v, want ErrInvalidLanguage", err)
	}
}
