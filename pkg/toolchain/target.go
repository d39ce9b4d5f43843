// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

const (
	// TargetATmega328P is the Arduino Uno class target.
	TargetATmega328P TargetSpec = "avr-atmega328p"
	// TargetATmega2560 is the Arduino Mega class target.
	TargetATmega2560 TargetSpec = "avr-atmega2560"

	// VariantStandard is the low-pin-count board variant directory.
	VariantStandard = "standard"
	// VariantMega is the high-pin-count board variant directory.
	VariantMega = "mega"
)

var (
	// ErrInvalidTargetSpec is the sentinel error wrapped by InvalidTargetSpecError.
	ErrInvalidTargetSpec = errors.New("invalid target spec")
	// ErrInvalidBoard is the sentinel error wrapped by InvalidBoardError.
	ErrInvalidBoard = errors.New("invalid board")

	builtinBoards = BoardTable{
		TargetATmega328P: {Define: "ARDUINO_AVR_UNO", Variant: VariantStandard},
		TargetATmega2560: {Define: "ARDUINO_AVR_MEGA2560", Variant: VariantMega},
	}
)

type (
	// TargetSpec identifies a logical compilation target of the form
	// "<architecture>-<chip>".
	TargetSpec string

	// Board is the per-target record selecting the board define and the
	// variants/ subdirectory holding pins_arduino.h.
	Board struct {
		// Define is the preprocessor symbol naming the board (never empty).
		Define string `json:"define" toml:"define"`
		// Variant is the subdirectory name under <root>/variants.
		Variant string `json:"variant" toml:"variant"`
	}

	// BoardTable maps supported targets to their board record.
	BoardTable map[TargetSpec]Board

	// InvalidTargetSpecError is returned when a TargetSpec is not of the form
	// "<architecture>-<chip>".
	InvalidTargetSpecError struct {
		Value TargetSpec
	}

	// InvalidBoardError is returned when a Board has an empty define or variant.
	InvalidBoardError struct {
		Target TargetSpec
		Field  string
	}
)

// String returns the string representation of the TargetSpec.
func (t TargetSpec) String() string { return string(t) }

// Split returns the architecture and chip parts of the target.
func (t TargetSpec) Split() (arch, chip string, ok bool) {
	arch, chip, ok = strings.Cut(string(t), "-")
	if !ok || arch == "" || chip == "" {
		return "", "", false
	}
	return arch, chip, true
}

// Validate checks that the target has a non-empty architecture and chip.
// It does not check membership in any BoardTable.
func (t TargetSpec) Validate() error {
	if _, _, ok := t.Split(); !ok || strings.ContainsAny(string(t), " \t\n") {
		return &InvalidTargetSpecError{Value: t}
	}
	return nil
}

// ParseTarget validates s as a TargetSpec.
func ParseTarget(s string) (TargetSpec, error) {
	t := TargetSpec(strings.TrimSpace(s))
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Error implements the error interface for InvalidTargetSpecError.
func (e *InvalidTargetSpecError) Error() string {
	return fmt.Sprintf("invalid target %q: expected <architecture>-<chip>", e.Value)
}

// Unwrap returns ErrInvalidTargetSpec for errors.Is() compatibility.
func (e *InvalidTargetSpecError) Unwrap() error { return ErrInvalidTargetSpec }

// Validate checks that both board fields are set and the variant is a single
// directory name.
func (b Board) Validate(target TargetSpec) error {
	switch {
	case strings.TrimSpace(b.Define) == "":
		return &InvalidBoardError{Target: target, Field: "define"}
	case strings.TrimSpace(b.Variant) == "", strings.ContainsAny(b.Variant, `/\`), b.Variant == "..":
		return &InvalidBoardError{Target: target, Field: "variant"}
	}
	return nil
}

// Error implements the error interface for InvalidBoardError.
func (e *InvalidBoardError) Error() string {
	return fmt.Sprintf("invalid board for target %q: %s must be a non-empty name", e.Target, e.Field)
}

// Unwrap returns ErrInvalidBoard for errors.Is() compatibility.
func (e *InvalidBoardError) Unwrap() error { return ErrInvalidBoard }

// BuiltinBoards returns a copy of the built-in target table.
func BuiltinBoards() BoardTable {
	return maps.Clone(builtinBoards)
}

// WithExtra returns a new table containing t overlaid with extra. Entries in
// extra replace built-in entries for the same target.
func (t BoardTable) WithExtra(extra BoardTable) (BoardTable, error) {
	merged := maps.Clone(t)
	if merged == nil {
		merged = BoardTable{}
	}
	for target, board := range extra {
		if err := target.Validate(); err != nil {
			return nil, err
		}
		if err := board.Validate(target); err != nil {
			return nil, err
		}
		merged[target] = board
	}
	return merged, nil
}

// Targets returns the supported targets in sorted order.
func (t BoardTable) Targets() []TargetSpec {
	return slices.Sorted(maps.Keys(t))
}

// Lookup returns the board for target or an *UnknownTargetError listing every
// supported target.
func (t BoardTable) Lookup(target TargetSpec) (Board, error) {
	board, ok := t[target]
	if !ok {
		return Board{}, &UnknownTargetError{Value: target, Supported: t.Targets()}
	}
	return board, nil
}

// SupportedTargets returns the sorted built-in targets.
func SupportedTargets() []TargetSpec {
	return builtinBoards.Targets()
}
