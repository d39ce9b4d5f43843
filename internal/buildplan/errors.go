// SPDX-License-Identifier: MPL-2.0

package buildplan

import (
	"errors"
	"fmt"

	"github.com/arduinogen/arduinogen/pkg/toolchain"
	"github.com/arduinogen/arduinogen/pkg/types"
)

var (
	// ErrMissingEntryHeader is the sentinel error wrapped by MissingEntryHeaderError.
	ErrMissingEntryHeader = errors.New("missing entry header")
	// ErrInvalidInput is the sentinel error wrapped by InvalidInputError.
	ErrInvalidInput = errors.New("invalid plan input")
	// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
	ErrInvalidFormat = errors.New("invalid output format")
)

type (
	// MissingEntryHeaderError is returned when a binding pass names a header
	// that header discovery did not find under any root.
	MissingEntryHeaderError struct {
		Header types.HeaderName
		Roots  []types.FilesystemPath
	}

	// InvalidInputError aggregates the problems found by Input.Validate.
	InvalidInputError struct {
		FieldErrors []error
	}

	// LanguageMismatchError is returned when a toolchain config is passed in
	// the slot of the other language.
	LanguageMismatchError struct {
		Want toolchain.Language
		Got  toolchain.Language
	}

	// InvalidFormatError is returned when a Format value is not recognized.
	InvalidFormatError struct {
		Value Format
	}
)

// Error implements the error interface for MissingEntryHeaderError.
func (e *MissingEntryHeaderError) Error() string {
	return fmt.Sprintf("entry header %s not found under %v", e.Header, e.Roots)
}

// Unwrap returns ErrMissingEntryHeader for errors.Is() compatibility.
func (e *MissingEntryHeaderError) Unwrap() error { return ErrMissingEntryHeader }

// Error implements the error interface for InvalidInputError.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid plan input: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns the sentinel and every field error.
func (e *InvalidInputError) Unwrap() []error {
	return append([]error{ErrInvalidInput}, e.FieldErrors...)
}

// Error implements the error interface for LanguageMismatchError.
func (e *LanguageMismatchError) Error() string {
	return fmt.Sprintf("expected a %s toolchain config, got %s", e.Want, e.Got)
}

// Error implements the error interface for InvalidFormatError.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: %s, %s, %s)", e.Value, FormatShell, FormatTOML, FormatJSON)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }
