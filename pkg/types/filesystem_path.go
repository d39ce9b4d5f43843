// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const headerSuffix = ".h"

var (
	// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
	ErrInvalidFilesystemPath = errors.New("invalid filesystem path")
	// ErrInvalidHeaderName is the sentinel error wrapped by InvalidHeaderNameError.
	ErrInvalidHeaderName = errors.New("invalid header name")
)

type (
	// FilesystemPath represents an absolute or relative filesystem path.
	// A valid path must be non-empty and not whitespace-only.
	FilesystemPath string

	// InvalidFilesystemPathError is returned when a FilesystemPath value is
	// empty or whitespace-only.
	InvalidFilesystemPathError struct {
		Value FilesystemPath
	}

	// HeaderName is the base name of a C header file (e.g. "Arduino.h").
	// It must end in ".h" and must not contain a path separator.
	HeaderName string

	// InvalidHeaderNameError is returned when a HeaderName is not a bare
	// header file name.
	InvalidHeaderNameError struct {
		Value  HeaderName
		Reason string
	}
)

// String returns the string representation of the FilesystemPath.
func (p FilesystemPath) String() string { return string(p) }

// Validate returns an error if the path is empty or whitespace-only.
func (p FilesystemPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidFilesystemPathError{Value: p}
	}
	return nil
}

// Base returns the last element of the path.
func (p FilesystemPath) Base() string { return filepath.Base(string(p)) }

// Error implements the error interface for InvalidFilesystemPathError.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }

// String returns the string representation of the HeaderName.
func (h HeaderName) String() string { return string(h) }

// Validate returns an error unless h is a bare file name ending in ".h".
func (h HeaderName) Validate() error {
	s := string(h)
	switch {
	case strings.TrimSpace(s) == "":
		return &InvalidHeaderNameError{Value: h, Reason: "must be non-empty"}
	case strings.ContainsAny(s, `/\`):
		return &InvalidHeaderNameError{Value: h, Reason: "must not contain a path separator"}
	case !strings.HasSuffix(s, headerSuffix) || s == headerSuffix:
		return &InvalidHeaderNameError{Value: h, Reason: "must end in " + headerSuffix}
	}
	return nil
}

// Error implements the error interface for InvalidHeaderNameError.
func (e *InvalidHeaderNameError) Error() string {
	return fmt.Sprintf("invalid header name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidHeaderName for errors.Is() compatibility.
func (e *InvalidHeaderNameError) Unwrap() error { return ErrInvalidHeaderName }
