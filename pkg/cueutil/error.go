// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ValidationError is one CUE validation failure located in a file.
type ValidationError struct {
	// FilePath is the file being validated.
	FilePath string
	// CUEPath locates the offending value; empty for document-level errors.
	CUEPath CUEPath
	// Message is the CUE error text with any redundant path prefix removed.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Unwrap returns nil (ValidationError is a leaf error).
func (e *ValidationError) Unwrap() error {
	return nil
}

// FormatError converts a CUE error into *ValidationError values, one per
// underlying CUE error, joined with errors.Join when there are several.
// Non-CUE errors are wrapped with the file path.
//
// Example messages:
//   - arduinogen.cue: target: conflicting values "avr-atmega328p" and 42
//   - arduinogen.cue: boards[0].variant: incomplete value string
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	errs := make([]error, 0, len(cueErrs))
	for _, e := range cueErrs {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		if path != "" && strings.HasPrefix(msg, string(path)) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, string(path)), ":"))
		}
		errs = append(errs, &ValidationError{FilePath: filePath, CUEPath: path, Message: msg})
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// CheckFileSize returns an error if data exceeds maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
