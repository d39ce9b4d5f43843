// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"

	"github.com/arduinogen/arduinogen/pkg/types"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeDirectoryUnreadable reports a nested directory that could not be listed.
	CodeDirectoryUnreadable DiagnosticCode = "directory_unreadable"
	// CodeSymlinkSkipped reports a symlinked directory not followed by policy.
	CodeSymlinkSkipped DiagnosticCode = "symlink_skipped"
	// CodeSymlinkCycle reports a followed symlink leading to an already visited directory.
	CodeSymlinkCycle DiagnosticCode = "symlink_cycle"
	// CodeBrokenSymlink reports a symlink whose target does not exist.
	CodeBrokenSymlink DiagnosticCode = "broken_symlink"
)

var (
	// ErrInvalidSeverity is the sentinel error wrapped by InvalidSeverityError.
	ErrInvalidSeverity = errors.New("invalid diagnostic severity")
	// ErrInvalidDiagnosticCode is the sentinel error wrapped by InvalidDiagnosticCodeError.
	ErrInvalidDiagnosticCode = errors.New("invalid diagnostic code")
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// DiagnosticCode is a machine-readable diagnostic identifier.
	DiagnosticCode string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "directory_unreadable").
		Code DiagnosticCode
		// Message is the human-readable description.
		Message string
		// Path is the filesystem path associated with this diagnostic.
		Path types.FilesystemPath
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}

	// InvalidSeverityError is returned when a Severity is not recognized.
	InvalidSeverityError struct {
		Value Severity
	}

	// InvalidDiagnosticCodeError is returned when a DiagnosticCode is not recognized.
	InvalidDiagnosticCodeError struct {
		Value DiagnosticCode
	}
)

// String returns the string representation of the Severity.
func (s Severity) String() string { return string(s) }

// Validate returns an error if s is not a known severity.
func (s Severity) Validate() error {
	switch s {
	case SeverityWarning, SeverityError:
		return nil
	default:
		return &InvalidSeverityError{Value: s}
	}
}

// Error implements the error interface.
func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid severity %q (valid: warning, error)", e.Value)
}

// Unwrap returns ErrInvalidSeverity for errors.Is() compatibility.
func (e *InvalidSeverityError) Unwrap() error { return ErrInvalidSeverity }

// String returns the string representation of the DiagnosticCode.
func (c DiagnosticCode) String() string { return string(c) }

// Validate returns an error if c is not a known diagnostic code.
func (c DiagnosticCode) Validate() error {
	switch c {
	case CodeDirectoryUnreadable, CodeSymlinkSkipped, CodeSymlinkCycle, CodeBrokenSymlink:
		return nil
	default:
		return &InvalidDiagnosticCodeError{Value: c}
	}
}

// Error implements the error interface.
func (e *InvalidDiagnosticCodeError) Error() string {
	return fmt.Sprintf("invalid diagnostic code %q", e.Value)
}

// Unwrap returns ErrInvalidDiagnosticCode for errors.Is() compatibility.
func (e *InvalidDiagnosticCodeError) Unwrap() error { return ErrInvalidDiagnosticCode }

// String renders the diagnostic on a single line.
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s [%s]: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s]: %s: %s", d.Severity, d.Code, d.Path, d.Message)
}

func newDiagnostic(severity Severity, code DiagnosticCode, path types.FilesystemPath, message string, cause error) Diagnostic {
	return Diagnostic{
		Severity: severity,
		Code:     code,
		Message:  message,
		Path:     path,
		Cause:    cause,
	}
}
