// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arduinogen/arduinogen/pkg/types"
)

const (
	// DirectoryVariant is the board variant include directory.
	DirectoryVariant DirectoryRole = "variant include"
	// DirectoryAVRInclude is the architecture standard-library include directory.
	DirectoryAVRInclude DirectoryRole = "avr standard library include"
)

var (
	// ErrUnknownTarget is the sentinel error wrapped by UnknownTargetError.
	ErrUnknownTarget = errors.New("unknown target")
	// ErrMissingDirectory is the sentinel error wrapped by MissingDirectoryError.
	ErrMissingDirectory = errors.New("missing required directory")
)

type (
	// DirectoryRole names which required include directory could not be found.
	DirectoryRole string

	// UnknownTargetError is returned when a target is not in the board table.
	// Resolution never returns a partial configuration alongside it.
	UnknownTargetError struct {
		Value     TargetSpec
		Supported []TargetSpec
	}

	// MissingDirectoryError is returned when a required include directory does
	// not exist at any candidate location.
	MissingDirectoryError struct {
		Role DirectoryRole
		// Candidates lists every location checked, in order.
		Candidates []types.FilesystemPath
		// Header is the header file the directory is expected to provide.
		Header string
		// Override is true when the only candidate came from an explicit override.
		Override bool
	}
)

// Error implements the error interface for UnknownTargetError.
func (e *UnknownTargetError) Error() string {
	supported := make([]string, len(e.Supported))
	for i, t := range e.Supported {
		supported[i] = string(t)
	}
	return fmt.Sprintf("unknown target %q (supported: %s)", e.Value, strings.Join(supported, ", "))
}

// Unwrap returns ErrUnknownTarget for errors.Is() compatibility.
func (e *UnknownTargetError) Unwrap() error { return ErrUnknownTarget }

// Error implements the error interface for MissingDirectoryError.
func (e *MissingDirectoryError) Error() string {
	candidates := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		candidates[i] = string(c)
	}
	source := "searched"
	if e.Override {
		source = "override"
	}
	return fmt.Sprintf("%s directory for %s not found (%s: %s)",
		e.Role, e.Header, source, strings.Join(candidates, ", "))
}

// Unwrap returns ErrMissingDirectory for errors.Is() compatibility.
func (e *MissingDirectoryError) Unwrap() error { return ErrMissingDirectory }
