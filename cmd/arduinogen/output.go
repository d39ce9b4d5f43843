// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	// OutputText is styled, human-readable output.
	OutputText OutputFormat = "text"
	// OutputTOML is a TOML document.
	OutputTOML OutputFormat = "toml"
	// OutputJSON is indented JSON.
	OutputJSON OutputFormat = "json"
)

var (
	// ErrInvalidOutputFormat is the sentinel error wrapped by InvalidOutputFormatError.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidFlag marks a flag value that could not be parsed.
	ErrInvalidFlag = errors.New("invalid flag value")
)

type (
	// OutputFormat selects how read-only commands print their result.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}
)

// Validate returns an error unless f is a known output format.
func (f OutputFormat) Validate() error {
	switch f {
	case OutputText, OutputTOML, OutputJSON:
		return nil
	default:
		return &InvalidOutputFormatError{Value: f}
	}
}

// Error implements the error interface for InvalidOutputFormatError.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: %s)",
		e.Value, strings.Join([]string{string(OutputText), string(OutputTOML), string(OutputJSON)}, ", "))
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// writeStructured writes v as TOML or JSON.
func writeStructured(w io.Writer, v any, format OutputFormat) error {
	switch format {
	case OutputTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(v)
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return &InvalidOutputFormatError{Value: format}
	}
}
