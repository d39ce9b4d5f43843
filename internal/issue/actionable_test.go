// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "resolve toolchain"},
			expected: "failed to resolve toolchain",
		},
		{
			name:     "with resource",
			err:      &ActionableError{Operation: "resolve toolchain", Resource: "avr-atmega328p"},
			expected: "failed to resolve toolchain: avr-atmega328p",
		},
		{
			name: "with resource and cause",
			err: &ActionableError{
				Operation: "list runtime sources",
				Resource:  "/usr/share/arduino/hardware/arduino/avr/cores/arduino",
				Cause:     errors.New("permission denied"),
			},
			expected: "failed to list runtime sources: /usr/share/arduino/hardware/arduino/avr/cores/arduino: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()
	cause := errors.New("specific error")
	wrapped := &ActionableError{Operation: "discover headers", Cause: cause}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name: "suggestions are bulleted",
			err: &ActionableError{
				Operation:   "resolve toolchain",
				Resource:    "avr-atmega2560",
				Suggestions: []string{"Install avr-libc", "Set AVR_INCLUDE_DIRECTORY"},
			},
			contains: []string{
				"failed to resolve toolchain: avr-atmega2560",
				"• Install avr-libc",
				"• Set AVR_INCLUDE_DIRECTORY",
			},
		},
		{
			name:     "no chain when not verbose",
			err:      &ActionableError{Operation: "load configuration", Cause: errors.New("syntax error")},
			contains: []string{"failed to load configuration: syntax error"},
			excludes: []string{"Error chain:"},
		},
		{
			name: "nested chain when verbose",
			err: &ActionableError{
				Operation: "plan build",
				Cause: &ActionableError{
					Operation: "discover headers",
					Cause:     errors.New("no such file or directory"),
				},
			},
			verbose: true,
			contains: []string{
				"Error chain:",
				"1. failed to discover headers: no such file or directory",
				"2. no such file or directory",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.err.Format(tt.verbose)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Format() missing %q\ngot:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Format() should not contain %q\ngot:\n%s", s, got)
				}
			}
		})
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	t.Run("missing operation returns nil", func(t *testing.T) {
		t.Parallel()
		if err := NewErrorContext().WithResource("Arduino.h").Build(); err != nil {
			t.Errorf("Build() = %v, want nil", err)
		}
		if err := NewErrorContext().BuildError(); err != nil {
			t.Errorf("BuildError() = %v, want nil", err)
		}
	})

	t.Run("full context", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("entry header not found")
		err := NewErrorContext().
			WithOperation("plan bindings").
			WithResource("IPAddress.h").
			WithIssue(MissingEntryHeaderId).
			WithSuggestion("Check the runtime directory").
			WithSuggestions("Remove the pass from bindings", "Run 'arduinogen headers'").
			Wrap(cause).
			Build()
		if err == nil {
			t.Fatal("Build() returned nil")
		}
		if err.Operation != "plan bindings" || err.Resource != "IPAddress.h" {
			t.Errorf("unexpected fields: %+v", err)
		}
		if len(err.Suggestions) != 3 {
			t.Errorf("Suggestions count = %d, want 3", len(err.Suggestions))
		}
		if !errors.Is(err, cause) {
			t.Error("Build() should keep the cause")
		}
		if err.Issue() == nil || err.Issue().Id() != MissingEntryHeaderId {
			t.Errorf("Issue() = %v, want MissingEntryHeaderId", err.Issue())
		}
	})

	t.Run("BuildError returns ActionableError", func(t *testing.T) {
		t.Parallel()
		err := NewErrorContext().WithOperation("resolve toolchain").BuildError()
		var ae *ActionableError
		if !errors.As(err, &ae) {
			t.Fatalf("BuildError() = %T, want *ActionableError", err)
		}
		if ae.Issue() != nil {
			t.Error("Issue() should be nil without WithIssue")
		}
	})
}

func TestWrapHelpers(t *testing.T) {
	t.Parallel()

	cause := errors.New("original error")
	if err := WrapWithOperation(cause, "discover headers"); err == nil || !errors.Is(err, cause) || err.Operation != "discover headers" {
		t.Errorf("WrapWithOperation() = %+v", err)
	}
	if err := WrapWithContext(cause, "discover headers", "/tmp/root"); err == nil || err.Resource != "/tmp/root" {
		t.Errorf("WrapWithContext() = %+v", err)
	}
	if WrapWithOperation(nil, "x") != nil || WrapWithContext(nil, "x", "y") != nil {
		t.Error("wrapping nil should return nil")
	}
	if got := NewActionableError("resolve toolchain"); got.Operation != "resolve toolchain" || got.Cause != nil {
		t.Errorf("NewActionableError() = %+v", got)
	}
}

func TestErrorContext_Reuse(t *testing.T) {
	t.Parallel()
	ctx := NewErrorContext().WithOperation("list runtime sources").WithResource("/runtime")

	err1 := ctx.Wrap(errors.New("error 1")).Build()
	err2 := ctx.Wrap(errors.New("error 2")).Build()

	if err1.Cause.Error() == err2.Cause.Error() {
		t.Error("reused context should allow different causes")
	}
	if err1.Operation != err2.Operation {
		t.Error("reused context should preserve operation")
	}
}
