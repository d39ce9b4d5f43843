// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/arduinogen/arduinogen/internal/buildplan"
	"github.com/arduinogen/arduinogen/internal/config"
	"github.com/arduinogen/arduinogen/internal/discovery"
	"github.com/arduinogen/arduinogen/internal/issue"
	"github.com/arduinogen/arduinogen/pkg/toolchain"
	"github.com/arduinogen/arduinogen/pkg/types"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before the issue guidance.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
	// Code is the process exit code for this failure.
	Code types.ExitCode
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// All construction sites must use this instead of struct literals.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
		Code:          types.ExitFatal,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError maps a handler error to its issue catalog entry and exit code.
// An ActionableError keeps its own issue; otherwise the sentinel in the chain
// decides.
func classifyError(err error, verbose bool) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	message := err.Error()
	id := issue.Id(0)
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		message = ae.Format(verbose)
		id = ae.IssueID
	}
	if id == 0 {
		id = issueForError(err)
	}

	out := newServiceError(err, id, ErrorStyle.Render("error: ")+message+"\n")
	if isUsageError(err) {
		out.Code = types.ExitUsage
	}
	return out
}

func issueForError(err error) issue.Id {
	switch {
	case errors.Is(err, toolchain.ErrUnknownTarget):
		return issue.UnknownTargetId
	case errors.Is(err, toolchain.ErrMissingDirectory):
		return issue.MissingDirectoryId
	case errors.Is(err, discovery.ErrUnreadableDirectory):
		return issue.UnreadableDirectoryId
	case errors.Is(err, buildplan.ErrMissingEntryHeader):
		return issue.MissingEntryHeaderId
	case errors.Is(err, toolchain.ErrInvalidBoard):
		return issue.InvalidBoardId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	default:
		return 0
	}
}

func isUsageError(err error) bool {
	for _, sentinel := range []error{
		buildplan.ErrInvalidFormat,
		buildplan.ErrInvalidInput,
		toolchain.ErrInvalidTargetSpec,
		types.ErrInvalidHeaderName,
		ErrInvalidOutputFormat,
		ErrInvalidFlag,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section
// using the glamour style (auto, dark, light or notty).
func renderServiceError(stderr io.Writer, svcErr *ServiceError, style string) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(style)
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}
