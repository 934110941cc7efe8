package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to command-layer failures so hosts can tell a rejected
// message apart from a run that started and then went wrong.
const (
	codeMessageRejected = "LINT_MESSAGE_REJECTED"
	codeRunCancelled    = "LINT_RUN_CANCELLED"
	codeRunTimedOut     = "LINT_RUN_TIMED_OUT"
	codeRunAborted      = "LINT_RUN_ABORTED"
	codeRunFailed       = "LINT_RUN_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "lint message rejected").
		WithTextCode(codeMessageRejected)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}

	msg, code := "lint run aborted by context", codeRunAborted
	switch {
	case errors.Is(err, context.Canceled):
		msg, code = "lint run cancelled", codeRunCancelled
	case errors.Is(err, context.DeadlineExceeded):
		msg, code = "lint run deadline exceeded", codeRunTimedOut
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, msg).WithTextCode(code)
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "lint run failed").
		WithTextCode(codeRunFailed)
}
