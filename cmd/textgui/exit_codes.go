package main

import (
	"context"
	"errors"

	tgerrors "github.com/odvcencio/textgui/pkg/errors"
)

const (
	exitFailure     = 1
	exitConfig      = 2
	exitNoSpace     = 3
	exitInterrupted = 130
)

type exitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e exitError) Unwrap() error {
	return e.err
}

func (e exitError) ExitCode() int {
	if e.code == 0 {
		return exitFailure
	}
	return e.code
}

func withExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return exitError{code: code, err: err}
}

// exitCodeForError maps an error to a process exit status. Explicit
// codes win, then the error's category.
func exitCodeForError(err error) int {
	if err == nil {
		return 0
	}
	var coded exitCoder
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	switch tgerrors.GetCode(err) {
	case tgerrors.ErrCodeConfigLoad, tgerrors.ErrCodeConfigParse, tgerrors.ErrCodeConfigInvalid:
		return exitConfig
	case tgerrors.ErrCodeNoSpace:
		return exitNoSpace
	}
	return exitFailure
}
