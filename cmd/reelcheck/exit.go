package main

import "errors"

const (
	exitFailure    = 1
	exitViolations = 2
)

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return "exit status"
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// violationsFound signals a completed run whose verdict flagged content. The
// verdict has already been printed so nothing more is written to stderr.
func violationsFound() error {
	return &exitError{code: exitViolations}
}

func exitCode(err error) int {
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return exitFailure
}

func isSilentExit(err error) bool {
	var exitErr *exitError
	return errors.As(err, &exitErr) && exitErr.err == nil
}
