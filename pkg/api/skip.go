package api

import (
	"errors"
	"fmt"
)

// SkipTestError is the sentinel returned (or wrapped) by user code to abort
// a test without failing it. The engine reports the test as aborted and
// still runs the afterEach methods.
type SkipTestError struct {
	Reason string
}

// Error implements error.
func (e *SkipTestError) Error() string {
	if e.Reason == "" {
		return "test skipped"
	}
	return "test skipped: " + e.Reason
}

// Abort returns a SkipTestError with the formatted reason. User test and
// lifecycle methods return it to mark the test aborted instead of failed.
func Abort(format string, args ...any) error {
	return &SkipTestError{Reason: fmt.Sprintf(format, args...)}
}

// IsSkip reports whether err is, or wraps, a SkipTestError.
func IsSkip(err error) bool {
	var skip *SkipTestError
	return errors.As(err, &skip)
}
