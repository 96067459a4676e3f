// Package flow contains the release-flow state machine: pure logic that,
// given a requested action and a repository snapshot, validates the
// transition and emits the ordered plan of platform operations. No side
// effects happen here.
package flow

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when the requested action is not legal in
// the state derived from the snapshot. No plan is produced and no platform
// call is made.
var ErrInvalidTransition = errors.New("invalid transition")

// WrapError wraps an error with additional context while preserving
// errors.Is checks against sentinel errors.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted context while preserving
// errors.Is checks against sentinel errors.
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
