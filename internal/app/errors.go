package app

import "fmt"

// ErrChannelInUse rejects deleting a channel that reminders still reference.
// The API layer surfaces it as a 400.
var ErrChannelInUse = fmt.Errorf("channel is referenced by existing reminders")

// ValidationError marks input rejected before any state change: a bad cron
// expression, an out-of-range time, an unknown timezone, an over-long title.
// The API layer surfaces it as a 422.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
