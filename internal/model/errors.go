package model

import "errors"

var (
	// ErrSourceNotFound is returned when the activity log does not exist at
	// the expected location.
	ErrSourceNotFound = errors.New("activity log not found")

	// ErrSourcePermission is returned when the activity log exists but is
	// not readable by the current process.
	ErrSourcePermission = errors.New("activity log not readable")

	// ErrEmptyResult is returned when no events survive the device-class
	// filter. It is distinct from a zero-valued aggregate so consumers can
	// render an explicit "no data" state.
	ErrEmptyResult = errors.New("no events for device class")
)

// QueryError wraps a failure of the underlying log query.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return "query failed: " + e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
