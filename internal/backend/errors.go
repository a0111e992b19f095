package backend

import "fmt"

// NotFoundError indicates an unknown job id. A stale or mistyped handle
// cannot self-correct, so callers must not retry on it.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// NotReadyError indicates results were requested before the query succeeded.
type NotReadyError struct {
	Message string
}

func (e *NotReadyError) Error() string { return e.Message }

// SubmissionError indicates the backend rejected or could not accept a query.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string { return e.Message }

func (e *SubmissionError) Unwrap() error { return e.Err }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrNotReady creates a NotReadyError with a formatted message.
func ErrNotReady(format string, args ...interface{}) *NotReadyError {
	return &NotReadyError{Message: fmt.Sprintf(format, args...)}
}

// ErrSubmission creates a SubmissionError with a formatted message.
func ErrSubmission(format string, args ...interface{}) *SubmissionError {
	return &SubmissionError{Message: fmt.Sprintf(format, args...)}
}
