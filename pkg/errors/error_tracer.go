package errors

import "github.com/pkg/errors"

// ErrorTracer pairs a short operation message with the underlying error and its stack.
type ErrorTracer struct {
	Message string
	Err     error
}

// StackTracer is implemented by errors created through github.com/pkg/errors.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// NewTracer creates a new ErrorTracer with the provided message.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{
		Message: message,
	}
}

// TracerFromError creates a new ErrorTracer from an existing error, preserving the stack trace.
func TracerFromError(err error) *ErrorTracer {
	return NewTracer(err.Error()).Wrap(err)
}

// Trace wraps err in a tracer named after the failing operation. It returns nil for a nil err.
func Trace(message string, err error) error {
	if err == nil {
		return nil
	}
	return NewTracer(message).Wrap(err)
}

func (e *ErrorTracer) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// Wrap attaches err to the tracer, adding a stack trace when err has none.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	e.Err = err
	if _, ok := err.(StackTracer); !ok && err != nil {
		e.Err = errors.WithStack(err)
	}

	return e
}

// StackTrace returns the stack trace of the underlying error if it implements StackTracer.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	if st, ok := e.Unwrap().(StackTracer); ok {
		return st.StackTrace()
	}
	return nil
}
