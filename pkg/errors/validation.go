package errors

import stderrors "errors"

// ValidationError is returned when caller input is rejected before any state changes.
// Every failing field is recorded as one ErrorDetails.
type ValidationError struct {
	*BaseError
}

// NewValidationError creates a ValidationError from the given details.
func NewValidationError(details ...*ErrorDetails) *ValidationError {
	return &ValidationError{BaseError: NewBaseError(details...)}
}

// Add appends a failing field to the error.
func (v *ValidationError) Add(code ErrorCode, field, message string) {
	v.AddErrorDetails(NewErrorDetails(message, code.String(), field))
}

// OrNil returns nil when no detail was recorded, so a ValidationError can be
// built up field by field and returned unconditionally.
func (v *ValidationError) OrNil() error {
	if v == nil || !v.HasDetails() {
		return nil
	}
	return v
}

// IsValidationError reports whether err, or any error it wraps, is a ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return stderrors.As(err, &v)
}

// AsValidationError extracts the ValidationError from err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := stderrors.As(err, &v)
	return v, ok
}
