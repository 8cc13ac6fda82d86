package errors

// ErrorDetails represents detailed information about an error.
type ErrorDetails struct {
	// Message (required) is the user-defined error message.
	// E.g. "quantity must be positive".
	Message string `json:"message"`

	// Code (required) is one of the ErrorCode values.
	// E.g. "order_invalid_quantity".
	Code string `json:"code"`

	// Field (optional) is the related field the error occurred on, if any.
	Field string `json:"field,omitempty"`

	// Object (optional) is the related object the error occurred on, if any.
	Object interface{} `json:"-"`
}

// NewErrorDetails creates a new ErrorDetails struct with the given parameters.
func NewErrorDetails(message, code, field string) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
	}
}

// Error() is used to implement the Golang `error` interface.
func (e *ErrorDetails) Error() string {
	return e.Message
}

// ErrorCodeEquals checks whether a given `error` has a specific code.
func ErrorCodeEquals(err error, code string) bool {
	errDetails, ok := err.(*ErrorDetails)
	if !ok {
		return false
	}

	return errDetails.Code == code
}
