package domain

import "fmt"

// ErrorMessage carries the user-facing message of a domain error
type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// ValidationError reports a missing or invalid required field
type ValidationError struct {
	ErrorMessage
	Field string
}

// DuplicateNameError reports a name collision within today's bucket
type DuplicateNameError struct {
	ErrorMessage
	Name string
	Day  Day
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
		Field:        field,
	}
}

// NewDuplicateNameError creates a DuplicateNameError for name on day
func NewDuplicateNameError(name string, day Day) *DuplicateNameError {
	return &DuplicateNameError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("an item named %q already exists on %s", name, day)},
		Name:         name,
		Day:          day,
	}
}
