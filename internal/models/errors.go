package models

import "errors"

// Validation errors shared by projects, tasks and the schedule analytics
var (
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidValue     = errors.New("invalid value")
	ErrInvalidDateRange = errors.New("end date is before start date")
)

// IsValidation reports whether err is one of the validation errors above
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrInvalidDateRange)
}
