package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrEmailExists          = errors.New("email already registered")
	ErrEmployeeDeleted      = errors.New("employee has been removed")
	ErrFutureDateNotAllowed = errors.New("date cannot be in the future")
	ErrInvalidImage         = errors.New("invalid file type: only jpg, jpeg, png allowed")
)
