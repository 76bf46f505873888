package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrUserIDExists       = errors.New("user id already registered")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidPhoneNumber = errors.New("phone number must be 7-15 digits")
)
