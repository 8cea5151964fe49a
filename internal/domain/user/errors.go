package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid or missing access token")
	ErrEmployeeIDRequired      = errors.New("employee ID is required")
	ErrCompanyIDRequired       = errors.New("company ID is required")
	ErrManagerAccessRequired   = errors.New("manager access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
