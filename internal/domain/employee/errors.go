package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeInactive   = errors.New("employee is not active")
	ErrInvalidCredentials = errors.New("invalid employee code or PIN")
)
