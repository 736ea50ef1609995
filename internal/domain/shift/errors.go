package shift

import "errors"

var (
	ErrShiftNotFound = errors.New("shift configuration not found")
)
