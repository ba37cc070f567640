package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("not authorized")
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyPaid       = errors.New("order already paid")
	ErrNotCancellable    = errors.New("order cannot be cancelled")
	ErrUpstream          = errors.New("payment provider error")
	ErrBadSignature      = errors.New("invalid payment signature")
)
