package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrNotFound           = errors.New("not found")
	ErrNoRowsAffected     = errors.New("no rows affected")
	ErrTransactionAborted = errors.New("transaction aborted")
	ErrCodeSpaceExhausted = errors.New("code space exhausted")
	ErrUnsupportedLookup  = errors.New("unsupported lookup")
	ErrUnknownMeasurement = errors.New("unknown measurement field")
)
