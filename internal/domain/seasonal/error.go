package seasonal

import "errors"

var (
	ErrNotFound     = errors.New("forecast not found")
	ErrModelFailure = errors.New("forecast model failure")
	ErrInvalidInput = errors.New("invalid forecast input")
)
