package story

import "errors"

var (
	ErrNotFound     = errors.New("story not found")
	ErrExpired      = errors.New("story has expired")
	ErrInvalidInput = errors.New("invalid story input")
)
