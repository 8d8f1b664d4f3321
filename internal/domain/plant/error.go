package plant

import "errors"

var (
	ErrNotFound        = errors.New("plant not found")
	ErrInvalidInput    = errors.New("invalid plant data")
	ErrVersionConflict = errors.New("plant version conflict")
)
