package telemetry

import "errors"

var (
	ErrNotFound        = errors.New("telemetry record not found")
	ErrInvalidReading  = errors.New("invalid light reading")
	ErrInvalidPhoto    = errors.New("invalid growth photo")
	ErrInvalidCursor   = errors.New("invalid pagination cursor")
	ErrVersionConflict = errors.New("telemetry version conflict")
)
