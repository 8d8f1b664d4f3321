package sync

import "errors"

var (
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrRecordNotFound   = errors.New("sync record not found")
	ErrConflictNotFound = errors.New("conflict not found")
	ErrDeviceNotFound   = errors.New("device not found")
	ErrForbidden        = errors.New("resource does not belong to user")
	ErrInvalidInput     = errors.New("invalid sync input")
)
