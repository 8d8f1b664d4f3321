package plantid

import "errors"

var (
	ErrInvalidImage = errors.New("invalid plant image")
	ErrNoCandidates = errors.New("no identification candidates")
	ErrModelFailure = errors.New("identification model failure")
	ErrNotFound     = errors.New("identification not found")
)
