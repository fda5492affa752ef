package broadcast

import "errors"

var (
	// Construction errors
	ErrInvalidCapacity = errors.New("broadcast: capacity must be at least 1")

	// Runtime errors
	ErrClosed    = errors.New("broadcast: channel closed")
	ErrNoReaders = errors.New("broadcast: no readers remain")
	ErrEmpty     = errors.New("broadcast: no item ready")
	ErrLagged    = errors.New("broadcast: reader fell behind retention window")
)
