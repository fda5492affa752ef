package pubsub

import "errors"

var (
	// Construction errors
	ErrInvalidCapacity = errors.New("pubsub: capacity must be at least 1")

	// Runtime errors
	ErrChannelClosed = errors.New("pubsub: no subscriber remains and none can attach")
	ErrClosed        = errors.New("pubsub: channel closed and drained")
	ErrEmpty         = errors.New("pubsub: no message ready")
)
