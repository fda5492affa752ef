package pubsub

// Message pairs a topic label with a payload. Both fields are fixed at
// construction; topic equality is exact, with no normalization and no
// wildcards.
type Message[T comparable, M any] struct {
	topic   T
	payload M
}

// NewMessage constructs a tagged message.
func NewMessage[T comparable, M any](topic T, payload M) Message[T, M] {
	return Message[T, M]{topic: topic, payload: payload}
}

// Topic returns the message's topic label.
func (m Message[T, M]) Topic() T { return m.topic }

// Payload returns the message's payload.
func (m Message[T, M]) Payload() M { return m.payload }
