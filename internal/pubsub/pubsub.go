// Package pubsub provides a single-publisher, multi-subscriber channel for
// tagged messages. Each subscription names one topic label and receives, in
// publish order, only the payloads tagged with that label.
//
// New returns the channel's two handles: the exclusive Publisher and a
// cloneable SubscriptionFactory. Subscriptions attach at the moment of
// their creation and never see earlier messages. Delivery rides on the
// bounded multicast queue in internal/broadcast; the publisher suspends on
// backpressure rather than dropping or reordering.
package pubsub

import (
	"sync/atomic"

	"topicbus/internal/broadcast"
	"topicbus/internal/logging"
	"topicbus/internal/metrics"
)

// Option configures a channel at construction.
type Option func(*settings)

type settings struct {
	logger  logging.Logger
	metrics metrics.Provider
	policy  broadcast.OverflowPolicy
	history int
}

// WithLogger routes channel internals (lag skips, close) to logger.
func WithLogger(l logging.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithMetrics reports channel activity to p.
func WithMetrics(p metrics.Provider) Option {
	return func(s *settings) { s.metrics = p }
}

// WithOverflowPolicy selects the queue's behavior when full. The default,
// broadcast.Block, suspends the publisher until the slowest subscription
// advances; broadcast.DropOldest keeps the publisher moving and lets slow
// subscriptions skip ahead.
func WithOverflowPolicy(p broadcast.OverflowPolicy) Option {
	return func(s *settings) { s.policy = p }
}

// WithHistory records the last n published messages in a Tap, retrievable
// via Publisher.History. Zero disables recording.
func WithHistory(n int) Option {
	return func(s *settings) { s.history = n }
}

// channel is the state shared by the Publisher, every factory clone and
// every subscription.
type channel[T comparable, M any] struct {
	log logging.Logger
	met metrics.Provider
	tap *Tap[T, M]

	subs atomic.Int64
}

// New creates a topic-indexed channel retaining at most capacity messages
// and returns its single Publisher and a SubscriptionFactory for minting
// topic subscriptions. Capacity below 1 is rejected with
// ErrInvalidCapacity and no channel is created.
func New[T comparable, M any](capacity int, opts ...Option) (*Publisher[T, M], *SubscriptionFactory[T, M], error) {
	if capacity < 1 {
		return nil, nil, ErrInvalidCapacity
	}
	s := settings{
		logger:  logging.Nop(),
		metrics: metrics.Noop{},
	}
	for _, opt := range opts {
		opt(&s)
	}

	send, attach, err := broadcast.New[Message[T, M]](capacity, broadcast.WithOverflowPolicy(s.policy))
	if err != nil {
		return nil, nil, err
	}

	ch := &channel[T, M]{log: s.logger, met: s.metrics}
	if s.history > 0 {
		tap, err := newTap[T, M](s.history)
		if err != nil {
			return nil, nil, err
		}
		ch.tap = tap
	}

	pub := &Publisher[T, M]{ch: ch, send: send}
	factory := &SubscriptionFactory[T, M]{ch: ch, attach: attach}
	return pub, factory, nil
}
