package pubsub

import (
	"context"
	"errors"
	"sync"

	"topicbus/internal/broadcast"
	"topicbus/internal/metrics"
)

// Subscription is a lazy, forward-only sequence of payloads whose topic
// equals the subscription's. It owns its cursor exclusively and is meant
// for a single consuming goroutine; it is not restartable.
//
// A subscription that falls behind the queue's retention window (possible
// under the DropOldest policy) silently resumes from the oldest retained
// message, trading completeness for liveness. Skips are counted in
// metrics and logged at debug level but never surfaced to the consumer.
type Subscription[T comparable, M any] struct {
	ch    *channel[T, M]
	cur   *broadcast.Cursor[Message[T, M]]
	topic T

	seenSkipped uint64
	once        sync.Once
}

// Topic returns the label this subscription filters on.
func (s *Subscription[T, M]) Topic() T { return s.topic }

// Next returns the next payload published on the subscription's topic. It
// suspends while no new message is ready and the channel is open.
// Mismatching topics are consumed invisibly. Next returns ErrClosed once
// the channel is closed and the backlog drained, and ctx's error if ctx
// ends first.
func (s *Subscription[T, M]) Next(ctx context.Context) (M, error) {
	var zero M
	for {
		msg, err := s.cur.Next(ctx)
		switch {
		case err == nil:
		case errors.Is(err, broadcast.ErrLagged):
			s.noteLag()
			continue
		case errors.Is(err, broadcast.ErrClosed):
			return zero, ErrClosed
		default:
			return zero, err
		}
		if msg.Topic() != s.topic {
			s.ch.met.IncCounter(metrics.Filtered, 1)
			continue
		}
		s.ch.met.IncCounter(metrics.Delivered, 1)
		return msg.Payload(), nil
	}
}

// TryNext is the non-suspending variant of Next: it consumes whatever is
// ready right now and returns ErrEmpty as soon as a matching payload
// would require waiting.
func (s *Subscription[T, M]) TryNext() (M, error) {
	var zero M
	for {
		msg, err := s.cur.TryNext()
		switch {
		case err == nil:
		case errors.Is(err, broadcast.ErrLagged):
			s.noteLag()
			continue
		case errors.Is(err, broadcast.ErrEmpty):
			return zero, ErrEmpty
		case errors.Is(err, broadcast.ErrClosed):
			return zero, ErrClosed
		default:
			return zero, err
		}
		if msg.Topic() != s.topic {
			s.ch.met.IncCounter(metrics.Filtered, 1)
			continue
		}
		s.ch.met.IncCounter(metrics.Delivered, 1)
		return msg.Payload(), nil
	}
}

// Drain returns every matching payload available without suspending, in
// publish order. It stops at the first moment nothing is ready or the
// channel is exhausted.
func (s *Subscription[T, M]) Drain() []M {
	var out []M
	for {
		v, err := s.TryNext()
		if err != nil {
			return out
		}
		out = append(out, v)
	}
}

// Skipped returns the total number of raw messages this subscription lost
// to lag. The count is over raw messages, matching or not.
func (s *Subscription[T, M]) Skipped() uint64 { return s.cur.Skipped() }

func (s *Subscription[T, M]) noteLag() {
	total := s.cur.Skipped()
	delta := total - s.seenSkipped
	s.seenSkipped = total
	if delta > 0 {
		s.ch.met.IncCounter(metrics.Lagged, float64(delta))
		s.ch.log.Debugf("pubsub: subscription on topic %v skipped %d messages (%d total)", s.topic, delta, total)
	}
}

// Close releases the subscription's cursor, freeing its retention
// obligation and waking a publisher blocked on it. Idempotent, never
// blocks.
func (s *Subscription[T, M]) Close() error {
	s.once.Do(func() {
		s.cur.Close()
		n := s.ch.subs.Add(-1)
		s.ch.met.SetGauge(metrics.Subscriptions, float64(n))
	})
	return nil
}
