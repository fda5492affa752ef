package pubsub

import (
	"context"
	"errors"
	"sync"
	"time"

	"topicbus/internal/broadcast"
	"topicbus/internal/metrics"
)

// Publisher is the exclusive write endpoint of a channel. Exactly one
// exists per channel and it is not cloneable. It assumes a single writing
// goroutine.
type Publisher[T comparable, M any] struct {
	ch   *channel[T, M]
	send *broadcast.Sender[Message[T, M]]
	once sync.Once
}

// Send enqueues msg for every currently attached subscription. It suspends
// while the queue is full relative to the slowest subscription, until
// space frees up or ctx is done; it never drops or reorders on the writer
// side. Send fails with ErrChannelClosed once every factory and every
// subscription are gone, since no reader can ever observe the message.
func (p *Publisher[T, M]) Send(ctx context.Context, msg Message[T, M]) error {
	start := time.Now()
	err := p.send.Send(ctx, msg)
	p.ch.met.Observe(metrics.SendWaitMs, float64(time.Since(start).Milliseconds()))
	if err != nil {
		switch {
		case errors.Is(err, broadcast.ErrNoReaders):
			p.ch.met.IncCounter(metrics.SendsRejected, 1)
			return ErrChannelClosed
		case errors.Is(err, broadcast.ErrClosed):
			return ErrClosed
		}
		return err
	}
	p.ch.met.IncCounter(metrics.Published, 1)
	if p.ch.tap != nil {
		p.ch.tap.record(msg)
	}
	return nil
}

// Publish is shorthand for Send with a message built from topic and
// payload.
func (p *Publisher[T, M]) Publish(ctx context.Context, topic T, payload M) error {
	return p.Send(ctx, NewMessage(topic, payload))
}

// History returns the channel's tap of recently published messages, or
// nil when WithHistory was not set.
func (p *Publisher[T, M]) History() *Tap[T, M] { return p.ch.tap }

// Close ends the stream. Live subscriptions drain their buffered backlog
// and then report end-of-sequence. Idempotent, never blocks.
func (p *Publisher[T, M]) Close() error {
	p.once.Do(func() {
		p.ch.log.Debug("pubsub: publisher closed")
	})
	return p.send.Close()
}
