package pubsub

import (
	"topicbus/internal/broadcast"
	"topicbus/internal/metrics"
)

// SubscriptionFactory mints topic subscriptions. It holds no read cursor
// itself; every GetSubscription call attaches a fresh one. Factories may
// be cloned so independent owners can each mint subscriptions.
type SubscriptionFactory[T comparable, M any] struct {
	ch     *channel[T, M]
	attach *broadcast.AttachPoint[Message[T, M]]
}

// GetSubscription returns a new subscription filtered to topic. Its cursor
// attaches at the queue's current tail: messages published before this
// call are not visible, even when their topic matches. Any topic value is
// valid; one nothing publishes to simply never yields. On an already
// closed and drained channel the subscription is created exhausted.
func (f *SubscriptionFactory[T, M]) GetSubscription(topic T) *Subscription[T, M] {
	cur := f.attach.Attach()
	n := f.ch.subs.Add(1)
	f.ch.met.SetGauge(metrics.Subscriptions, float64(n))
	f.ch.log.Debugf("pubsub: subscription created for topic %v", topic)
	return &Subscription[T, M]{ch: f.ch, cur: cur, topic: topic}
}

// Clone duplicates the capability to mint subscriptions without
// duplicating any existing subscription's state. The clone is closed
// independently of the original.
func (f *SubscriptionFactory[T, M]) Clone() *SubscriptionFactory[T, M] {
	return &SubscriptionFactory[T, M]{ch: f.ch, attach: f.attach.Clone()}
}

// Close releases this factory's mint capability. Existing subscriptions
// keep working. Once every factory and every subscription are closed the
// publisher's Send reports ErrChannelClosed. Idempotent.
func (f *SubscriptionFactory[T, M]) Close() error {
	return f.attach.Close()
}
