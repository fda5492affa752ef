// Package broadcast implements a bounded, single-writer, multi-reader
// multicast queue. Every item pushed by the writer is observable by every
// attached cursor, each of which advances through the queue independently.
//
// The queue retains at most capacity items. Under the default Block policy
// the writer suspends while the slowest attached cursor still needs the
// oldest retained item; under DropOldest the writer evicts it instead and
// the lagging cursor observes a skip on its next read.
package broadcast

import (
	"context"
	"sync"
)

// OverflowPolicy controls what Send does when the queue is full relative
// to the slowest attached cursor.
type OverflowPolicy int

const (
	// Block suspends the sender until the slowest cursor advances or
	// detaches.
	Block OverflowPolicy = iota

	// DropOldest evicts the oldest retained item; cursors that still
	// needed it observe lag.
	DropOldest
)

// Option configures a queue at construction.
type Option func(*options)

type options struct {
	policy OverflowPolicy
}

// WithOverflowPolicy selects the behavior of Send on a full queue.
// The default is Block.
func WithOverflowPolicy(p OverflowPolicy) Option {
	return func(o *options) { o.policy = p }
}

// state is the single shared allocation behind a queue. The Sender, every
// AttachPoint and every Cursor reference it; all mutation happens under mu.
type state[V any] struct {
	mu sync.Mutex

	buf  []V
	head uint64 // sequence number of the next item to write
	tail uint64 // sequence number of the oldest retained item

	cursors    map[*Cursor[V]]struct{}
	attachRefs int // live AttachPoint handles
	closed     bool

	policy OverflowPolicy

	// readerWake is closed and replaced whenever an item is written or
	// the queue is closed; blocked cursors wait on it.
	readerWake chan struct{}
	// writerWake is closed and replaced whenever a cursor advances or
	// detaches; a blocked sender waits on it.
	writerWake chan struct{}
}

// New creates a queue retaining at most capacity items and returns its
// single write endpoint and an attach point for minting read cursors.
func New[V any](capacity int, opts ...Option) (*Sender[V], *AttachPoint[V], error) {
	if capacity < 1 {
		return nil, nil, ErrInvalidCapacity
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	s := &state[V]{
		buf:        make([]V, capacity),
		cursors:    make(map[*Cursor[V]]struct{}),
		attachRefs: 1,
		policy:     o.policy,
		readerWake: make(chan struct{}),
		writerWake: make(chan struct{}),
	}
	return &Sender[V]{st: s}, &AttachPoint[V]{st: s}, nil
}

func (s *state[V]) wakeReaders() {
	close(s.readerWake)
	s.readerWake = make(chan struct{})
}

func (s *state[V]) wakeWriter() {
	close(s.writerWake)
	s.writerWake = make(chan struct{})
}

// minPos returns the position of the slowest attached cursor, or head if
// none is attached. Caller holds mu.
func (s *state[V]) minPos() uint64 {
	min := s.head
	for c := range s.cursors {
		if c.pos < min {
			min = c.pos
		}
	}
	return min
}

// Sender is the exclusive write endpoint of a queue. It is not safe for
// concurrent use; the queue assumes a single writer.
type Sender[V any] struct {
	st   *state[V]
	once sync.Once
}

// Send enqueues v for every attached cursor. It blocks while the queue is
// full relative to the slowest attached cursor (Block policy) until space
// frees up or ctx is done. It fails with ErrNoReaders once no attach point
// and no cursor remain, and with ErrClosed after Close.
func (s *Sender[V]) Send(ctx context.Context, v V) error {
	st := s.st
	for {
		st.mu.Lock()
		if st.closed {
			st.mu.Unlock()
			return ErrClosed
		}
		if st.attachRefs == 0 && len(st.cursors) == 0 {
			st.mu.Unlock()
			return ErrNoReaders
		}
		if st.head-st.tail == uint64(len(st.buf)) {
			// Full. Space frees when the slowest cursor has moved past
			// the tail; otherwise evict or wait per policy.
			if st.minPos() > st.tail || st.policy == DropOldest {
				st.tail++
			} else {
				wake := st.writerWake
				st.mu.Unlock()
				select {
				case <-wake:
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		st.buf[st.head%uint64(len(st.buf))] = v
		st.head++
		st.wakeReaders()
		st.mu.Unlock()
		return nil
	}
}

// Close marks the stream ended. Attached cursors drain the retained
// backlog and then observe end-of-stream. Close is idempotent and never
// blocks.
func (s *Sender[V]) Close() error {
	s.once.Do(func() {
		s.st.mu.Lock()
		s.st.closed = true
		s.st.wakeReaders()
		s.st.wakeWriter()
		s.st.mu.Unlock()
	})
	return nil
}

// Cap returns the queue's retention capacity.
func (s *Sender[V]) Cap() int { return len(s.st.buf) }

// Len returns the number of currently retained items.
func (s *Sender[V]) Len() int {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return int(s.st.head - s.st.tail)
}
