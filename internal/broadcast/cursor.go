package broadcast

import (
	"context"
	"sync"
)

// Cursor is a private read position into a queue. Each cursor advances
// independently; it is forward-only and owned by a single reader.
type Cursor[V any] struct {
	st   *state[V]
	once sync.Once

	// pos and skipped are guarded by st.mu.
	pos     uint64
	skipped uint64
	closed  bool
}

// Next returns the next item, blocking until one is available, the queue
// is closed and drained (ErrClosed), or ctx is done. If the cursor fell
// behind the retention window it reports ErrLagged once, repositions at
// the oldest retained item and counts the skip; the following call
// resumes normally.
func (c *Cursor[V]) Next(ctx context.Context) (V, error) {
	var zero V
	st := c.st
	for {
		st.mu.Lock()
		v, ready, err := c.step()
		if ready {
			st.mu.Unlock()
			return v, err
		}
		wake := st.readerWake
		st.mu.Unlock()
		select {
		case <-wake:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// TryNext is the non-blocking variant of Next. It returns ErrEmpty when
// no item is ready and the queue is still open.
func (c *Cursor[V]) TryNext() (V, error) {
	var zero V
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	v, ready, err := c.step()
	if !ready {
		return zero, ErrEmpty
	}
	return v, err
}

// step attempts one read. It returns ready=false only when no item is
// available and the queue is still open. Caller holds st.mu.
func (c *Cursor[V]) step() (v V, ready bool, err error) {
	st := c.st
	if c.closed {
		return v, true, ErrClosed
	}
	if c.pos < st.tail {
		c.skipped += st.tail - c.pos
		c.pos = st.tail
		return v, true, ErrLagged
	}
	if c.pos < st.head {
		v = st.buf[c.pos%uint64(len(st.buf))]
		c.pos++
		st.wakeWriter()
		return v, true, nil
	}
	if st.closed {
		return v, true, ErrClosed
	}
	return v, false, nil
}

// Skipped returns the total number of items this cursor lost to lag.
func (c *Cursor[V]) Skipped() uint64 {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	return c.skipped
}

// Close detaches the cursor, releasing its retention obligation and waking
// a sender blocked on it. Idempotent, never blocks.
func (c *Cursor[V]) Close() error {
	c.once.Do(func() {
		st := c.st
		st.mu.Lock()
		c.closed = true
		delete(st.cursors, c)
		st.wakeWriter()
		st.mu.Unlock()
	})
	return nil
}
