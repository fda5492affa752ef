package broadcast

import "sync"

// AttachPoint mints new read cursors into a queue. Handles are
// reference-counted: once every handle is closed and every cursor
// released, the sender's Send fails with ErrNoReaders because no reader
// can ever attach again.
type AttachPoint[V any] struct {
	st   *state[V]
	once sync.Once
}

// Attach returns a new cursor positioned at the queue's current head, so
// it observes only items sent after this call. Attaching to a closed and
// drained queue is allowed; the cursor is born exhausted.
func (a *AttachPoint[V]) Attach() *Cursor[V] {
	st := a.st
	st.mu.Lock()
	defer st.mu.Unlock()
	c := &Cursor[V]{st: st, pos: st.head}
	st.cursors[c] = struct{}{}
	return c
}

// Clone duplicates the capability to mint cursors without duplicating any
// existing cursor's state. The clone must be closed independently.
func (a *AttachPoint[V]) Clone() *AttachPoint[V] {
	st := a.st
	st.mu.Lock()
	st.attachRefs++
	st.mu.Unlock()
	return &AttachPoint[V]{st: st}
}

// Close releases this handle's mint capability. Cursors already attached
// are unaffected. Idempotent.
func (a *AttachPoint[V]) Close() error {
	a.once.Do(func() {
		a.st.mu.Lock()
		a.st.attachRefs--
		// A sender blocked on backpressure must re-check whether any
		// reader can still exist.
		a.st.wakeWriter()
		a.st.mu.Unlock()
	})
	return nil
}
