package pubsub

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Tap is a bounded record of the most recently published messages, kept
// for inspection and ops tooling. It observes the publish path only: it
// never affects delivery, ordering, or what a subscription can see.
type Tap[T comparable, M any] struct {
	mu    sync.Mutex
	seq   uint64
	cache *lru.Cache[uint64, Message[T, M]]
}

func newTap[T comparable, M any](size int) (*Tap[T, M], error) {
	cache, err := lru.New[uint64, Message[T, M]](size)
	if err != nil {
		return nil, err
	}
	return &Tap[T, M]{cache: cache}, nil
}

func (t *Tap[T, M]) record(msg Message[T, M]) {
	t.mu.Lock()
	t.cache.Add(t.seq, msg)
	t.seq++
	t.mu.Unlock()
}

// Published returns the total number of messages recorded since the
// channel was created.
func (t *Tap[T, M]) Published() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seq
}

// Recent returns up to n of the most recently published messages, oldest
// first.
func (t *Tap[T, M]) Recent(n int) []Message[T, M] {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n > t.cache.Len() {
		n = t.cache.Len()
	}
	if n <= 0 {
		return nil
	}
	out := make([]Message[T, M], 0, n)
	// Keys are sequential, so the newest Len() entries are the keys
	// [seq-Len, seq). Peek keeps the cache's recency order untouched.
	for i := t.seq - uint64(n); i < t.seq; i++ {
		if msg, ok := t.cache.Peek(i); ok {
			out = append(out, msg)
		}
	}
	return out
}
