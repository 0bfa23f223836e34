// internal/fetch/tracker.go
package fetch

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned for a fetch whose result arrived after a newer
// fetch of the same view had started.
var ErrSuperseded = errors.New("superseded by a newer request")

// Tracker makes the latest fetch per key win. Starting a fetch cancels the
// one in flight for the same key, and a finished fetch reports whether it is
// still the current one.
type Tracker struct {
	mu      sync.Mutex
	seq     uint64
	current map[string]ticket
}

type ticket struct {
	id     uint64
	cancel context.CancelFunc
}

func NewTracker() *Tracker {
	return &Tracker{current: make(map[string]ticket)}
}

// Begin starts a fetch for key. The returned context is cancelled when a
// newer fetch for key begins; done must be called when the fetch ends and
// reports ErrSuperseded if the result should be discarded.
func (t *Tracker) Begin(ctx context.Context, key string) (context.Context, func() error) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	t.seq++
	id := t.seq
	if prev, ok := t.current[key]; ok {
		prev.cancel()
	}
	t.current[key] = ticket{id: id, cancel: cancel}
	t.mu.Unlock()

	done := func() error {
		t.mu.Lock()
		defer t.mu.Unlock()
		cur, ok := t.current[key]
		if !ok || cur.id != id {
			cancel()
			return ErrSuperseded
		}
		delete(t.current, key)
		cancel()
		return nil
	}
	return ctx, done
}

// InFlight is the number of keys with a running fetch.
func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.current)
}

// Run wraps fn in Begin/done and discards superseded results.
func Run[T any](ctx context.Context, t *Tracker, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	fctx, done := t.Begin(ctx, key)
	v, err := fn(fctx)
	if derr := done(); derr != nil {
		var zero T
		return zero, derr
	}
	return v, err
}
