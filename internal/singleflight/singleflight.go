package singleflight

import (
	"context"
	"sort"
	"sync"
)

// Group tracks in-flight calls by key so that concurrent callers for the same
// key share one execution. Unlike a classic singleflight, the owner drives the
// call explicitly: Join registers (or finds) the call and Settle publishes the
// result and forgets the key in one step.
type Group struct {
	mu sync.Mutex
	m  map[string]*Call
}

// Call is an active call shared between an owner and any number of waiters.
type Call struct {
	done chan struct{}
	val  interface{}
	err  error
}

// New creates a new Group.
func New() *Group {
	return &Group{
		m: make(map[string]*Call),
	}
}

// Join returns the in-flight call for key. When none exists a new call is
// registered and owner is true; the caller must then Settle it.
func (g *Group) Join(key string) (c *Call, owner bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.m[key]; ok {
		return c, false
	}

	c = &Call{done: make(chan struct{})}
	g.m[key] = c
	return c, true
}

// Lookup reports the in-flight call for key without joining it.
func (g *Group) Lookup(key string) (*Call, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.m[key]
	return c, ok
}

// Settle records the result of c, releases every waiter and removes the key.
// The key is only removed while it still points at c, so a call that was
// dropped by Reset never evicts a newer call for the same key.
func (g *Group) Settle(key string, c *Call, val interface{}, err error) {
	g.mu.Lock()
	if g.m[key] == c {
		delete(g.m, key)
	}
	g.mu.Unlock()

	c.val = val
	c.err = err
	close(c.done)
}

// Reset forgets every in-flight call. Calls already running still settle for
// the callers that joined them.
func (g *Group) Reset() {
	g.mu.Lock()
	g.m = make(map[string]*Call)
	g.mu.Unlock()
}

// Keys returns the keys of all in-flight calls, sorted.
func (g *Group) Keys() []string {
	g.mu.Lock()
	keys := make([]string, 0, len(g.m))
	for k := range g.m {
		keys = append(keys, k)
	}
	g.mu.Unlock()

	sort.Strings(keys)
	return keys
}

// Len returns the number of in-flight calls.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.m)
}

// Wait blocks until the call settles or ctx is done. Leaving early does not
// affect the call itself.
func (c *Call) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done is closed once the call has settled.
func (c *Call) Done() <-chan struct{} {
	return c.done
}
