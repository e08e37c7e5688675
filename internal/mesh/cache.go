package mesh

import "sync"

// Cache memoizes generated meshes by key so repeated requests for the same
// species/config reuse buffers instead of regenerating them. Entries are
// reference counted: every successful GetOrGenerate call takes a reference,
// and Release drops one; an entry is evicted once its count reaches zero.
// There is no time-based expiry.
//
// Concurrent lookups for the same key never trigger duplicate generation:
// the first caller claims the key and generates, later callers block until
// the result is ready. Unrelated keys generate fully in parallel.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	mesh  *Mesh
	err   error
	refs  int
	ready chan struct{}
}

// NewCache creates an empty mesh cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// GetOrGenerate returns the cached mesh for key, invoking generate exactly
// once per live key on first request. The returned mesh is shared: callers
// must treat it as immutable and call Release(key) when done with it.
// A failed generation is not cached; the error is returned to every caller
// waiting on that attempt and the next request retries.
func (c *Cache) GetOrGenerate(key string, generate func() (*Mesh, error)) (*Mesh, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.refs++
		c.mu.Unlock()

		<-e.ready
		if e.err != nil {
			// The claiming goroutine already removed the entry.
			return nil, e.err
		}
		return e.mesh, nil
	}

	e := &cacheEntry{refs: 1, ready: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	m, err := generate()
	if err != nil {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		e.err = err
		close(e.ready)
		return nil, err
	}

	e.mesh = m
	close(e.ready)
	return m, nil
}

// Release drops one reference to the keyed entry and evicts it when no
// consumer references remain. Releasing an unknown key is a no-op.
func (c *Cache) Release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(c.entries, key)
	}
}

// Contains reports whether the key currently has a live entry.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of live entries, for diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
