package state

import "sync"

// Cell is an observable value. Subscribers run synchronously on the goroutine
// that changed the value, in registration order, after the lock is released.
type Cell[T any] struct {
	mu      sync.RWMutex
	value   T
	version uint64
	subs    []cellSub[T]
	nextID  uint64
}

type cellSub[T any] struct {
	id uint64
	fn func(T)
}

func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial}
}

func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Version increases by one on every Set or Update.
func (c *Cell[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

func (c *Cell[T]) Set(v T) {
	c.Update(func(T) T { return v })
}

// Update replaces the value with fn(current) atomically.
func (c *Cell[T]) Update(fn func(T) T) {
	c.mu.Lock()
	c.value = fn(c.value)
	c.version++
	v := c.value
	subs := make([]cellSub[T], len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Subscribe registers fn for future changes and returns a func that removes it.
func (c *Cell[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, cellSub[T]{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}
