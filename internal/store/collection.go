package store

import (
	"sync"

	"github.com/dennisdiepolder/monti/dashboard/internal/types"
)

// Collection holds the canonical records of one entity kind. Every accessor
// copies records in and out, so callers never hold references into it.
type Collection[T types.Entity[T]] struct {
	records []T
	mu      sync.RWMutex
}

// NewCollection creates a collection seeded with copies of records
func NewCollection[T types.Entity[T]](records []T) *Collection[T] {
	c := &Collection[T]{}
	c.Replace(records)
	return c
}

// All returns a snapshot of every record in insertion order
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r.Clone())
	}
	return out
}

// Get returns a copy of the record with the given id
func (c *Collection[T]) Get(id int) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.index(id); i >= 0 {
		return c.records[i].Clone(), true
	}
	var zero T
	return zero, false
}

// Insert assigns the next identifier to record, appends it and returns a copy
func (c *Collection[T]) Insert(record T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := record.WithID(c.nextID()).Clone()
	c.records = append(c.records, stored)
	return stored.Clone()
}

// Update replaces the record with the given id by fn(current). The
// identifier is preserved whatever fn returns. fn runs under the write lock
// and must not call back into the collection. A non-nil error from fn leaves
// the record unchanged.
func (c *Collection[T]) Update(id int, fn func(T) (T, error)) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	i := c.index(id)
	if i < 0 {
		return zero, false, nil
	}

	next, err := fn(c.records[i].Clone())
	if err != nil {
		return zero, true, err
	}
	c.records[i] = next.WithID(id).Clone()
	return c.records[i].Clone(), true, nil
}

// Remove deletes the record with the given id and returns it
func (c *Collection[T]) Remove(id int) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	i := c.index(id)
	if i < 0 {
		return zero, false
	}
	removed := c.records[i]
	c.records = append(c.records[:i], c.records[i+1:]...)
	return removed, true
}

// Len returns the number of records
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Replace swaps the whole contents for copies of records and returns the
// number of records that were dropped
func (c *Collection[T]) Replace(records []T) int {
	fresh := make([]T, 0, len(records))
	for _, r := range records {
		fresh = append(fresh, r.Clone())
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := len(c.records)
	c.records = fresh
	return dropped
}

// nextID is max(id)+1, or 1 for an empty collection. Caller holds the lock.
func (c *Collection[T]) nextID() int {
	highest := 0
	for _, r := range c.records {
		if id := r.EntityID(); id > highest {
			highest = id
		}
	}
	return highest + 1
}

func (c *Collection[T]) index(id int) int {
	for i, r := range c.records {
		if r.EntityID() == id {
			return i
		}
	}
	return -1
}
