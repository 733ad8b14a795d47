package repository

import (
	"github.com/google/uuid"
)

// collection keeps records by ID and remembers insertion order for listing.
// Records are copied on the way in and out so callers never alias storage.
type collection[T any] struct {
	items map[string]T
	order []string
	copy  func(T) T
}

func newCollection[T any](copyFn func(T) T) *collection[T] {
	return &collection[T]{
		items: make(map[string]T),
		copy:  copyFn,
	}
}

func newID() string {
	return uuid.NewString()
}

func (c *collection[T]) insert(id string, item T) error {
	if _, ok := c.items[id]; ok {
		return ErrDuplicateID
	}
	c.items[id] = c.copy(item)
	c.order = append(c.order, id)
	return nil
}

func (c *collection[T]) get(id string) (T, error) {
	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return c.copy(item), nil
}

func (c *collection[T]) replace(id string, item T) error {
	if _, ok := c.items[id]; !ok {
		return ErrNotFound
	}
	c.items[id] = c.copy(item)
	return nil
}

// upsert replaces in place, keeping the original position, or appends.
func (c *collection[T]) upsert(id string, item T) {
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = c.copy(item)
}

func (c *collection[T]) remove(id string) error {
	if _, ok := c.items[id]; !ok {
		return ErrNotFound
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *collection[T]) list(keep func(T) bool) []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		item := c.items[id]
		if keep == nil || keep(item) {
			out = append(out, c.copy(item))
		}
	}
	return out
}
