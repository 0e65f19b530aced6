// Package registry holds the ordered handle collections a tick machine keeps
// for its signals and bindings.
//
// Storage grows and shrinks in blocks of BlockSize slots. Removal keeps the
// order of the remaining items, and removing the last item releases the
// backing array entirely.
package registry

import (
	"errors"
	"iter"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// BlockSize is the number of slots storage grows or shrinks by.
const BlockSize = 32

var (
	// ErrFull is returned by Add when growing would exceed the slot limit.
	ErrFull = errors.New("registry: slot limit reached")
	// ErrDuplicate is returned by Add when the item is already stored.
	ErrDuplicate = errors.New("registry: item already present")
)

type Option func(*options)

type options struct {
	limit int
}

// WithLimit caps the number of slots the registry may allocate. Zero means
// unbounded.
func WithLimit(slots int) Option {
	return func(o *options) {
		o.limit = slots
	}
}

// Registry is an ordered set of comparable handles. It is not safe for
// concurrent use.
type Registry[T comparable] struct {
	items []T
	index mapset.Set[T]
	limit int
}

func New[T comparable](opts ...Option) *Registry[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry[T]{
		index: mapset.NewThreadUnsafeSet[T](),
		limit: o.limit,
	}
}

func (r *Registry[T]) Len() int {
	return len(r.items)
}

// Cap reports the allocated slot count, always a multiple of BlockSize.
func (r *Registry[T]) Cap() int {
	return cap(r.items)
}

func (r *Registry[T]) Contains(item T) bool {
	return r.index.Contains(item)
}

// Add appends item and returns it. On error the registry is left unchanged.
func (r *Registry[T]) Add(item T) (T, error) {
	var zero T
	if item == zero {
		panic("registry: zero item")
	}
	if r.index.Contains(item) {
		return zero, ErrDuplicate
	}
	if len(r.items) >= cap(r.items) {
		if err := r.grow(); err != nil {
			return zero, err
		}
	}
	r.items = append(r.items, item)
	r.index.Add(item)
	return item, nil
}

func (r *Registry[T]) grow() error {
	size := cap(r.items) + BlockSize
	if r.limit > 0 && size > r.limit {
		return ErrFull
	}
	items := make([]T, len(r.items), size)
	copy(items, r.items)
	r.items = items
	return nil
}

func (r *Registry[T]) shrink() {
	items := make([]T, len(r.items), cap(r.items)-BlockSize)
	copy(items, r.items)
	r.items = items
}

// Remove deletes item, keeping the order of the rest. It reports whether the
// item was found.
func (r *Registry[T]) Remove(item T) bool {
	if !r.index.Contains(item) {
		return false
	}
	i := slices.Index(r.items, item)
	r.items = slices.Delete(r.items, i, i+1)
	r.index.Remove(item)

	switch {
	case len(r.items) == 0:
		r.Flush()
	case len(r.items) < cap(r.items)-BlockSize:
		r.shrink()
	}
	return true
}

// Next returns the item at *cursor and advances it. The cursor is owned by
// the caller, so a traversal sees items added behind it while it runs.
func (r *Registry[T]) Next(cursor *int) (T, bool) {
	if *cursor >= len(r.items) {
		var zero T
		return zero, false
	}
	item := r.items[*cursor]
	*cursor++
	return item, true
}

func (r *Registry[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for cursor := 0; ; {
			item, ok := r.Next(&cursor)
			if !ok || !yield(item) {
				return
			}
		}
	}
}

// Flush drops the backing storage. The items themselves are left to the
// caller.
func (r *Registry[T]) Flush() {
	r.items = nil
	r.index.Clear()
}
