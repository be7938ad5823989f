package lazy

import (
	"sync"
	"sync/atomic"
)

// Value holds a single instance built on first use. Concurrent first callers
// block until construction finishes and never observe a partial value.
type Value[T any] struct {
	mu  sync.Mutex
	ptr atomic.Pointer[T]
}

func (v *Value[T]) Get(build func() T) T {
	if p := v.ptr.Load(); p != nil {
		return *p
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if p := v.ptr.Load(); p != nil {
		return *p
	}
	built := build()
	v.ptr.Store(&built)
	return built
}

// Loaded reports whether the instance has been built.
func (v *Value[T]) Loaded() bool {
	return v.ptr.Load() != nil
}
