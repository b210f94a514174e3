package native

import (
	"iter"
	"slices"
	"unsafe"
)

// Accessor binds the foreign functions exposing a container C whose storage
// is a contiguous run of T.
//
// Data and Len must call the foreign query functions that belong to C, and T
// must have exactly the foreign element layout. Dispose frees the container
// and is only used when the container itself is owned (see Container); a
// View never disposes anything.
//
// Data may return nil when Len is zero.
type Accessor[C, T any] struct {
	Data    func(*C) *T
	Len     func(*C) int
	Dispose Disposer[C]
}

// View is a read-only, non-owning window onto a foreign container.
//
// The data pointer and length are queried again on every access, so a View
// stays correct when the foreign side grows or shrinks the container between
// calls. A View, and every slice obtained from it, must not outlive the
// container, and the slices must not be written to. Any number of views may
// refer to the same container.
type View[C, T any] struct {
	src *C
	acc *Accessor[C, T]
}

// NewView borrows src through acc. A nil src yields an empty view.
func NewView[C, T any](src *C, acc *Accessor[C, T]) View[C, T] {
	return View[C, T]{src: src, acc: acc}
}

// Len returns the current element count.
func (v View[C, T]) Len() int {
	if v.src == nil || v.acc == nil {
		return 0
	}
	n := v.acc.Len(v.src)
	if n < 0 {
		return 0
	}
	return n
}

// Slice returns the container's storage without copying. An empty container
// yields an empty, non-nil slice.
func (v View[C, T]) Slice() []T {
	n := v.Len()
	if n == 0 {
		return []T{}
	}
	p := v.acc.Data(v.src)
	if p == nil {
		return []T{}
	}
	return unsafe.Slice(p, n)
}

// At returns element i. It panics if i is out of range.
func (v View[C, T]) At(i int) T {
	return v.Slice()[i]
}

// Copy returns the elements in Go memory, safe to keep after the container
// is gone.
func (v View[C, T]) Copy() []T {
	return slices.Clone(v.Slice())
}

// All iterates over the elements in order.
func (v View[C, T]) All() iter.Seq2[int, T] {
	return slices.All(v.Slice())
}

// Container is an owned foreign container: a Box that also knows how to view
// its contents.
type Container[C, T any] struct {
	*Box[C]
	acc *Accessor[C, T]
}

// NewContainer takes ownership of raw, which acc.Dispose will free. It
// returns false when raw is nil.
func NewContainer[C, T any](raw *C, acc *Accessor[C, T]) (*Container[C, T], bool) {
	b, ok := NewBox(raw, acc.Dispose)
	if !ok {
		return nil, false
	}
	return &Container[C, T]{Box: b, acc: acc}, true
}

// View borrows the container's contents. The view is valid until Close.
func (c *Container[C, T]) View() View[C, T] {
	return NewView(c.Ptr(), c.acc)
}

// Clone copies the container with the foreign copy function. Like
// Box.Clone it panics if the copy fails.
func (c *Container[C, T]) Clone(copyFn func(*C) *C) *Container[C, T] {
	return &Container[C, T]{Box: c.Box.Clone(copyFn), acc: c.acc}
}

// Text interprets a byte view as a string, copying it into Go memory.
func Text[C any](v View[C, byte]) string {
	return string(v.Slice())
}
