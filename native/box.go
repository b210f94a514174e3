package native

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/obinnaokechukwu/sfgo/internal/logging"
	"go.uber.org/zap"
)

// Disposer releases one foreign object of type T. Disposal is assumed to
// always succeed.
type Disposer[T any] func(*T)

// Box owns a non-nil pointer to a foreign T.
//
// Close runs the disposer exactly once; later calls are no-ops. A Box that
// becomes unreachable without being closed is disposed by a GC cleanup,
// unless it was created with ThreadAffine, in which case the leak is only
// logged. Relying on the cleanup is a bug: CSFML objects hold GPU and audio
// resources the Go collector knows nothing about.
type Box[T any] struct {
	state   *boxState[T]
	cleanup runtime.Cleanup
}

// boxState is shared between a Box and its GC cleanup. It must never refer
// back to the Box.
type boxState[T any] struct {
	ptr          atomic.Pointer[T]
	dispose      Disposer[T]
	threadAffine bool
}

type boxConfig struct {
	threadAffine bool
}

// BoxOption configures NewBox.
type BoxOption func(*boxConfig)

// ThreadAffine marks the object as usable only from the thread that created
// it. The GC cleanup, which runs on an arbitrary thread, will not dispose it.
func ThreadAffine() BoxOption {
	return func(c *boxConfig) { c.threadAffine = true }
}

var live atomic.Int64

// LiveBoxes returns the number of boxes created and not yet disposed or
// released.
func LiveBoxes() int64 {
	return live.Load()
}

// NewBox takes ownership of raw. It returns false, and never calls dispose,
// when raw is nil: that is how CSFML constructors report failure.
func NewBox[T any](raw *T, dispose Disposer[T], opts ...BoxOption) (*Box[T], bool) {
	if raw == nil {
		return nil, false
	}
	if dispose == nil {
		panic("native: NewBox[" + typeName[T]() + "] without a disposer")
	}

	var cfg boxConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	st := &boxState[T]{dispose: dispose, threadAffine: cfg.threadAffine}
	st.ptr.Store(raw)
	live.Add(1)

	b := &Box[T]{state: st}
	b.cleanup = runtime.AddCleanup(b, (*boxState[T]).collect, st)
	return b, true
}

// Ptr returns the owned pointer. It panics if the box was closed or
// released.
func (b *Box[T]) Ptr() *T {
	p := b.state.ptr.Load()
	if p == nil {
		panic("native: use of closed Box[" + typeName[T]() + "]")
	}
	return p
}

// Closed reports whether the box no longer owns an object.
func (b *Box[T]) Closed() bool {
	return b == nil || b.state.ptr.Load() == nil
}

// Close disposes the object. It is safe to call more than once and from
// several goroutines; exactly one call runs the disposer.
func (b *Box[T]) Close() error {
	if b == nil {
		return nil
	}
	b.cleanup.Stop()
	b.state.disposeOnce()
	return nil
}

// Release gives up ownership and returns the raw pointer without disposing
// it, or nil if the box was already closed. Use it when the foreign side
// takes ownership.
func (b *Box[T]) Release() *T {
	if b == nil {
		return nil
	}
	b.cleanup.Stop()
	p := b.state.ptr.Swap(nil)
	if p != nil {
		live.Add(-1)
	}
	return p
}

// Clone asks the foreign copy constructor for a duplicate and boxes it with
// the same disposer and options. Copy constructors of CSFML types only fail
// on allocation failure, so a nil result panics.
func (b *Box[T]) Clone(copyFn func(*T) *T) *Box[T] {
	raw := copyFn(b.Ptr())
	if raw == nil {
		panic("native: foreign copy of " + typeName[T]() + " failed")
	}
	var opts []BoxOption
	if b.state.threadAffine {
		opts = append(opts, ThreadAffine())
	}
	nb, _ := NewBox(raw, b.state.dispose, opts...)
	return nb
}

// String implements fmt.Stringer.
func (b *Box[T]) String() string {
	if b.Closed() {
		return fmt.Sprintf("Box[%s](closed)", typeName[T]())
	}
	return fmt.Sprintf("Box[%s](%p)", typeName[T](), b.state.ptr.Load())
}

func (st *boxState[T]) disposeOnce() bool {
	p := st.ptr.Swap(nil)
	if p == nil {
		return false
	}
	st.dispose(p)
	live.Add(-1)
	return true
}

func (st *boxState[T]) collect() {
	log := logging.Logger()
	if st.threadAffine {
		if st.ptr.Load() != nil {
			log.Warn("leaked thread-affine object; call Close from its owning thread",
				zap.String("type", typeName[T]()))
		}
		return
	}
	if st.disposeOnce() {
		log.Warn("disposed unreachable object that was never closed",
			zap.String("type", typeName[T]()))
	}
}

func typeName[T any]() string {
	name := reflect.TypeFor[T]().String()
	return strings.TrimPrefix(name, "*")
}
