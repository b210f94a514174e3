// Package mainthread runs functions on the process's main OS thread.
//
// Windowing calls must all happen on one thread, and some platforms (macOS)
// insist that thread is the first one. Importing this package locks the main
// goroutine to the main thread during initialization. Call Run from main
// with the real program; windowing code then goes through Call.
//
//	func main() {
//		mainthread.Run(run)
//	}
//
//	func run() {
//		var w *window.Window
//		mainthread.Call(func() { w, err = window.New(mode, "demo", window.StyleDefault) })
//		...
//	}
package mainthread

import (
	"errors"
	"runtime"
	"sync/atomic"
)

// ErrNotRunning is returned by CallErr when Run is not active.
var ErrNotRunning = errors.New("sfgo: mainthread.Run is not active")

// QueueCapacity is the number of pending calls buffered by Run.
const QueueCapacity = 16

func init() {
	runtime.LockOSThread()
}

// loop is one active Run. stopped is closed once Run has served its last
// call, so callers racing with the end of Run never wait forever.
type loop struct {
	calls   chan func()
	stopped chan struct{}
}

func newLoop() *loop {
	return &loop{
		calls:   make(chan func(), QueueCapacity),
		stopped: make(chan struct{}),
	}
}

var current atomic.Pointer[loop]

// Run executes run on a new goroutine and serves Call requests on the
// calling goroutine until run returns. It must be called from main.
func Run(run func()) {
	l := newLoop()
	current.Store(l)
	defer current.Store(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		run()
	}()
	l.serve(done)
}

func (l *loop) serve(done <-chan struct{}) {
	defer close(l.stopped)
	for {
		select {
		case f := <-l.calls:
			f()
		case <-done:
			// Serve what run queued before it returned.
			for {
				select {
				case f := <-l.calls:
					f()
				default:
					return
				}
			}
		}
	}
}

func (l *loop) call(f func() error) error {
	errc := make(chan error, 1)
	select {
	case l.calls <- func() { errc <- f() }:
	case <-l.stopped:
		return ErrNotRunning
	}
	select {
	case err := <-errc:
		return err
	case <-l.stopped:
		// f may have been served just before the loop stopped.
		select {
		case err := <-errc:
			return err
		default:
			return ErrNotRunning
		}
	}
}

// Call runs f on the main thread and waits for it. It panics if Run is not
// active, since f would otherwise silently run on the wrong thread.
func Call(f func()) {
	if err := CallErr(func() error { f(); return nil }); err != nil {
		panic(err)
	}
}

// CallErr runs f on the main thread and returns its error, or
// ErrNotRunning if Run is not active or stops before serving f.
func CallErr(f func() error) error {
	l := current.Load()
	if l == nil {
		return ErrNotRunning
	}
	return l.call(f)
}

// Running reports whether Run is serving calls.
func Running() bool {
	return current.Load() != nil
}
