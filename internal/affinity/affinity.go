//go:build !ios && !android && (amd64 || arm64)

// Package affinity records which OS thread owns the windowing resources.
//
// SFML windows and their OpenGL contexts may only be touched from the thread
// that created them. The first window creation claims the calling thread for
// the rest of the process; every later windowing operation asserts it runs
// on that thread. A violation terminates the process: nothing the native
// library does on the wrong thread is defined, so there is no safe way to
// carry on.
//
// The owner is process-wide state: written at most once, read on every
// guarded call, never reset.
//
// Goroutines move between OS threads. Programs that create windows must pin
// the goroutine doing so, normally by calling runtime.LockOSThread from an
// init function in package main so that main runs on the process's first
// thread.
package affinity

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/obinnaokechukwu/sfgo/internal/logging"
	"github.com/obinnaokechukwu/sfgo/internal/platform"
	"go.uber.org/zap"
)

// owner is 0 while unclaimed. Thread ids are never 0 on supported platforms.
var owner atomic.Uint64

// die ends the process. Tests replace it.
var die = func(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(2)
}

// Claim makes the calling thread the windowing thread if none is recorded
// yet. Claiming again from the owning thread is a no-op; claiming from any
// other thread terminates the process. op names the operation for the
// diagnostic.
func Claim(op string) {
	tid := platform.ThreadID()
	if owner.CompareAndSwap(0, tid) {
		logging.Logger().Debug("windowing thread claimed",
			zap.String("op", op), zap.Uint64("thread", tid))
		return
	}
	if owned := owner.Load(); owned != tid {
		violation(op, tid, owned)
	}
}

// Assert terminates the process if a windowing thread is recorded and the
// caller is not on it. Before any Claim it does nothing.
func Assert(op string) {
	owned := owner.Load()
	if owned == 0 {
		return
	}
	if tid := platform.ThreadID(); tid != owned {
		violation(op, tid, owned)
	}
}

// Owner returns the recorded windowing thread, if any.
func Owner() (uint64, bool) {
	owned := owner.Load()
	return owned, owned != 0
}

func violation(op string, tid, owned uint64) {
	msg := fmt.Sprintf("sfgo: %s called from thread %d, but windowing resources belong to thread %d; "+
		"lock the windowing goroutine with runtime.LockOSThread", op, tid, owned)
	logging.Logger().Error("thread affinity violated",
		zap.String("op", op), zap.Uint64("thread", tid), zap.Uint64("owner", owned))
	die(msg)
	// die must not return.
	panic(msg)
}
