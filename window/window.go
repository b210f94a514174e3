//go:build !ios && !android && (amd64 || arm64)

// Package window wraps csfml-window.
//
// Every window call must come from the same OS thread: the first successful
// New claims the calling thread for the process, and any later windowing
// call from another thread terminates the process with a diagnostic. Lock
// the thread first, either with runtime.LockOSThread in an init function of
// package main or by routing calls through package mainthread.
package window

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/obinnaokechukwu/sfgo/internal/affinity"
	"github.com/obinnaokechukwu/sfgo/internal/logging"
	"github.com/obinnaokechukwu/sfgo/native"
	"go.uber.org/zap"
)

// Style is a combination of window decoration flags.
type Style uint32

const (
	StyleNone       Style = 0
	StyleTitlebar   Style = 1 << 0
	StyleResize     Style = 1 << 1
	StyleClose      Style = 1 << 2
	StyleFullscreen Style = 1 << 3

	StyleDefault = StyleTitlebar | StyleResize | StyleClose
)

// EventType identifies a window event.
type EventType int32

const (
	EventClosed EventType = iota
	EventResized
	EventLostFocus
	EventGainedFocus
	EventTextEntered
	EventKeyPressed
	EventKeyReleased
	EventMouseWheelMoved
	EventMouseWheelScrolled
	EventMouseButtonPressed
	EventMouseButtonReleased
	EventMouseMoved
	EventMouseEntered
	EventMouseLeft
)

// sfEvent is a union of at most 28 bytes in CSFML 2.5 and 2.6; the type tag
// is its first field.
type sfEvent struct {
	typ EventType
	_   [15]int32
}

type sfWindow struct{ _ [0]byte }

// Window is an OS window with an OpenGL context.
type Window struct {
	box   *native.Box[sfWindow]
	title string
}

func destroyWindow(w *sfWindow) {
	sfWindowDestroy(unsafe.Pointer(w))
}

// LockMainThread wires the calling goroutine to its OS thread and claims
// that thread for windowing. It terminates the process if another thread
// already holds the claim. Call it from an init function in package main.
func LockMainThread() {
	runtime.LockOSThread()
	affinity.Claim("window.LockMainThread")
}

// New creates a window and makes the calling thread the windowing thread if
// none has been recorded yet.
func New(mode VideoMode, title string, style Style) (*Window, error) {
	affinity.Assert("window.New")
	if err := ensureLoaded(); err != nil {
		return nil, err
	}

	raw, err := createWindow(mode, title, style)
	if err != nil {
		return nil, err
	}
	box, ok := native.NewBox((*sfWindow)(raw), destroyWindow, native.ThreadAffine())
	if !ok {
		return nil, fmt.Errorf("%w: sfWindow_create %v %q", native.ErrCreateFailed, mode, title)
	}
	affinity.Claim("window.New")

	logging.Logger().Debug("window created",
		zap.Stringer("mode", mode), zap.String("title", title), zap.Uint32("style", uint32(style)))
	return &Window{box: box, title: title}, nil
}

func (w *Window) ptr(op string) unsafe.Pointer {
	affinity.Assert(op)
	return unsafe.Pointer(w.box.Ptr())
}

// Close closes the OS window. The Window stays valid and IsOpen reports
// false; Destroy releases it.
func (w *Window) Close() {
	sfWindowClose(w.ptr("Window.Close"))
}

// IsOpen reports whether the OS window is open.
func (w *Window) IsOpen() bool {
	return sfWindowIsOpen(w.ptr("Window.IsOpen")) != 0
}

// Display shows what has been rendered since the last call.
func (w *Window) Display() {
	sfWindowDisplay(w.ptr("Window.Display"))
}

// Title returns the title last set through this Window.
func (w *Window) Title() string {
	return w.title
}

// SetTitle changes the title bar text.
func (w *Window) SetTitle(title string) {
	sfWindowSetTitle(w.ptr("Window.SetTitle"), title)
	w.title = title
}

// SetVisible shows or hides the window.
func (w *Window) SetVisible(visible bool) {
	sfWindowSetVisible(w.ptr("Window.SetVisible"), sfBool(visible))
}

// SetVerticalSync enables or disables vertical synchronization.
func (w *Window) SetVerticalSync(enabled bool) {
	sfWindowSetVerticalSyncEnabled(w.ptr("Window.SetVerticalSync"), sfBool(enabled))
}

// SetFramerateLimit caps Display to limit frames per second; 0 removes the
// cap.
func (w *Window) SetFramerateLimit(limit uint32) {
	sfWindowSetFramerateLimit(w.ptr("Window.SetFramerateLimit"), limit)
}

// PollEvent pops the next pending event. ok is false when the queue is
// empty.
func (w *Window) PollEvent() (typ EventType, ok bool) {
	var ev sfEvent
	if sfWindowPollEvent(w.ptr("Window.PollEvent"), unsafe.Pointer(&ev)) == 0 {
		return 0, false
	}
	return ev.typ, true
}

// Destroy releases the window. Calling it again does nothing; any other
// method panics afterwards.
func (w *Window) Destroy() error {
	if w.box.Closed() {
		return nil
	}
	affinity.Assert("Window.Destroy")
	return w.box.Close()
}

// Destroyed reports whether Destroy has run.
func (w *Window) Destroyed() bool {
	return w.box.Closed()
}
