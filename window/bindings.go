//go:build !ios && !android && (amd64 || arm64)

package window

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/sfgo/internal/bindings"
	"github.com/obinnaokechukwu/sfgo/internal/platform"
	"github.com/obinnaokechukwu/sfgo/internal/shim"
)

// Function bindings, registered by registerBindings.
var (
	sfWindowDestroy                func(w unsafe.Pointer)
	sfWindowClose                  func(w unsafe.Pointer)
	sfWindowIsOpen                 func(w unsafe.Pointer) int32
	sfWindowDisplay                func(w unsafe.Pointer)
	sfWindowSetTitle               func(w unsafe.Pointer, title string)
	sfWindowSetVisible             func(w unsafe.Pointer, visible int32)
	sfWindowSetVerticalSyncEnabled func(w unsafe.Pointer, enabled int32)
	sfWindowSetFramerateLimit      func(w unsafe.Pointer, limit uint32)
	sfWindowPollEvent              func(w unsafe.Pointer, event unsafe.Pointer) int32

	sfVideoModeGetFullscreenModes func(count *uintptr) unsafe.Pointer

	// Darwin only; elsewhere these go through the shim.
	sfWindowCreate            func(mode VideoMode, title string, style uint32, settings unsafe.Pointer) unsafe.Pointer
	sfVideoModeGetDesktopMode func() VideoMode
	sfVideoModeIsValid        func(mode VideoMode) int32

	// createWindow is sfWindow_create with the mode flattened, whichever
	// route this platform has.
	createWindow func(mode VideoMode, title string, style Style) (unsafe.Pointer, error)

	bindingsMu         sync.Mutex
	bindingsRegistered bool
)

func registerBindings() {
	bindingsMu.Lock()
	defer bindingsMu.Unlock()
	if bindingsRegistered {
		return
	}

	if err := bindings.Load(); err != nil {
		return // reported by ensureLoaded
	}
	lib := bindings.Lib(bindings.Window)
	if lib == 0 {
		return
	}
	_ = shim.Load()

	purego.RegisterLibFunc(&sfWindowDestroy, lib, "sfWindow_destroy")
	purego.RegisterLibFunc(&sfWindowClose, lib, "sfWindow_close")
	purego.RegisterLibFunc(&sfWindowIsOpen, lib, "sfWindow_isOpen")
	purego.RegisterLibFunc(&sfWindowDisplay, lib, "sfWindow_display")
	purego.RegisterLibFunc(&sfWindowSetTitle, lib, "sfWindow_setTitle")
	purego.RegisterLibFunc(&sfWindowSetVisible, lib, "sfWindow_setVisible")
	purego.RegisterLibFunc(&sfWindowSetVerticalSyncEnabled, lib, "sfWindow_setVerticalSyncEnabled")
	purego.RegisterLibFunc(&sfWindowSetFramerateLimit, lib, "sfWindow_setFramerateLimit")
	purego.RegisterLibFunc(&sfWindowPollEvent, lib, "sfWindow_pollEvent")
	purego.RegisterLibFunc(&sfVideoModeGetFullscreenModes, lib, "sfVideoMode_getFullscreenModes")

	if platform.SupportsStructByValue {
		purego.RegisterLibFunc(&sfWindowCreate, lib, "sfWindow_create")
		purego.RegisterLibFunc(&sfVideoModeGetDesktopMode, lib, "sfVideoMode_getDesktopMode")
		purego.RegisterLibFunc(&sfVideoModeIsValid, lib, "sfVideoMode_isValid")
		createWindow = func(mode VideoMode, title string, style Style) (unsafe.Pointer, error) {
			return sfWindowCreate(mode, title, uint32(style), nil), nil
		}
	} else {
		createWindow = func(mode VideoMode, title string, style Style) (unsafe.Pointer, error) {
			return shim.WindowCreate(mode.Width, mode.Height, mode.BitsPerPixel, title, uint32(style))
		}
	}

	bindingsRegistered = true
}

// ensureLoaded registers the bindings on first use, so SFGO_LIB_DIR may be
// set any time before then. It reports why the window bindings are unusable,
// if they are.
func ensureLoaded() error {
	registerBindings()
	bindingsMu.Lock()
	defer bindingsMu.Unlock()
	if bindingsRegistered {
		return nil
	}
	if err := bindings.Load(); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", bindings.ErrLibraryNotFound, bindings.Window)
}

func sfBool(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
