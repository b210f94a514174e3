//go:build !ios && !android && (amd64 || arm64)

package graphics

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/sfgo/internal/bindings"
	"github.com/obinnaokechukwu/sfgo/internal/shim"
)

// Function bindings, registered by registerBindings. The trailing area
// arguments are const sfIntRect*, always nil here (whole image).
var (
	sfTextureCreateFromFile   func(path string, area unsafe.Pointer) unsafe.Pointer
	sfTextureCreateFromMemory func(data unsafe.Pointer, size uintptr, area unsafe.Pointer) unsafe.Pointer
	sfTextureCreateFromStream func(stream unsafe.Pointer, area unsafe.Pointer) unsafe.Pointer
	sfTextureCopy             func(t unsafe.Pointer) unsafe.Pointer
	sfTextureDestroy          func(t unsafe.Pointer)
	sfTextureSetSmooth        func(t unsafe.Pointer, smooth int32)
	sfTextureIsSmooth         func(t unsafe.Pointer) int32
	sfTextureGetMaximumSize   func() uint32

	sfFontCreateFromFile   func(path string) unsafe.Pointer
	sfFontCreateFromMemory func(data unsafe.Pointer, size uintptr) unsafe.Pointer
	sfFontCreateFromStream func(stream unsafe.Pointer) unsafe.Pointer
	sfFontCopy             func(f unsafe.Pointer) unsafe.Pointer
	sfFontDestroy          func(f unsafe.Pointer)

	// sfFont_getInfo returns sfFontInfo, a struct holding one const char*.
	// Every supported ABI returns such a struct in the first integer
	// register, so it is bound as returning the pointer itself.
	sfFontGetInfo func(f unsafe.Pointer) *byte

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
	lib := bindings.Lib(bindings.Graphics)
	if lib == 0 {
		return
	}
	_ = shim.Load()

	purego.RegisterLibFunc(&sfTextureCreateFromFile, lib, "sfTexture_createFromFile")
	purego.RegisterLibFunc(&sfTextureCreateFromMemory, lib, "sfTexture_createFromMemory")
	purego.RegisterLibFunc(&sfTextureCreateFromStream, lib, "sfTexture_createFromStream")
	purego.RegisterLibFunc(&sfTextureCopy, lib, "sfTexture_copy")
	purego.RegisterLibFunc(&sfTextureDestroy, lib, "sfTexture_destroy")
	purego.RegisterLibFunc(&sfTextureSetSmooth, lib, "sfTexture_setSmooth")
	purego.RegisterLibFunc(&sfTextureIsSmooth, lib, "sfTexture_isSmooth")
	purego.RegisterLibFunc(&sfTextureGetMaximumSize, lib, "sfTexture_getMaximumSize")

	purego.RegisterLibFunc(&sfFontCreateFromFile, lib, "sfFont_createFromFile")
	purego.RegisterLibFunc(&sfFontCreateFromMemory, lib, "sfFont_createFromMemory")
	purego.RegisterLibFunc(&sfFontCreateFromStream, lib, "sfFont_createFromStream")
	purego.RegisterLibFunc(&sfFontCopy, lib, "sfFont_copy")
	purego.RegisterLibFunc(&sfFontDestroy, lib, "sfFont_destroy")
	bindings.RegisterOptional(&sfFontGetInfo, lib, "sfFont_getInfo")

	bindingsRegistered = true
}

// ensureLoaded registers the bindings on first use, so SFGO_LIB_DIR may be
// set any time before then. It reports why the graphics bindings are unusable,
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
	return fmt.Errorf("%w: %s", bindings.ErrLibraryNotFound, bindings.Graphics)
}

func sfBool(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// bytesPointer returns the address of b's first byte, or nil when b is empty.
func bytesPointer(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}
