//go:build !ios && !android && (amd64 || arm64)

package window

import (
	"fmt"
	"unsafe"

	"github.com/obinnaokechukwu/sfgo/internal/shim"
	"github.com/obinnaokechukwu/sfgo/native"
)

// VideoMode has the layout of sfVideoMode.
type VideoMode struct {
	Width        uint32
	Height       uint32
	BitsPerPixel uint32
}

// NewVideoMode returns a 32-bit mode of the given size.
func NewVideoMode(width, height uint32) VideoMode {
	return VideoMode{Width: width, Height: height, BitsPerPixel: 32}
}

func (m VideoMode) String() string {
	return fmt.Sprintf("%dx%d@%dbpp", m.Width, m.Height, m.BitsPerPixel)
}

// IsValid reports whether the mode can be used for a fullscreen window.
func (m VideoMode) IsValid() (bool, error) {
	if err := ensureLoaded(); err != nil {
		return false, err
	}
	if sfVideoModeIsValid != nil {
		return sfVideoModeIsValid(m) != 0, nil
	}
	return shim.VideoModeIsValid(m.Width, m.Height, m.BitsPerPixel)
}

// DesktopMode returns the current desktop video mode.
func DesktopMode() (VideoMode, error) {
	if err := ensureLoaded(); err != nil {
		return VideoMode{}, err
	}
	if sfVideoModeGetDesktopMode != nil {
		return sfVideoModeGetDesktopMode(), nil
	}
	var m VideoMode
	if err := shim.VideoModeDesktop(unsafe.Pointer(&m)); err != nil {
		return VideoMode{}, err
	}
	return m, nil
}

// modeVector is the shim's std::vector<sfVideoMode>.
type modeVector struct{ _ [0]byte }

var modeVectorAccessor = native.Accessor[modeVector, VideoMode]{
	Data: func(v *modeVector) *VideoMode {
		return (*VideoMode)(shim.VideoModeVectorData(unsafe.Pointer(v)))
	},
	Len: func(v *modeVector) int {
		return shim.VideoModeVectorLength(unsafe.Pointer(v))
	},
	Dispose: func(v *modeVector) {
		shim.VideoModeVectorDestroy(unsafe.Pointer(v))
	},
}

// ModeList owns the list of fullscreen modes, best first. View exposes the
// modes without copying until Close.
type ModeList struct {
	*native.Container[modeVector, VideoMode]
}

// FullscreenModeList returns the fullscreen modes in shim-owned storage.
// It needs the sfshim helper; FullscreenModes does not.
func FullscreenModeList() (*ModeList, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	raw, err := shim.VideoModeVectorFullscreen()
	if err != nil {
		return nil, err
	}
	c, ok := native.NewContainer((*modeVector)(raw), &modeVectorAccessor)
	if !ok {
		return nil, fmt.Errorf("%w: sfshim_videomode_vector_fullscreen", native.ErrCreateFailed)
	}
	return &ModeList{Container: c}, nil
}

// FullscreenModes returns a copy of the supported fullscreen modes, best
// first.
func FullscreenModes() ([]VideoMode, error) {
	if list, err := FullscreenModeList(); err == nil {
		defer list.Close()
		return list.View().Copy(), nil
	}
	if err := ensureLoaded(); err != nil {
		return nil, err
	}

	// CSFML's own array is static storage, borrowed.
	var count uintptr
	first := (*VideoMode)(sfVideoModeGetFullscreenModes(&count))
	if first == nil || count == 0 {
		return []VideoMode{}, nil
	}
	return append([]VideoMode(nil), unsafe.Slice(first, count)...), nil
}
