//go:build !ios && !android && (amd64 || arm64)

// Package sfgo provides bindings to CSFML, the C API of SFML, without cgo.
//
// The work happens in the subpackages: window, graphics and audio wrap the
// corresponding CSFML modules, system adapts Go readers to CSFML input
// streams, and native holds the ownership types everything is built on.
// This package loads the libraries and reports on them.
//
// Programs that open windows must keep every windowing call on one OS
// thread; see package window and package mainthread.
package sfgo

import (
	"fmt"
	"strings"

	"github.com/obinnaokechukwu/sfgo/audio"
	"github.com/obinnaokechukwu/sfgo/graphics"
	"github.com/obinnaokechukwu/sfgo/internal/affinity"
	"github.com/obinnaokechukwu/sfgo/internal/bindings"
	"github.com/obinnaokechukwu/sfgo/internal/shim"
	"github.com/obinnaokechukwu/sfgo/native"
	"github.com/obinnaokechukwu/sfgo/system"
	"github.com/obinnaokechukwu/sfgo/window"
)

// Init loads the CSFML libraries and, when present, the sfshim helper.
// Packages load what they need on first import, so calling Init is only
// required to surface load errors early. It is safe to call multiple times.
func Init() error {
	if err := bindings.Load(); err != nil {
		return err
	}
	return shim.Load()
}

// IsLoaded returns true if csfml-system was loaded.
func IsLoaded() bool {
	return bindings.IsLoaded()
}

// Module is one CSFML library.
type Module = bindings.Library

const (
	ModuleSystem   = bindings.System
	ModuleWindow   = bindings.Window
	ModuleGraphics = bindings.Graphics
	ModuleAudio    = bindings.Audio
)

// Modules lists every CSFML module in load order.
var Modules = []Module{ModuleSystem, ModuleWindow, ModuleGraphics, ModuleAudio}

// Available reports whether a module was loaded.
func Available(m Module) bool {
	return bindings.Has(m)
}

// Version returns the CSFML release of the loaded csfml-system, as declared
// by its file name, or "" when it cannot be told.
func Version() string {
	return bindings.Version(bindings.System)
}

// ModuleStatus describes one loaded, or missing, library.
type ModuleStatus struct {
	Name    string
	Loaded  bool
	Path    string
	Version string
}

// Status summarizes what was loaded and what is live.
type Status struct {
	Modules []ModuleStatus
	Shim    string

	// LiveObjects counts native objects created and not yet released.
	LiveObjects int64

	// WindowThread is the OS thread that owns windowing, if claimed.
	WindowThread  uint64
	ThreadClaimed bool
}

// CurrentStatus reports the library and resource state.
func CurrentStatus() Status {
	st := Status{
		Shim:        shim.Status(),
		LiveObjects: native.LiveBoxes(),
	}
	st.WindowThread, st.ThreadClaimed = affinity.Owner()
	for _, m := range Modules {
		st.Modules = append(st.Modules, ModuleStatus{
			Name:    m.String(),
			Loaded:  bindings.Has(m),
			Path:    bindings.Path(m),
			Version: bindings.Version(m),
		})
	}
	return st
}

func (s Status) String() string {
	var b strings.Builder
	for _, m := range s.Modules {
		if !m.Loaded {
			fmt.Fprintf(&b, "%-15s not loaded\n", m.Name)
			continue
		}
		fmt.Fprintf(&b, "%-15s %s", m.Name, m.Path)
		if m.Version != "" {
			fmt.Fprintf(&b, " (%s)", m.Version)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%-15s %s\n", "sfshim", s.Shim)
	fmt.Fprintf(&b, "%-15s %d\n", "live objects", s.LiveObjects)
	if s.ThreadClaimed {
		fmt.Fprintf(&b, "%-15s %d\n", "window thread", s.WindowThread)
	}
	return b.String()
}

// Re-exported types for convenience.
type (
	// InputStream feeds CSFML from an io.ReadSeeker.
	InputStream = system.InputStream

	// VideoMode is a window size and color depth.
	VideoMode = window.VideoMode

	// Window is an OS window.
	Window = window.Window

	// Texture is an image on the graphics card.
	Texture = graphics.Texture

	// Font is a typeface.
	Font = graphics.Font

	// SoundBuffer holds decoded samples.
	SoundBuffer = audio.SoundBuffer

	// Music streams audio from its source.
	Music = audio.Music
)
