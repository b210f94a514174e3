//go:build !ios && !android && (amd64 || arm64)

package sfgo

import (
	"github.com/obinnaokechukwu/sfgo/internal/bindings"
	"github.com/obinnaokechukwu/sfgo/internal/shim"
	"github.com/obinnaokechukwu/sfgo/native"
	"github.com/obinnaokechukwu/sfgo/system"
)

// Common errors
var (
	// ErrNotLoaded indicates the CSFML libraries are not loaded.
	ErrNotLoaded = bindings.ErrNotLoaded

	// ErrLibraryNotFound indicates a CSFML library could not be found.
	ErrLibraryNotFound = bindings.ErrLibraryNotFound

	// ErrShimNotLoaded indicates a feature needs the sfshim helper.
	ErrShimNotLoaded = shim.ErrShimNotLoaded

	// ErrCreateFailed indicates a CSFML constructor returned null, for
	// example because a file could not be decoded.
	ErrCreateFailed = native.ErrCreateFailed

	// ErrClosed indicates the resource has been closed.
	ErrClosed = native.ErrClosed

	// ErrNilSource indicates a nil reader was given as a stream source.
	ErrNilSource = system.ErrNilSource
)
