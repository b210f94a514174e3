//go:build !ios && !android && (amd64 || arm64)

// Package graphics wraps the parts of csfml-graphics that load resources:
// textures and fonts.
package graphics

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/obinnaokechukwu/sfgo/native"
	"github.com/obinnaokechukwu/sfgo/system"
)

type sfTexture struct{ _ [0]byte }

func destroyTexture(t *sfTexture) {
	sfTextureDestroy(unsafe.Pointer(t))
}

func copyTexture(t *sfTexture) *sfTexture {
	return (*sfTexture)(sfTextureCopy(unsafe.Pointer(t)))
}

// Texture is an image stored on the graphics card.
type Texture struct {
	box *native.Box[sfTexture]
}

func newTexture(raw unsafe.Pointer, fn, source string) (*Texture, error) {
	box, ok := native.NewBox((*sfTexture)(raw), destroyTexture)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", native.ErrCreateFailed, fn, source)
	}
	return &Texture{box: box}, nil
}

// NewTextureFromFile loads a texture from an image file.
func NewTextureFromFile(path string) (*Texture, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	return newTexture(sfTextureCreateFromFile(path, nil), "sfTexture_createFromFile", path)
}

// NewTextureFromMemory decodes a texture from an encoded image in memory.
// data is not retained.
func NewTextureFromMemory(data []byte) (*Texture, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	raw := sfTextureCreateFromMemory(bytesPointer(data), uintptr(len(data)), nil)
	return newTexture(raw, "sfTexture_createFromMemory", fmt.Sprintf("(%d bytes)", len(data)))
}

// NewTextureFromStream decodes a texture read from src. The image is read
// completely before NewTextureFromStream returns.
func NewTextureFromStream(src io.ReadSeeker) (*Texture, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	stream, err := system.NewInputStream(src)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	return newTexture(sfTextureCreateFromStream(stream.Raw(), nil), "sfTexture_createFromStream", "(stream)")
}

// MaximumSize returns the largest texture width or height the graphics
// card accepts.
func MaximumSize() (uint32, error) {
	if err := ensureLoaded(); err != nil {
		return 0, err
	}
	return sfTextureGetMaximumSize(), nil
}

// Copy returns an independent texture with the same pixels.
func (t *Texture) Copy() *Texture {
	return &Texture{box: t.box.Clone(copyTexture)}
}

// SetSmooth enables or disables linear filtering.
func (t *Texture) SetSmooth(smooth bool) {
	sfTextureSetSmooth(unsafe.Pointer(t.box.Ptr()), sfBool(smooth))
}

// IsSmooth reports whether linear filtering is enabled.
func (t *Texture) IsSmooth() bool {
	return sfTextureIsSmooth(unsafe.Pointer(t.box.Ptr())) != 0
}

// Close releases the texture. It is safe to call more than once.
func (t *Texture) Close() error {
	return t.box.Close()
}
