//go:build !ios && !android && (amd64 || arm64)

package graphics

import (
	"bytes"
	"runtime"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/sfgo/internal/shim"
	"github.com/obinnaokechukwu/sfgo/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sfInputStream as CSFML sees it.
type sfInputStream struct {
	read, seek, tell, getSize, userData uintptr
}

// pull reads n bytes at offset from a stream the way CSFML does, through
// the C function pointers.
func pull(stream unsafe.Pointer, offset, n int64) []byte {
	vt := (*sfInputStream)(stream)
	if r, _, _ := purego.SyscallN(vt.seek, uintptr(offset), vt.userData); int64(r) != offset {
		return nil
	}
	buf := make([]byte, n)
	got, _, _ := purego.SyscallN(vt.read, uintptr(unsafe.Pointer(&buf[0])), uintptr(n), vt.userData)
	if int64(got) < 0 {
		return nil
	}
	return buf[:got]
}

func streamSize(stream unsafe.Pointer) int64 {
	vt := (*sfInputStream)(stream)
	r, _, _ := purego.SyscallN(vt.getSize, vt.userData)
	return int64(r)
}

type fakeObject struct {
	data      []byte
	smooth    bool
	stream    unsafe.Pointer
	family    string
	destroyed int
}

type fakeGraphics struct {
	mu      sync.Mutex
	objects map[unsafe.Pointer]*fakeObject
	order   []*fakeObject
}

func (g *fakeGraphics) add(o *fakeObject) unsafe.Pointer {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := unsafe.Pointer(new([8]byte))
	g.objects[p] = o
	g.order = append(g.order, o)
	return p
}

func (g *fakeGraphics) get(p unsafe.Pointer) *fakeObject {
	g.mu.Lock()
	defer g.mu.Unlock()
	o, ok := g.objects[p]
	if !ok {
		panic("fake csfml: unknown object")
	}
	return o
}

// destroyCount reads how often the i-th object was destroyed, which a GC
// cleanup may do from another goroutine.
func (g *fakeGraphics) destroyCount(i int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.order[i].destroyed
}

// valid images and fonts start with this magic.
var magic = []byte("SFGO")

func decode(data []byte) (*fakeObject, bool) {
	if !bytes.HasPrefix(data, magic) {
		return nil, false
	}
	return &fakeObject{data: bytes.Clone(data)}, true
}

func fakeCSFML(t *testing.T) *fakeGraphics {
	t.Helper()
	g := &fakeGraphics{objects: make(map[unsafe.Pointer]*fakeObject)}

	bindingsMu.Lock()
	savedRegistered := bindingsRegistered
	savedTexture := []any{sfTextureCreateFromFile, sfTextureCreateFromMemory, sfTextureCreateFromStream,
		sfTextureCopy, sfTextureDestroy, sfTextureSetSmooth, sfTextureIsSmooth, sfTextureGetMaximumSize}
	savedFont := []any{sfFontCreateFromFile, sfFontCreateFromMemory, sfFontCreateFromStream,
		sfFontCopy, sfFontDestroy, sfFontGetInfo}
	bindingsRegistered = true
	bindingsMu.Unlock()

	create := func(data []byte) unsafe.Pointer {
		o, ok := decode(data)
		if !ok {
			return nil
		}
		return g.add(o)
	}
	clone := func(p unsafe.Pointer) unsafe.Pointer {
		src := g.get(p)
		return g.add(&fakeObject{data: src.data, smooth: src.smooth, stream: src.stream, family: src.family})
	}
	destroy := func(p unsafe.Pointer) {
		o := g.get(p)
		g.mu.Lock()
		o.destroyed++
		g.mu.Unlock()
	}

	sfTextureCreateFromFile = func(string, unsafe.Pointer) unsafe.Pointer { return nil }
	sfTextureCreateFromMemory = func(data unsafe.Pointer, size uintptr, _ unsafe.Pointer) unsafe.Pointer {
		if data == nil {
			return nil
		}
		return create(unsafe.Slice((*byte)(data), size))
	}
	sfTextureCreateFromStream = func(stream, _ unsafe.Pointer) unsafe.Pointer {
		return create(pull(stream, 0, streamSize(stream)))
	}
	sfTextureCopy = clone
	sfTextureDestroy = destroy
	sfTextureSetSmooth = func(p unsafe.Pointer, v int32) { g.get(p).smooth = v != 0 }
	sfTextureIsSmooth = func(p unsafe.Pointer) int32 { return sfBool(g.get(p).smooth) }
	sfTextureGetMaximumSize = func() uint32 { return 16384 }

	sfFontCreateFromFile = func(string) unsafe.Pointer { return nil }
	sfFontCreateFromMemory = func(data unsafe.Pointer, size uintptr) unsafe.Pointer {
		if data == nil {
			return nil
		}
		return create(unsafe.Slice((*byte)(data), size))
	}
	sfFontCreateFromStream = func(stream unsafe.Pointer) unsafe.Pointer {
		// Only the header is read up front, like FreeType.
		p := create(pull(stream, 0, int64(len(magic))))
		if p != nil {
			g.get(p).stream = stream
		}
		return p
	}
	sfFontCopy = clone
	sfFontDestroy = destroy
	sfFontGetInfo = func(p unsafe.Pointer) *byte {
		o := g.get(p)
		if o.family == "" {
			// The family follows the magic in the font data, NUL terminated.
			o.family = string(bytes.TrimRight(o.data[len(magic):], "\x00"))
		}
		b := native.CString(o.family)
		return &b[0]
	}

	t.Cleanup(func() {
		bindingsMu.Lock()
		defer bindingsMu.Unlock()
		bindingsRegistered = savedRegistered
		sfTextureCreateFromFile = savedTexture[0].(func(string, unsafe.Pointer) unsafe.Pointer)
		sfTextureCreateFromMemory = savedTexture[1].(func(unsafe.Pointer, uintptr, unsafe.Pointer) unsafe.Pointer)
		sfTextureCreateFromStream = savedTexture[2].(func(unsafe.Pointer, unsafe.Pointer) unsafe.Pointer)
		sfTextureCopy = savedTexture[3].(func(unsafe.Pointer) unsafe.Pointer)
		sfTextureDestroy = savedTexture[4].(func(unsafe.Pointer))
		sfTextureSetSmooth = savedTexture[5].(func(unsafe.Pointer, int32))
		sfTextureIsSmooth = savedTexture[6].(func(unsafe.Pointer) int32)
		sfTextureGetMaximumSize = savedTexture[7].(func() uint32)
		sfFontCreateFromFile = savedFont[0].(func(string) unsafe.Pointer)
		sfFontCreateFromMemory = savedFont[1].(func(unsafe.Pointer, uintptr) unsafe.Pointer)
		sfFontCreateFromStream = savedFont[2].(func(unsafe.Pointer) unsafe.Pointer)
		sfFontCopy = savedFont[3].(func(unsafe.Pointer) unsafe.Pointer)
		sfFontDestroy = savedFont[4].(func(unsafe.Pointer))
		sfFontGetInfo = savedFont[5].(func(unsafe.Pointer) *byte)
	})
	return g
}

func image() []byte {
	return append(bytes.Clone(magic), bytes.Repeat([]byte{0x7f}, 300)...)
}

func fontData(family string) []byte {
	return append(bytes.Clone(magic), family...)
}

func TestTextureFromMemory(t *testing.T) {
	g := fakeCSFML(t)

	tex, err := NewTextureFromMemory(image())
	require.NoError(t, err)
	require.Len(t, g.order, 1)
	assert.Equal(t, image(), g.order[0].data)

	require.NoError(t, tex.Close())
	require.NoError(t, tex.Close())
	assert.Equal(t, 1, g.order[0].destroyed)
}

func TestTextureCreationFailures(t *testing.T) {
	fakeCSFML(t)

	_, err := NewTextureFromMemory([]byte("not an image"))
	assert.ErrorIs(t, err, native.ErrCreateFailed)
	assert.Contains(t, err.Error(), "sfTexture_createFromMemory")

	_, err = NewTextureFromMemory(nil)
	assert.ErrorIs(t, err, native.ErrCreateFailed)

	_, err = NewTextureFromFile("missing.png")
	assert.ErrorIs(t, err, native.ErrCreateFailed)
	assert.Contains(t, err.Error(), "missing.png")
}

func TestTextureFromStreamReadsThroughCallbacks(t *testing.T) {
	g := fakeCSFML(t)

	tex, err := NewTextureFromStream(bytes.NewReader(image()))
	require.NoError(t, err)
	defer tex.Close()

	require.Len(t, g.order, 1)
	assert.Equal(t, image(), g.order[0].data)
}

func TestTextureFromStreamFailure(t *testing.T) {
	fakeCSFML(t)

	_, err := NewTextureFromStream(bytes.NewReader([]byte("garbage")))
	assert.ErrorIs(t, err, native.ErrCreateFailed)

	_, err = NewTextureFromStream(nil)
	assert.Error(t, err)
}

func TestTextureSmoothAndCopy(t *testing.T) {
	g := fakeCSFML(t)

	tex, err := NewTextureFromMemory(image())
	require.NoError(t, err)
	assert.False(t, tex.IsSmooth())
	tex.SetSmooth(true)
	assert.True(t, tex.IsSmooth())

	dup := tex.Copy()
	require.Len(t, g.order, 2)
	assert.True(t, dup.IsSmooth())

	dup.SetSmooth(false)
	assert.True(t, tex.IsSmooth(), "copies are independent")

	require.NoError(t, tex.Close())
	assert.False(t, dup.IsSmooth(), "copy outlives the original")
	require.NoError(t, dup.Close())
	assert.Equal(t, 1, g.order[0].destroyed)
	assert.Equal(t, 1, g.order[1].destroyed)
}

func TestTextureUseAfterClosePanics(t *testing.T) {
	fakeCSFML(t)

	tex, err := NewTextureFromMemory(image())
	require.NoError(t, err)
	require.NoError(t, tex.Close())
	assert.Panics(t, func() { tex.SetSmooth(true) })
}

func TestMaximumSize(t *testing.T) {
	fakeCSFML(t)

	size, err := MaximumSize()
	require.NoError(t, err)
	assert.Equal(t, uint32(16384), size)
}

func TestFontFromStreamKeepsStreamOpen(t *testing.T) {
	g := fakeCSFML(t)

	font, err := NewFontFromStream(bytes.NewReader(fontData("DejaVu Sans")))
	require.NoError(t, err)
	stream := g.order[0].stream
	require.NotNil(t, stream)

	// Glyphs are pulled after creation.
	assert.Equal(t, []byte("DejaVu"), pull(stream, 4, 6))

	dup := font.Copy()
	require.NoError(t, font.Close())
	assert.NotNil(t, dup.ref.source.stream.Raw(), "copy still reads from the stream")
	assert.Equal(t, []byte("Sans"), pull(stream, 11, 4))

	require.NoError(t, dup.Close())
	assert.Nil(t, dup.ref.source.stream.Raw())
	assert.Nil(t, pull(stream, 0, 4), "callbacks fail once the stream is closed")
	assert.Equal(t, 1, g.order[0].destroyed)
	assert.Equal(t, 1, g.order[1].destroyed)
}

func TestFontFromStreamFailure(t *testing.T) {
	fakeCSFML(t)

	_, err := NewFontFromStream(bytes.NewReader([]byte("nope")))
	assert.ErrorIs(t, err, native.ErrCreateFailed)
	assert.Contains(t, err.Error(), "sfFont_createFromStream")
}

func TestFontFromMemory(t *testing.T) {
	g := fakeCSFML(t)

	font, err := NewFontFromMemory(fontData("Liberation Mono"))
	require.NoError(t, err)
	require.Len(t, g.order, 1)

	require.NoError(t, font.Close())
	require.NoError(t, font.Close())
	assert.Equal(t, 1, g.order[0].destroyed)
}

//go:noinline
func abandonFontAndCopy(t *testing.T, data []byte) {
	font, err := NewFontFromMemory(data)
	require.NoError(t, err)
	font.Copy()
}

func TestUnclosedFontIsReleasedByCleanup(t *testing.T) {
	g := fakeCSFML(t)

	abandonFontAndCopy(t, fontData("Liberation Mono"))
	require.Len(t, g.order, 2)

	assert.Eventually(t, func() bool {
		runtime.GC()
		return g.destroyCount(0) == 1 && g.destroyCount(1) == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestFontFamily(t *testing.T) {
	if shim.IsLoaded() {
		t.Skip("sfshim loaded; family comes from the shim")
	}
	fakeCSFML(t)

	font, err := NewFontFromMemory(fontData("Liberation Mono"))
	require.NoError(t, err)

	family, err := font.Family()
	require.NoError(t, err)
	assert.Equal(t, "Liberation Mono", family)

	dup := font.Copy()
	family, err = dup.Family()
	require.NoError(t, err)
	assert.Equal(t, "Liberation Mono", family)

	require.NoError(t, font.Close())
	require.NoError(t, dup.Close())
	_, err = font.Family()
	assert.ErrorIs(t, err, native.ErrClosed)
}

func TestFontFromFileFailure(t *testing.T) {
	fakeCSFML(t)

	_, err := NewFontFromFile("nowhere.ttf")
	assert.ErrorIs(t, err, native.ErrCreateFailed)
	assert.Contains(t, err.Error(), "nowhere.ttf")
}
