//go:build !ios && !android && (amd64 || arm64)

package graphics

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"unsafe"

	"github.com/obinnaokechukwu/sfgo/internal/logging"
	"github.com/obinnaokechukwu/sfgo/internal/shim"
	"github.com/obinnaokechukwu/sfgo/native"
	"github.com/obinnaokechukwu/sfgo/system"
)

type sfFont struct{ _ [0]byte }

func destroyFont(f *sfFont) {
	sfFontDestroy(unsafe.Pointer(f))
}

func copyFont(f *sfFont) *sfFont {
	return (*sfFont)(sfFontCopy(unsafe.Pointer(f)))
}

// fontSource keeps the data a font reads glyphs from alive. SFML loads
// glyphs lazily and copies of a font share the original's source, so the
// source is released when the last font using it is closed.
type fontSource struct {
	mu     sync.Mutex
	refs   int
	stream *system.InputStream
	pinner runtime.Pinner
}

func (s *fontSource) acquire() *fontSource {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	s.refs++
	s.mu.Unlock()
	return s
}

func (s *fontSource) release() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs--
	if s.refs > 0 {
		return nil
	}
	s.pinner.Unpin()
	if s.stream != nil {
		return s.stream.Close()
	}
	return nil
}

// Font is a typeface used to render text.
type Font struct {
	ref     *fontRef
	cleanup runtime.Cleanup
}

// fontRef is one font's hold on its native object and data source. It is
// shared with the GC cleanup of an unclosed Font, so the source's pins
// outlive the font that reads through them.
type fontRef struct {
	once   sync.Once
	box    *native.Box[sfFont]
	source *fontSource
	err    error
}

func (r *fontRef) release() error {
	r.once.Do(func() {
		r.box.Close()
		r.err = r.source.release()
	})
	return r.err
}

func (r *fontRef) collect() {
	if !r.box.Closed() {
		logging.Logger().Warn("released unreachable font that was never closed")
	}
	r.release()
}

func newFont(box *native.Box[sfFont], source *fontSource) *Font {
	ref := &fontRef{box: box, source: source.acquire()}
	f := &Font{ref: ref}
	f.cleanup = runtime.AddCleanup(f, (*fontRef).collect, ref)
	return f
}

// NewFontFromFile loads a font from a file. The file is read on demand
// while the font is open.
func NewFontFromFile(path string) (*Font, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	box, ok := native.NewBox((*sfFont)(sfFontCreateFromFile(path)), destroyFont)
	if !ok {
		return nil, fmt.Errorf("%w: sfFont_createFromFile %s", native.ErrCreateFailed, path)
	}
	return newFont(box, nil), nil
}

// NewFontFromMemory loads a font from data, which stays pinned and must not
// be modified until the font and all its copies are closed.
func NewFontFromMemory(data []byte) (*Font, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	src := &fontSource{}
	p := bytesPointer(data)
	if p != nil {
		src.pinner.Pin(p)
	}
	box, ok := native.NewBox((*sfFont)(sfFontCreateFromMemory(p, uintptr(len(data)))), destroyFont)
	if !ok {
		src.pinner.Unpin()
		return nil, fmt.Errorf("%w: sfFont_createFromMemory (%d bytes)", native.ErrCreateFailed, len(data))
	}
	return newFont(box, src), nil
}

// NewFontFromStream loads a font read from src. src keeps being read while
// the font or any copy of it is open, so it must stay usable until the last
// of them is closed. The caller still owns src.
func NewFontFromStream(src io.ReadSeeker) (*Font, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	stream, err := system.NewInputStream(src)
	if err != nil {
		return nil, err
	}
	box, ok := native.NewBox((*sfFont)(sfFontCreateFromStream(stream.Raw())), destroyFont)
	if !ok {
		stream.Close()
		return nil, fmt.Errorf("%w: sfFont_createFromStream", native.ErrCreateFailed)
	}
	return newFont(box, &fontSource{stream: stream}), nil
}

// Copy returns an independent font. It shares the original's data source,
// which stays open until both are closed.
func (f *Font) Copy() *Font {
	return newFont(f.ref.box.Clone(copyFont), f.ref.source)
}

// fontString is the shim's std::string.
type fontString struct{ _ [0]byte }

var fontStringAccessor = native.Accessor[fontString, byte]{
	Data: func(s *fontString) *byte { return shim.StringData(unsafe.Pointer(s)) },
	Len:  func(s *fontString) int { return shim.StringLength(unsafe.Pointer(s)) },
	Dispose: func(s *fontString) {
		shim.StringDestroy(unsafe.Pointer(s))
	},
}

// Family returns the font's family name, such as "DejaVu Sans".
func (f *Font) Family() (string, error) {
	if f.ref.box.Closed() {
		return "", fmt.Errorf("%w: Font.Family", native.ErrClosed)
	}
	raw := unsafe.Pointer(f.ref.box.Ptr())

	if shim.IsLoaded() {
		s, err := shim.FontFamily(raw)
		if err == nil {
			c, ok := native.NewContainer((*fontString)(s), &fontStringAccessor)
			if !ok {
				return "", fmt.Errorf("%w: sfshim_font_family", native.ErrCreateFailed)
			}
			defer c.Close()
			return native.Text(c.View()), nil
		}
	}
	if sfFontGetInfo == nil {
		return "", fmt.Errorf("%w: sfFont_getInfo", shim.ErrShimNotLoaded)
	}
	return native.GoString(sfFontGetInfo(raw)), nil
}

// Close releases the font, then its data source if no copy still uses it.
// It is safe to call more than once.
func (f *Font) Close() error {
	f.cleanup.Stop()
	return f.ref.release()
}
