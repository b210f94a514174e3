//go:build !ios && !android && (amd64 || arm64)

// Package system provides the parts of csfml-system sfgo needs, chiefly
// InputStream, which lets CSFML pull bytes from any Go io.ReadSeeker.
package system

import (
	"errors"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/sfgo/internal/handles"
	"github.com/obinnaokechukwu/sfgo/internal/logging"
	"go.uber.org/zap"
)

// ErrNilSource is returned by NewInputStream for a nil source.
var ErrNilSource = errors.New("sfgo: input stream source cannot be nil")

// Sizer is implemented by sources that know their length without seeking,
// such as *bytes.Reader, *strings.Reader and *io.SectionReader. InputStream
// uses it instead of the seek-to-end probe.
type Sizer interface {
	Size() int64
}

// vtable mirrors sfInputStream bit for bit:
//
//	typedef struct {
//	    sfInputStreamReadFunc    read;     // sfInt64 (*)(void* data, sfInt64 size, void* userData)
//	    sfInputStreamSeekFunc    seek;     // sfInt64 (*)(sfInt64 position, void* userData)
//	    sfInputStreamTellFunc    tell;     // sfInt64 (*)(void* userData)
//	    sfInputStreamGetSizeFunc getSize;  // sfInt64 (*)(void* userData)
//	    void*                    userData;
//	} sfInputStream;
//
// Every function returns -1 on failure.
type vtable struct {
	read     uintptr
	seek     uintptr
	tell     uintptr
	getSize  uintptr
	userData uintptr
}

// InputStream adapts an io.ReadSeeker to CSFML's sfInputStream.
//
// The vtable handed to CSFML lives in pinned memory and its userData is a
// handle ID, so neither moves while the stream is open. The stream must stay
// open for as long as any CSFML object created from it may read: textures
// and sound buffers read everything up front, but fonts and music keep
// pulling data until they are destroyed.
//
// Callbacks of one stream are serialized; the source must not be used
// elsewhere while the stream is open.
type InputStream struct {
	mu     sync.Mutex
	src    io.ReadSeeker
	closer io.Closer
	vt     *vtable
	pinner runtime.Pinner
	handle uintptr
	closed bool
}

// Callbacks are created once per process; purego has a fixed number of
// callback slots.
var (
	callbacksOnce      sync.Once
	readCallbackPtr    uintptr
	seekCallbackPtr    uintptr
	tellCallbackPtr    uintptr
	getSizeCallbackPtr uintptr
)

func initCallbacks() {
	callbacksOnce.Do(func() {
		readCallbackPtr = purego.NewCallback(func(_ purego.CDecl, data unsafe.Pointer, size int64, userData uintptr) int64 {
			return streamRead(data, size, userData)
		})
		seekCallbackPtr = purego.NewCallback(func(_ purego.CDecl, position int64, userData uintptr) int64 {
			return streamSeek(position, userData)
		})
		tellCallbackPtr = purego.NewCallback(func(_ purego.CDecl, userData uintptr) int64 {
			return streamTell(userData)
		})
		getSizeCallbackPtr = purego.NewCallback(func(_ purego.CDecl, userData uintptr) int64 {
			return streamGetSize(userData)
		})
	})
}

// NewInputStream wraps src. Close the stream once every CSFML object that
// uses it has been destroyed.
func NewInputStream(src io.ReadSeeker) (*InputStream, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	initCallbacks()

	s := &InputStream{src: src}
	s.handle = handles.Register(s)
	s.vt = &vtable{
		read:     readCallbackPtr,
		seek:     seekCallbackPtr,
		tell:     tellCallbackPtr,
		getSize:  getSizeCallbackPtr,
		userData: s.handle,
	}
	s.pinner.Pin(s.vt)
	openStreams.Add(1)
	return s, nil
}

// OpenFile opens path as an InputStream. Closing the stream closes the file.
func OpenFile(path string) (*InputStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s, err := NewInputStream(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.closer = f
	return s, nil
}

// Raw returns the sfInputStream* to pass to CSFML, or nil once closed.
func (s *InputStream) Raw() unsafe.Pointer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return unsafe.Pointer(s.vt)
}

// Close unregisters and unpins the stream and closes the source if the
// stream opened it. Later callbacks fail with -1.
func (s *InputStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	handles.Unregister(s.handle)
	s.pinner.Unpin()
	openStreams.Add(-1)

	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func lookup(userData uintptr) *InputStream {
	s, _ := handles.Resolve[*InputStream](userData)
	return s
}

var (
	openStreams      atomic.Int64
	bytesRead        atomic.Uint64
	callbackFailures atomic.Uint64
)

// Stats are process-wide input stream counters.
type Stats struct {
	Open             int
	BytesRead        uint64
	CallbackFailures uint64
}

// CurrentStats returns the input stream counters.
func CurrentStats() Stats {
	return Stats{
		Open:             int(openStreams.Load()),
		BytesRead:        bytesRead.Load(),
		CallbackFailures: callbackFailures.Load(),
	}
}

func counted(r int64) int64 {
	if r < 0 {
		callbackFailures.Add(1)
	}
	return r
}

func streamRead(data unsafe.Pointer, size int64, userData uintptr) int64 {
	if size == 0 {
		return 0
	}
	if size < 0 || data == nil {
		return counted(-1)
	}
	s := lookup(userData)
	if s == nil {
		return counted(-1)
	}
	n := counted(s.read(unsafe.Slice((*byte)(data), size)))
	if n > 0 {
		bytesRead.Add(uint64(n))
	}
	return n
}

func streamSeek(position int64, userData uintptr) int64 {
	s := lookup(userData)
	if s == nil {
		return counted(-1)
	}
	return counted(s.seek(position))
}

func streamTell(userData uintptr) int64 {
	s := lookup(userData)
	if s == nil {
		return counted(-1)
	}
	return counted(s.tell())
}

func streamGetSize(userData uintptr) int64 {
	s := lookup(userData)
	if s == nil {
		return counted(-1)
	}
	return counted(s.size())
}

// read fills dst as far as the source allows. CSFML treats a short count as
// end of stream, so short reads from the source are retried.
func (s *InputStream) read(dst []byte) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return -1
	}

	n, err := io.ReadFull(s.src, dst)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		logging.Logger().Debug("input stream read failed",
			zap.Int("requested", len(dst)), zap.Int("read", n), zap.Error(err))
		return -1
	}
	return int64(n)
}

func (s *InputStream) seek(position int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return -1
	}

	pos, err := s.src.Seek(position, io.SeekStart)
	if err != nil {
		logging.Logger().Debug("input stream seek failed", zap.Int64("position", position), zap.Error(err))
		return -1
	}
	return pos
}

func (s *InputStream) tell() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return -1
	}

	pos, err := s.src.Seek(0, io.SeekCurrent)
	if err != nil {
		logging.Logger().Debug("input stream tell failed", zap.Error(err))
		return -1
	}
	return pos
}

// size reports the total length, leaving the position where it was.
func (s *InputStream) size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return -1
	}

	if sz, ok := s.src.(Sizer); ok {
		return sz.Size()
	}

	cur, err := s.src.Seek(0, io.SeekCurrent)
	if err != nil {
		logging.Logger().Debug("input stream size probe failed", zap.String("step", "tell"), zap.Error(err))
		return -1
	}
	end, err := s.src.Seek(0, io.SeekEnd)
	if err != nil {
		logging.Logger().Debug("input stream size probe failed", zap.String("step", "seek end"), zap.Error(err))
		return -1
	}
	if _, err := s.src.Seek(cur, io.SeekStart); err != nil {
		logging.Logger().Debug("input stream size probe failed", zap.String("step", "restore"), zap.Error(err))
		return -1
	}
	return end
}
