//go:build !ios && !android && (amd64 || arm64)

package system

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/obinnaokechukwu/sfgo/internal/handles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// probeOnly hides the Size method of a *bytes.Reader so the stream has to
// discover the size by seeking.
type probeOnly struct {
	io.ReadSeeker
}

// countingSource counts calls into the wrapped source.
type countingSource struct {
	io.ReadSeeker
	reads int
	seeks int
}

func (c *countingSource) Read(p []byte) (int, error) {
	c.reads++
	return c.ReadSeeker.Read(p)
}

func (c *countingSource) Seek(offset int64, whence int) (int64, error) {
	c.seeks++
	return c.ReadSeeker.Seek(offset, whence)
}

// chunkySource returns at most three bytes per Read.
type chunkySource struct {
	*bytes.Reader
}

func (c chunkySource) Read(p []byte) (int, error) {
	if len(p) > 3 {
		p = p[:3]
	}
	return c.Reader.Read(p)
}

var errBroken = errors.New("broken source")

// failingSource fails the operations selected by its flags.
type failingSource struct {
	io.ReadSeeker
	failRead    bool
	failSeekEnd bool
	failSeekAll bool
}

func (f *failingSource) Read(p []byte) (int, error) {
	if f.failRead {
		return 0, errBroken
	}
	return f.ReadSeeker.Read(p)
}

func (f *failingSource) Seek(offset int64, whence int) (int64, error) {
	if f.failSeekAll || (f.failSeekEnd && whence == io.SeekEnd) {
		return 0, errBroken
	}
	return f.ReadSeeker.Seek(offset, whence)
}

func hundredBytes() []byte {
	buf := make([]byte, 100)
	for i := range buf {
		buf[i] = byte(i)
	}
	return buf
}

func newStream(t *testing.T, src io.ReadSeeker) *InputStream {
	t.Helper()
	s, err := NewInputStream(src)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// The callbacks below call the same functions CSFML reaches through the
// vtable, with the same user data.

func read(s *InputStream, dst []byte) int64 {
	if len(dst) == 0 {
		return streamRead(nil, 0, s.handle)
	}
	return streamRead(unsafe.Pointer(&dst[0]), int64(len(dst)), s.handle)
}

func TestNewInputStreamRejectsNil(t *testing.T) {
	s, err := NewInputStream(nil)
	assert.ErrorIs(t, err, ErrNilSource)
	assert.Nil(t, s)
}

func TestVTableLayout(t *testing.T) {
	ptr := unsafe.Sizeof(uintptr(0))
	assert.Equal(t, 5*ptr, unsafe.Sizeof(vtable{}))
	assert.Equal(t, 0*ptr, unsafe.Offsetof(vtable{}.read))
	assert.Equal(t, 1*ptr, unsafe.Offsetof(vtable{}.seek))
	assert.Equal(t, 2*ptr, unsafe.Offsetof(vtable{}.tell))
	assert.Equal(t, 3*ptr, unsafe.Offsetof(vtable{}.getSize))
	assert.Equal(t, 4*ptr, unsafe.Offsetof(vtable{}.userData))
}

func TestRawExposesCallbacksAndUserData(t *testing.T) {
	s := newStream(t, bytes.NewReader(hundredBytes()))

	raw := (*vtable)(s.Raw())
	require.NotNil(t, raw)
	assert.NotZero(t, raw.read)
	assert.NotZero(t, raw.seek)
	assert.NotZero(t, raw.tell)
	assert.NotZero(t, raw.getSize)
	assert.Equal(t, s.handle, raw.userData)

	got, ok := handles.Resolve[*InputStream](raw.userData)
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestCallbacksAreSharedAcrossStreams(t *testing.T) {
	a := newStream(t, bytes.NewReader(nil))
	b := newStream(t, bytes.NewReader(nil))

	va, vb := (*vtable)(a.Raw()), (*vtable)(b.Raw())
	assert.Equal(t, va.read, vb.read)
	assert.Equal(t, va.getSize, vb.getSize)
	assert.NotEqual(t, va.userData, vb.userData)
}

func TestHundredByteScenario(t *testing.T) {
	data := hundredBytes()
	s := newStream(t, probeOnly{bytes.NewReader(data)})

	assert.Equal(t, int64(100), streamGetSize(s.handle))
	assert.Equal(t, int64(0), streamTell(s.handle))

	buf := make([]byte, 10)
	assert.Equal(t, int64(10), read(s, buf))
	assert.Equal(t, data[:10], buf)

	assert.Equal(t, int64(50), streamSeek(50, s.handle))
	assert.Equal(t, int64(50), streamTell(s.handle))
}

func TestZeroLengthReadTouchesNothing(t *testing.T) {
	src := &countingSource{ReadSeeker: bytes.NewReader(hundredBytes())}
	s := newStream(t, src)

	assert.Equal(t, int64(0), streamRead(nil, 0, s.handle))
	buf := make([]byte, 4)
	assert.Equal(t, int64(0), streamRead(unsafe.Pointer(&buf[0]), 0, s.handle))

	assert.Zero(t, src.reads)
	assert.Zero(t, src.seeks)
}

func TestReadNeverExceedsRequestedSize(t *testing.T) {
	s := newStream(t, bytes.NewReader(hundredBytes()))

	buf := []byte{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}
	n := streamRead(unsafe.Pointer(&buf[0]), 4, s.handle)

	assert.Equal(t, int64(4), n)
	assert.Equal(t, []byte{0, 1, 2, 3, 0xAA, 0xAA}, buf)
	assert.Equal(t, int64(4), streamTell(s.handle))
}

func TestReadRetriesShortReads(t *testing.T) {
	s := newStream(t, chunkySource{bytes.NewReader(hundredBytes())})

	buf := make([]byte, 10)
	assert.Equal(t, int64(10), read(s, buf))
	assert.Equal(t, hundredBytes()[:10], buf)
}

func TestReadAtEndOfStream(t *testing.T) {
	s := newStream(t, bytes.NewReader(hundredBytes()))
	require.Equal(t, int64(95), streamSeek(95, s.handle))

	buf := make([]byte, 10)
	assert.Equal(t, int64(5), read(s, buf))
	assert.Equal(t, int64(0), read(s, buf))
}

func TestNegativeReadSizeFails(t *testing.T) {
	s := newStream(t, bytes.NewReader(hundredBytes()))
	buf := make([]byte, 1)
	assert.Equal(t, int64(-1), streamRead(unsafe.Pointer(&buf[0]), -5, s.handle))
}

func TestSizeProbeRestoresPosition(t *testing.T) {
	for _, pos := range []int64{0, 1, 37, 99, 100, 150} {
		s := newStream(t, probeOnly{bytes.NewReader(hundredBytes())})
		require.Equal(t, pos, streamSeek(pos, s.handle))

		assert.Equal(t, int64(100), streamGetSize(s.handle))
		assert.Equal(t, pos, streamTell(s.handle), "position %d not restored", pos)
	}
}

func TestSizeUsesSizerWithoutSeeking(t *testing.T) {
	src := &countingSource{ReadSeeker: bytes.NewReader(hundredBytes())}
	sized := struct {
		*countingSource
		Sizer
	}{src, bytes.NewReader(hundredBytes())}
	s := newStream(t, sized)

	assert.Equal(t, int64(100), streamGetSize(s.handle))
	assert.Zero(t, src.seeks)
}

func TestErrorSentinels(t *testing.T) {
	buf := make([]byte, 8)

	t.Run("read", func(t *testing.T) {
		s := newStream(t, &failingSource{ReadSeeker: bytes.NewReader(hundredBytes()), failRead: true})
		assert.Equal(t, int64(-1), read(s, buf))
	})

	t.Run("seek", func(t *testing.T) {
		s := newStream(t, &failingSource{ReadSeeker: bytes.NewReader(hundredBytes()), failSeekAll: true})
		assert.Equal(t, int64(-1), streamSeek(10, s.handle))
	})

	t.Run("seek before start", func(t *testing.T) {
		s := newStream(t, bytes.NewReader(hundredBytes()))
		assert.Equal(t, int64(-1), streamSeek(-1, s.handle))
	})

	t.Run("tell", func(t *testing.T) {
		s := newStream(t, &failingSource{ReadSeeker: bytes.NewReader(hundredBytes()), failSeekAll: true})
		assert.Equal(t, int64(-1), streamTell(s.handle))
	})

	t.Run("size", func(t *testing.T) {
		src := &failingSource{ReadSeeker: bytes.NewReader(hundredBytes()), failSeekEnd: true}
		s := newStream(t, src)
		require.Equal(t, int64(20), streamSeek(20, s.handle))

		assert.Equal(t, int64(-1), streamGetSize(s.handle))
		assert.Equal(t, int64(20), streamTell(s.handle))
	})
}

func TestUnknownUserDataFails(t *testing.T) {
	const bogus = ^uintptr(0)
	buf := make([]byte, 4)

	assert.Equal(t, int64(-1), streamRead(unsafe.Pointer(&buf[0]), 4, bogus))
	assert.Equal(t, int64(-1), streamSeek(0, bogus))
	assert.Equal(t, int64(-1), streamTell(bogus))
	assert.Equal(t, int64(-1), streamGetSize(bogus))
}

func TestClose(t *testing.T) {
	before := handles.Count()
	s, err := NewInputStream(bytes.NewReader(hundredBytes()))
	require.NoError(t, err)
	id := s.handle
	assert.Equal(t, before+1, handles.Count())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.Nil(t, s.Raw())
	assert.Equal(t, before, handles.Count())
	assert.Equal(t, int64(-1), streamTell(id))

	// Callbacks already holding the stream see it closed.
	buf := make([]byte, 4)
	assert.Equal(t, int64(-1), s.read(buf))
	assert.Equal(t, int64(-1), s.size())
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.ogg")
	require.NoError(t, os.WriteFile(path, hundredBytes(), 0o644))

	s, err := OpenFile(path)
	require.NoError(t, err)

	assert.Equal(t, int64(100), streamGetSize(s.handle))
	buf := make([]byte, 3)
	assert.Equal(t, int64(3), read(s, buf))
	assert.Equal(t, []byte{0, 1, 2}, buf)

	f := s.closer.(*os.File)
	require.NoError(t, s.Close())
	_, err = f.Stat()
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.ogg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStatsCountOnlyStreams(t *testing.T) {
	before := CurrentStats()

	id := handles.Register("not a stream")
	defer handles.Unregister(id)
	assert.Equal(t, before.Open, CurrentStats().Open)

	s, err := NewInputStream(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, before.Open+1, CurrentStats().Open)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, before.Open, CurrentStats().Open)
}

func TestStats(t *testing.T) {
	before := CurrentStats()

	s, err := NewInputStream(bytes.NewReader(make([]byte, 64)))
	require.NoError(t, err)
	assert.Equal(t, before.Open+1, CurrentStats().Open)

	buf := make([]byte, 40)
	assert.Equal(t, int64(40), streamRead(unsafe.Pointer(&buf[0]), 40, s.handle))
	assert.Equal(t, int64(24), streamRead(unsafe.Pointer(&buf[0]), 40, s.handle))
	assert.Equal(t, int64(-1), streamSeek(-5, s.handle))

	require.NoError(t, s.Close())
	assert.Equal(t, int64(-1), streamTell(s.handle))

	after := CurrentStats()
	assert.Equal(t, before.Open, after.Open)
	assert.Equal(t, before.BytesRead+64, after.BytesRead)
	assert.Equal(t, before.CallbackFailures+2, after.CallbackFailures)
}
