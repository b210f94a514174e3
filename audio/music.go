//go:build !ios && !android && (amd64 || arm64)

package audio

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/obinnaokechukwu/sfgo/internal/logging"
	"github.com/obinnaokechukwu/sfgo/native"
	"github.com/obinnaokechukwu/sfgo/system"
	"go.uber.org/zap"
)

// Status is the playing state of a Music.
type Status int32

const (
	Stopped Status = iota
	Paused
	Playing
)

func (s Status) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

type sfMusic struct{ _ [0]byte }

func destroyMusic(m *sfMusic) {
	sfMusicDestroy(unsafe.Pointer(m))
}

// Music streams audio while it plays, decoding from its source on an audio
// thread owned by CSFML. The source must outlive the Music; Music created
// from a stream or from memory keeps it alive until Close.
type Music struct {
	src     *musicSource
	cleanup runtime.Cleanup
}

// musicSource owns the music and what it reads from. It is shared with the
// GC cleanup of an unclosed Music, so the pins are never dropped before
// the music that reads through them is destroyed.
type musicSource struct {
	once   sync.Once
	box    *native.Box[sfMusic]
	stream *system.InputStream
	pinner runtime.Pinner
	err    error
}

func (s *musicSource) release() error {
	s.once.Do(func() {
		s.box.Close()
		s.pinner.Unpin()
		if s.stream != nil {
			s.err = s.stream.Close()
			logging.Logger().Debug("music stream released", zap.Error(s.err))
		}
	})
	return s.err
}

func (s *musicSource) collect() {
	if !s.box.Closed() {
		logging.Logger().Warn("released unreachable music that was never closed")
	}
	s.release()
}

func newMusic(src *musicSource) *Music {
	m := &Music{src: src}
	m.cleanup = runtime.AddCleanup(m, (*musicSource).collect, src)
	return m
}

// OpenMusicFromFile opens an audio file for streaming.
func OpenMusicFromFile(path string) (*Music, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	box, ok := native.NewBox((*sfMusic)(sfMusicCreateFromFile(path)), destroyMusic)
	if !ok {
		return nil, fmt.Errorf("%w: sfMusic_createFromFile %s", native.ErrCreateFailed, path)
	}
	return newMusic(&musicSource{box: box}), nil
}

// OpenMusicFromMemory streams from data, which stays pinned and must not be
// modified until Close.
func OpenMusicFromMemory(data []byte) (*Music, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	src := &musicSource{}
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
		src.pinner.Pin(p)
	}
	box, ok := native.NewBox((*sfMusic)(sfMusicCreateFromMemory(p, uintptr(len(data)))), destroyMusic)
	if !ok {
		src.pinner.Unpin()
		return nil, fmt.Errorf("%w: sfMusic_createFromMemory (%d bytes)", native.ErrCreateFailed, len(data))
	}
	src.box = box
	return newMusic(src), nil
}

// OpenMusicFromStream streams from src. The InputStream wrapping src lives
// until Close, which destroys the music first so CSFML's audio thread has
// stopped reading before the stream goes away. src itself is not closed.
func OpenMusicFromStream(src io.ReadSeeker) (*Music, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	stream, err := system.NewInputStream(src)
	if err != nil {
		return nil, err
	}
	box, ok := native.NewBox((*sfMusic)(sfMusicCreateFromStream(stream.Raw())), destroyMusic)
	if !ok {
		stream.Close()
		return nil, fmt.Errorf("%w: sfMusic_createFromStream", native.ErrCreateFailed)
	}
	return newMusic(&musicSource{box: box, stream: stream}), nil
}

func (m *Music) raw() unsafe.Pointer {
	return unsafe.Pointer(m.src.box.Ptr())
}

// Play starts or resumes playback on CSFML's audio thread.
func (m *Music) Play() {
	sfMusicPlay(m.raw())
}

// Pause pauses playback.
func (m *Music) Pause() {
	sfMusicPause(m.raw())
}

// Stop stops playback and rewinds.
func (m *Music) Stop() {
	sfMusicStop(m.raw())
}

// Status returns the playing state.
func (m *Music) Status() Status {
	return Status(sfMusicGetStatus(m.raw()))
}

// SetVolume sets the volume from 0 (mute) to 100 (full).
func (m *Music) SetVolume(volume float32) {
	sfMusicSetVolume(m.raw(), min(max(volume, 0), 100))
}

// Volume returns the volume from 0 to 100.
func (m *Music) Volume() float32 {
	return sfMusicGetVolume(m.raw())
}

// SetLoop makes playback restart from the beginning when it reaches the end.
func (m *Music) SetLoop(loop bool) {
	sfMusicSetLoop(m.raw(), sfBool(loop))
}

// Loop reports whether playback loops.
func (m *Music) Loop() bool {
	return sfMusicGetLoop(m.raw()) != 0
}

// ChannelCount returns the number of channels of the source.
func (m *Music) ChannelCount() uint32 {
	return sfMusicGetChannelCount(m.raw())
}

// SampleRate returns the source's samples per second per channel.
func (m *Music) SampleRate() uint32 {
	return sfMusicGetSampleRate(m.raw())
}

// Duration returns the total playing time of the source.
func (m *Music) Duration() time.Duration {
	return time.Duration(sfMusicGetDuration(m.raw())) * time.Microsecond
}

// Close stops and releases the music, then its stream or pinned memory. It
// is safe to call more than once.
func (m *Music) Close() error {
	m.cleanup.Stop()
	return m.src.release()
}
