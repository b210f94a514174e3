//go:build !ios && !android && (amd64 || arm64)

// Package audio wraps csfml-audio: decoded sound buffers and streamed music.
package audio

import (
	"fmt"
	"io"
	"time"
	"unsafe"

	"github.com/obinnaokechukwu/sfgo/native"
	"github.com/obinnaokechukwu/sfgo/system"
)

type sfSoundBuffer struct{ _ [0]byte }

var samplesAccessor = native.Accessor[sfSoundBuffer, int16]{
	Data: func(b *sfSoundBuffer) *int16 {
		return sfSoundBufferGetSamples(unsafe.Pointer(b))
	},
	Len: func(b *sfSoundBuffer) int {
		return int(sfSoundBufferGetSampleCount(unsafe.Pointer(b)))
	},
	Dispose: func(b *sfSoundBuffer) {
		sfSoundBufferDestroy(unsafe.Pointer(b))
	},
}

func copySoundBuffer(b *sfSoundBuffer) *sfSoundBuffer {
	return (*sfSoundBuffer)(sfSoundBufferCopy(unsafe.Pointer(b)))
}

// SoundBuffer holds decoded 16-bit samples in memory.
type SoundBuffer struct {
	c *native.Container[sfSoundBuffer, int16]
}

func newSoundBuffer(raw unsafe.Pointer, fn, source string) (*SoundBuffer, error) {
	c, ok := native.NewContainer((*sfSoundBuffer)(raw), &samplesAccessor)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", native.ErrCreateFailed, fn, source)
	}
	return &SoundBuffer{c: c}, nil
}

// NewSoundBufferFromFile decodes a whole audio file.
func NewSoundBufferFromFile(path string) (*SoundBuffer, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	return newSoundBuffer(sfSoundBufferCreateFromFile(path), "sfSoundBuffer_createFromFile", path)
}

// NewSoundBufferFromMemory decodes an encoded audio file held in data.
// data is not retained.
func NewSoundBufferFromMemory(data []byte) (*SoundBuffer, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}
	return newSoundBuffer(sfSoundBufferCreateFromMemory(p, uintptr(len(data))),
		"sfSoundBuffer_createFromMemory", fmt.Sprintf("(%d bytes)", len(data)))
}

// NewSoundBufferFromStream decodes audio read from src. Decoding is complete
// when it returns, so src is no longer needed.
func NewSoundBufferFromStream(src io.ReadSeeker) (*SoundBuffer, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	stream, err := system.NewInputStream(src)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	return newSoundBuffer(sfSoundBufferCreateFromStream(stream.Raw()), "sfSoundBuffer_createFromStream", "(stream)")
}

// NewSoundBufferFromSamples copies interleaved samples into a new buffer.
func NewSoundBufferFromSamples(samples []int16, channels, sampleRate uint32) (*SoundBuffer, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: sfSoundBuffer_createFromSamples: no samples", native.ErrCreateFailed)
	}
	raw := sfSoundBufferCreateFromSamples(unsafe.Pointer(&samples[0]), uint64(len(samples)), channels, sampleRate)
	return newSoundBuffer(raw, "sfSoundBuffer_createFromSamples",
		fmt.Sprintf("(%d samples, %d channels, %d Hz)", len(samples), channels, sampleRate))
}

// Samples borrows the interleaved samples. The view is invalid once the
// buffer is closed; use its Copy method to keep the data.
func (b *SoundBuffer) Samples() native.View[sfSoundBuffer, int16] {
	return b.c.View()
}

// SampleRate returns the number of samples per second per channel.
func (b *SoundBuffer) SampleRate() uint32 {
	return sfSoundBufferGetSampleRate(unsafe.Pointer(b.c.Ptr()))
}

// ChannelCount returns the number of interleaved channels.
func (b *SoundBuffer) ChannelCount() uint32 {
	return sfSoundBufferGetChannelCount(unsafe.Pointer(b.c.Ptr()))
}

// Duration returns the playing time of the buffer.
func (b *SoundBuffer) Duration() time.Duration {
	return time.Duration(sfSoundBufferGetDuration(unsafe.Pointer(b.c.Ptr()))) * time.Microsecond
}

// Copy returns an independent buffer with the same samples.
func (b *SoundBuffer) Copy() *SoundBuffer {
	return &SoundBuffer{c: b.c.Clone(copySoundBuffer)}
}

// Close releases the buffer. It is safe to call more than once.
func (b *SoundBuffer) Close() error {
	return b.c.Close()
}
