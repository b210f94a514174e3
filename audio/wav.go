//go:build !ios && !android && (amd64 || arm64)

package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned when a source is not a PCM WAV file.
var ErrInvalidWAV = errors.New("sfgo: not a valid PCM WAV file")

// WriteWAV encodes the buffer's samples as 16-bit PCM WAV.
func (b *SoundBuffer) WriteWAV(w io.WriteSeeker) error {
	samples := b.Samples()
	rate, channels := int(b.SampleRate()), int(b.ChannelCount())

	data := make([]int, 0, samples.Len())
	for _, s := range samples.All() {
		data = append(data, int(s))
	}

	enc := wav.NewEncoder(w, rate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{SampleRate: rate, NumChannels: channels},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write to WAV encoder: %w", err)
	}
	return enc.Close()
}

// SaveWAV writes the buffer to path as 16-bit PCM WAV.
func (b *SoundBuffer) SaveWAV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := b.WriteWAV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// NewSoundBufferFromWAV decodes a PCM WAV file in Go and hands the samples
// to CSFML, for WAV variants CSFML's own decoder rejects. 8, 24 and 32-bit
// samples are converted to 16 bits.
func NewSoundBufferFromWAV(r io.ReadSeeker) (*SoundBuffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}

	samples := make([]int16, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = to16(v, int(dec.BitDepth))
	}
	return NewSoundBufferFromSamples(samples, uint32(dec.NumChans), dec.SampleRate)
}

func to16(v, bitDepth int) int16 {
	switch bitDepth {
	case 8:
		return int16((v - 128) << 8)
	case 24:
		return int16(v >> 8)
	case 32:
		return int16(v >> 16)
	}
	return int16(v)
}
