//go:build !ios && !android && (amd64 || arm64)

package audio

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/obinnaokechukwu/sfgo/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longTrack() []byte {
	samples := make([]int16, 4096)
	for i := range samples {
		samples[i] = int16(i)
	}
	return encode(2, 22050, samples)
}

func TestMusicFromStreamPullsWhilePlaying(t *testing.T) {
	a := fakeCSFML(t)

	track := longTrack()
	m, err := OpenMusicFromStream(bytes.NewReader(track))
	require.NoError(t, err)
	require.Len(t, a.music, 1)
	fake := a.music[0]

	assert.Equal(t, uint32(2), m.ChannelCount())
	assert.Equal(t, uint32(22050), m.SampleRate())
	assert.Equal(t, 2500*time.Millisecond, m.Duration())
	assert.Equal(t, Stopped, m.Status())

	m.Play()
	assert.Equal(t, Playing, m.Status())
	assert.Eventually(t, func() bool { return fake.bytesDecoded() > 0 }, time.Second, time.Millisecond)

	m.Pause()
	assert.Equal(t, Paused, m.Status())

	require.NoError(t, m.Close())
	assert.Equal(t, 1, fake.destroyed)
	assert.Nil(t, m.src.stream.Raw(), "stream closed after the music")
	require.NoError(t, m.Close())
	assert.Equal(t, 1, fake.destroyed)
}

func TestMusicCloseWhilePlaying(t *testing.T) {
	a := fakeCSFML(t)

	m, err := OpenMusicFromStream(bytes.NewReader(longTrack()))
	require.NoError(t, err)
	m.SetLoop(true)
	assert.True(t, m.Loop())
	m.Play()
	assert.Eventually(t, func() bool { return a.music[0].bytesDecoded() > 0 }, time.Second, time.Millisecond)

	// Destroying the music joins its audio thread before the stream goes.
	require.NoError(t, m.Close())
	assert.Equal(t, 1, a.music[0].destroyed)
}

func TestMusicVolume(t *testing.T) {
	fakeCSFML(t)

	m, err := OpenMusicFromMemory(longTrack())
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, float32(100), m.Volume())
	m.SetVolume(35.5)
	assert.Equal(t, float32(35.5), m.Volume())
	m.SetVolume(150)
	assert.Equal(t, float32(100), m.Volume())
	m.SetVolume(-3)
	assert.Equal(t, float32(0), m.Volume())
}

func TestMusicStop(t *testing.T) {
	fakeCSFML(t)

	m, err := OpenMusicFromMemory(longTrack())
	require.NoError(t, err)
	defer m.Close()

	m.Play()
	m.Stop()
	assert.Equal(t, Stopped, m.Status())
}

func TestMusicFailures(t *testing.T) {
	fakeCSFML(t)

	_, err := OpenMusicFromStream(bytes.NewReader([]byte("OggS")))
	assert.ErrorIs(t, err, native.ErrCreateFailed)
	assert.Contains(t, err.Error(), "sfMusic_createFromStream")

	_, err = OpenMusicFromMemory(nil)
	assert.ErrorIs(t, err, native.ErrCreateFailed)

	_, err = OpenMusicFromFile("missing.flac")
	assert.ErrorIs(t, err, native.ErrCreateFailed)

	_, err = OpenMusicFromStream(nil)
	assert.Error(t, err)
}

func TestMusicUseAfterClosePanics(t *testing.T) {
	fakeCSFML(t)

	m, err := OpenMusicFromMemory(longTrack())
	require.NoError(t, err)
	require.NoError(t, m.Close())
	assert.Panics(t, func() { m.Play() })
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "playing", Playing.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}

//go:noinline
func abandonMusic(t *testing.T, open func() (*Music, error)) {
	_, err := open()
	require.NoError(t, err)
}

func TestUnclosedMusicIsReleasedByCleanup(t *testing.T) {
	a := fakeCSFML(t)

	abandonMusic(t, func() (*Music, error) { return OpenMusicFromMemory(longTrack()) })
	abandonMusic(t, func() (*Music, error) { return OpenMusicFromStream(bytes.NewReader(longTrack())) })
	require.Len(t, a.music, 2)

	assert.Eventually(t, func() bool {
		runtime.GC()
		return a.destroyCount(0) == 1 && a.destroyCount(1) == 1
	}, 5*time.Second, 10*time.Millisecond)
}
