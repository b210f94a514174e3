//go:build !ios && !android && (amd64 || arm64)

package audio

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/sfgo/internal/bindings"
)

// Function bindings, registered by registerBindings.
//
// sfTime is a struct holding one sfInt64, returned in the first integer
// register on every supported ABI, so getDuration is bound as returning
// int64 microseconds.
var (
	sfSoundBufferCreateFromFile    func(path string) unsafe.Pointer
	sfSoundBufferCreateFromMemory  func(data unsafe.Pointer, size uintptr) unsafe.Pointer
	sfSoundBufferCreateFromStream  func(stream unsafe.Pointer) unsafe.Pointer
	sfSoundBufferCreateFromSamples func(samples unsafe.Pointer, count uint64, channels, rate uint32) unsafe.Pointer
	sfSoundBufferCopy              func(b unsafe.Pointer) unsafe.Pointer
	sfSoundBufferDestroy           func(b unsafe.Pointer)
	sfSoundBufferGetSamples        func(b unsafe.Pointer) *int16
	sfSoundBufferGetSampleCount    func(b unsafe.Pointer) uint64
	sfSoundBufferGetSampleRate     func(b unsafe.Pointer) uint32
	sfSoundBufferGetChannelCount   func(b unsafe.Pointer) uint32
	sfSoundBufferGetDuration       func(b unsafe.Pointer) int64

	sfMusicCreateFromFile   func(path string) unsafe.Pointer
	sfMusicCreateFromMemory func(data unsafe.Pointer, size uintptr) unsafe.Pointer
	sfMusicCreateFromStream func(stream unsafe.Pointer) unsafe.Pointer
	sfMusicDestroy          func(m unsafe.Pointer)
	sfMusicPlay             func(m unsafe.Pointer)
	sfMusicPause            func(m unsafe.Pointer)
	sfMusicStop             func(m unsafe.Pointer)
	sfMusicSetVolume        func(m unsafe.Pointer, volume float32)
	sfMusicGetVolume        func(m unsafe.Pointer) float32
	sfMusicSetLoop          func(m unsafe.Pointer, loop int32)
	sfMusicGetLoop          func(m unsafe.Pointer) int32
	sfMusicGetStatus        func(m unsafe.Pointer) int32
	sfMusicGetChannelCount  func(m unsafe.Pointer) uint32
	sfMusicGetSampleRate    func(m unsafe.Pointer) uint32
	sfMusicGetDuration      func(m unsafe.Pointer) int64

	bindingsMu         sync.Mutex
	bindingsRegistered bool
)

func registerBindings() {
	bindingsMu.Lock()
	defer bindingsMu.Unlock()
	if bindingsRegistered {
		return
	}

	if err := bindings.Load(); err != nil {
		return // reported by ensureLoaded
	}
	lib := bindings.Lib(bindings.Audio)
	if lib == 0 {
		return
	}

	purego.RegisterLibFunc(&sfSoundBufferCreateFromFile, lib, "sfSoundBuffer_createFromFile")
	purego.RegisterLibFunc(&sfSoundBufferCreateFromMemory, lib, "sfSoundBuffer_createFromMemory")
	purego.RegisterLibFunc(&sfSoundBufferCreateFromStream, lib, "sfSoundBuffer_createFromStream")
	purego.RegisterLibFunc(&sfSoundBufferCreateFromSamples, lib, "sfSoundBuffer_createFromSamples")
	purego.RegisterLibFunc(&sfSoundBufferCopy, lib, "sfSoundBuffer_copy")
	purego.RegisterLibFunc(&sfSoundBufferDestroy, lib, "sfSoundBuffer_destroy")
	purego.RegisterLibFunc(&sfSoundBufferGetSamples, lib, "sfSoundBuffer_getSamples")
	purego.RegisterLibFunc(&sfSoundBufferGetSampleCount, lib, "sfSoundBuffer_getSampleCount")
	purego.RegisterLibFunc(&sfSoundBufferGetSampleRate, lib, "sfSoundBuffer_getSampleRate")
	purego.RegisterLibFunc(&sfSoundBufferGetChannelCount, lib, "sfSoundBuffer_getChannelCount")
	purego.RegisterLibFunc(&sfSoundBufferGetDuration, lib, "sfSoundBuffer_getDuration")

	purego.RegisterLibFunc(&sfMusicCreateFromFile, lib, "sfMusic_createFromFile")
	purego.RegisterLibFunc(&sfMusicCreateFromMemory, lib, "sfMusic_createFromMemory")
	purego.RegisterLibFunc(&sfMusicCreateFromStream, lib, "sfMusic_createFromStream")
	purego.RegisterLibFunc(&sfMusicDestroy, lib, "sfMusic_destroy")
	purego.RegisterLibFunc(&sfMusicPlay, lib, "sfMusic_play")
	purego.RegisterLibFunc(&sfMusicPause, lib, "sfMusic_pause")
	purego.RegisterLibFunc(&sfMusicStop, lib, "sfMusic_stop")
	purego.RegisterLibFunc(&sfMusicSetVolume, lib, "sfMusic_setVolume")
	purego.RegisterLibFunc(&sfMusicGetVolume, lib, "sfMusic_getVolume")
	purego.RegisterLibFunc(&sfMusicSetLoop, lib, "sfMusic_setLoop")
	purego.RegisterLibFunc(&sfMusicGetLoop, lib, "sfMusic_getLoop")
	purego.RegisterLibFunc(&sfMusicGetStatus, lib, "sfMusic_getStatus")
	purego.RegisterLibFunc(&sfMusicGetChannelCount, lib, "sfMusic_getChannelCount")
	purego.RegisterLibFunc(&sfMusicGetSampleRate, lib, "sfMusic_getSampleRate")
	purego.RegisterLibFunc(&sfMusicGetDuration, lib, "sfMusic_getDuration")

	bindingsRegistered = true
}

// ensureLoaded registers the bindings on first use, so SFGO_LIB_DIR may be
// set any time before then. It reports why the audio bindings are unusable,
// if they are.
func ensureLoaded() error {
	registerBindings()
	bindingsMu.Lock()
	defer bindingsMu.Unlock()
	if bindingsRegistered {
		return nil
	}
	if err := bindings.Load(); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", bindings.ErrLibraryNotFound, bindings.Audio)
}

func sfBool(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
