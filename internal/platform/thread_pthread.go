//go:build !linux && !windows && !ios && !android && (amd64 || arm64)

package platform

import (
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

var (
	pthreadOnce sync.Once
	pthreadSelf func() uintptr
)

func libcPath() string {
	switch runtime.GOOS {
	case "darwin":
		return "/usr/lib/libSystem.B.dylib"
	case "freebsd":
		return "libc.so.7"
	default:
		return "libc.so"
	}
}

// ThreadID returns pthread_self() of the calling OS thread. The value is only
// stable for a goroutine that has called runtime.LockOSThread.
func ThreadID() uint64 {
	pthreadOnce.Do(func() {
		lib, err := purego.Dlopen(libcPath(), purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			panic("sfgo: cannot load libc for thread identity: " + err.Error())
		}
		purego.RegisterLibFunc(&pthreadSelf, lib, "pthread_self")
	})
	return uint64(pthreadSelf())
}
