//go:build linux && !android && (amd64 || arm64)

package platform

import "golang.org/x/sys/unix"

// ThreadID returns the kernel id of the calling OS thread. The value is only
// stable for a goroutine that has called runtime.LockOSThread.
func ThreadID() uint64 {
	return uint64(unix.Gettid())
}
