//go:build windows && (amd64 || arm64)

package platform

import "golang.org/x/sys/windows"

// ThreadID returns the Win32 id of the calling OS thread. The value is only
// stable for a goroutine that has called runtime.LockOSThread.
func ThreadID() uint64 {
	return uint64(windows.GetCurrentThreadId())
}
