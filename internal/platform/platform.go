//go:build !ios && !android && (amd64 || arm64)

// Package platform provides platform detection and capabilities for sfgo.
// It determines how CSFML libraries are named and how the current OS thread
// is identified on the running operating system.
package platform

import (
	"fmt"
	"runtime"
	"unsafe"
)

// SupportsStructByValue indicates whether purego can pass and return C structs
// by value on this platform. Only Darwin amd64/arm64 supports this; elsewhere
// CSFML functions taking sfVideoMode, sfVector2u or sfTime by value must go
// through the sfshim helper.
const SupportsStructByValue = runtime.GOOS == "darwin" &&
	(runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64")

// Is64Bit indicates whether the platform is 64-bit.
// sfgo only supports 64-bit platforms due to purego limitations.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	switch runtime.GOOS {
	case "darwin":
		LibraryExtension = ".dylib"
		LibraryPrefix = "lib"
	case "windows":
		LibraryExtension = ".dll"
		LibraryPrefix = ""
	default: // linux, freebsd, etc.
		LibraryExtension = ".so"
		LibraryPrefix = "lib"
	}
}

// FormatLibraryName returns the platform-specific CSFML library filename.
// If version is empty, returns the unversioned library name. Windows builds
// of CSFML only carry the major version in the file name.
//
// Examples:
//   - Linux:   FormatLibraryName("csfml-audio", "2.6") -> "libcsfml-audio.so.2.6"
//   - macOS:   FormatLibraryName("csfml-audio", "2.6") -> "libcsfml-audio.2.6.dylib"
//   - Windows: FormatLibraryName("csfml-audio", "2.6") -> "csfml-audio-2.dll"
func FormatLibraryName(name, version string) string {
	return formatLibraryName(runtime.GOOS, name, version)
}

func formatLibraryName(goos, name, version string) string {
	switch goos {
	case "darwin":
		if version != "" {
			return fmt.Sprintf("lib%s.%s.dylib", name, version)
		}
		return fmt.Sprintf("lib%s.dylib", name)
	case "windows":
		if version != "" {
			return fmt.Sprintf("%s-%s.dll", name, majorVersion(version))
		}
		return fmt.Sprintf("%s.dll", name)
	default: // linux, freebsd
		if version != "" {
			return fmt.Sprintf("lib%s.so.%s", name, version)
		}
		return fmt.Sprintf("lib%s.so", name)
	}
}

func majorVersion(version string) string {
	for i := 0; i < len(version); i++ {
		if version[i] == '.' {
			return version[:i]
		}
	}
	return version
}

// GOOS returns the current operating system.
func GOOS() string {
	return runtime.GOOS
}

// GOARCH returns the current architecture.
func GOARCH() string {
	return runtime.GOARCH
}
