//go:build !ios && !android && (amd64 || arm64)

// Package shim provides bindings to the sfshim helper library.
//
// The shim is a small C++ library exposing what purego cannot reach through
// CSFML directly:
//   - std::string and std::vector containers, through data/length/destroy
//     accessor triples
//   - CSFML functions that pass sfVideoMode by value, on platforms where
//     purego has no struct-by-value support
//
// The shim is OPTIONAL. Streams, textures, fonts, sounds and music work
// without it; fullscreen mode enumeration, font family names and window
// creation outside Darwin require it.
//
// To build the shim for your platform:
//
//	cd shim && make
package shim

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/sfgo/internal/bindings"
	"github.com/obinnaokechukwu/sfgo/internal/logging"
	"go.uber.org/zap"
)

// ErrShimNotLoaded is returned when shim functions are called but the shim is not available.
var ErrShimNotLoaded = errors.New("sfgo: shim library not loaded; fullscreen modes, font families and portable window creation unavailable")

// ErrShimNotFound is returned when the shim library cannot be found.
var ErrShimNotFound = errors.New("sfgo: shim library not found")

// DirEnv names the environment variable that overrides the shim search.
const DirEnv = "SFGO_SHIM_DIR"

var (
	libShim  uintptr
	loaded   bool
	loadErr  error
	loadMu   sync.Mutex
	shimPath string

	shimStringData    func(s unsafe.Pointer) *byte
	shimStringLength  func(s unsafe.Pointer) uintptr
	shimStringDestroy func(s unsafe.Pointer)

	shimVideoModeVectorFullscreen func() unsafe.Pointer
	shimVideoModeVectorData       func(v unsafe.Pointer) unsafe.Pointer
	shimVideoModeVectorLength     func(v unsafe.Pointer) uintptr
	shimVideoModeVectorDestroy    func(v unsafe.Pointer)

	shimVideoModeDesktop func(out unsafe.Pointer)
	shimVideoModeIsValid func(width, height, bpp uint32) int32

	shimWindowCreate func(width, height, bpp uint32, title string, style uint32) unsafe.Pointer

	shimFontFamily func(font unsafe.Pointer) unsafe.Pointer

	shimSetErrorCallback func(cb uintptr)
)

// Load attempts to load the sfshim library.
// A missing shim is not an error: it is recorded and reported by LoadError
// and by the functions that need it.
//
// The shim is searched for in:
//  1. $SFGO_SHIM_DIR (exclusively, when set)
//  2. LD_LIBRARY_PATH / DYLD_LIBRARY_PATH / PATH
//  3. Standard library paths
//  4. The executable's directory
//  5. The module's shim/ directory
//  6. The current working directory
func Load() error {
	loadMu.Lock()
	defer loadMu.Unlock()

	if loaded || loadErr != nil {
		return nil
	}

	path, err := findShimLibrary()
	if err != nil {
		loadErr = err
		logging.Logger().Debug("shim unavailable", zap.Error(err))
		return nil
	}

	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		loadErr = fmt.Errorf("failed to load shim at %s: %w", path, err)
		logging.Logger().Debug("shim unavailable", zap.Error(loadErr))
		return nil
	}

	libShim = lib
	shimPath = path
	registerBindings()
	loaded = true
	logging.Logger().Debug("loaded shim", zap.String("path", path))
	return nil
}

// IsLoaded returns true if the shim library was successfully loaded.
func IsLoaded() bool {
	loadMu.Lock()
	defer loadMu.Unlock()
	return loaded
}

// Path returns where the shim was loaded from, or "" if it is not loaded.
func Path() string {
	loadMu.Lock()
	defer loadMu.Unlock()
	return shimPath
}

// LoadError returns why the shim failed to load, or nil.
func LoadError() error {
	loadMu.Lock()
	defer loadMu.Unlock()
	return loadErr
}

// Status returns a human-readable status of the shim library.
func Status() string {
	loadMu.Lock()
	defer loadMu.Unlock()

	if loaded {
		return fmt.Sprintf("loaded from %s", shimPath)
	}
	if loadErr != nil {
		return fmt.Sprintf("not loaded: %s", loadErr)
	}
	return "not loaded (Load() not called)"
}

// ExpectedLibraryName returns the shim library filename for the current platform.
func ExpectedLibraryName() string {
	switch runtime.GOOS {
	case "darwin":
		return "libsfshim.dylib"
	case "windows":
		return "sfshim.dll"
	default:
		return "libsfshim.so"
	}
}

// BuildInstructions returns platform-specific instructions for building the shim.
func BuildInstructions() string {
	switch runtime.GOOS {
	case "linux":
		return `To build the shim on Linux:
  1. Install SFML and CSFML development files:
     sudo apt install libsfml-dev libcsfml-dev
  2. Build the shim:
     cd shim && make
  3. Point sfgo at it:
     export SFGO_SHIM_DIR=$PWD/shim`
	case "darwin":
		return `To build the shim on macOS:
  1. Install SFML and CSFML via Homebrew:
     brew install sfml csfml
  2. Build the shim:
     cd shim && make
  3. Point sfgo at it:
     export SFGO_SHIM_DIR=$PWD/shim`
	case "windows":
		return `To build the shim on Windows:
  1. Install MSYS2 and MinGW-w64
  2. Install SFML: pacman -S mingw-w64-x86_64-sfml
  3. Build the shim:
     cd shim && make
  4. Copy sfshim.dll next to your executable or set SFGO_SHIM_DIR`
	default:
		return fmt.Sprintf("Platform %s/%s is not supported for shim building", runtime.GOOS, runtime.GOARCH)
	}
}

func registerBindings() {
	// Partial shim builds are fine: each feature reports its own absence.
	bindings.RegisterOptional(&shimStringData, libShim, "sfshim_string_data")
	bindings.RegisterOptional(&shimStringLength, libShim, "sfshim_string_length")
	bindings.RegisterOptional(&shimStringDestroy, libShim, "sfshim_string_destroy")

	bindings.RegisterOptional(&shimVideoModeVectorFullscreen, libShim, "sfshim_videomode_vector_fullscreen")
	bindings.RegisterOptional(&shimVideoModeVectorData, libShim, "sfshim_videomode_vector_data")
	bindings.RegisterOptional(&shimVideoModeVectorLength, libShim, "sfshim_videomode_vector_length")
	bindings.RegisterOptional(&shimVideoModeVectorDestroy, libShim, "sfshim_videomode_vector_destroy")

	bindings.RegisterOptional(&shimVideoModeDesktop, libShim, "sfshim_videomode_desktop")
	bindings.RegisterOptional(&shimVideoModeIsValid, libShim, "sfshim_videomode_is_valid")

	bindings.RegisterOptional(&shimWindowCreate, libShim, "sfshim_window_create")

	bindings.RegisterOptional(&shimFontFamily, libShim, "sfshim_font_family")

	bindings.RegisterOptional(&shimSetErrorCallback, libShim, "sfshim_set_error_callback")
}

func unavailable(fn string) error {
	return fmt.Errorf("%w: %s requires shim; %s", ErrShimNotLoaded, fn, BuildInstructions())
}

// StringData returns the first byte of a shim-owned std::string.
func StringData(s unsafe.Pointer) *byte {
	if shimStringData == nil || s == nil {
		return nil
	}
	return shimStringData(s)
}

// StringLength returns the byte length of a shim-owned std::string.
func StringLength(s unsafe.Pointer) int {
	if shimStringLength == nil || s == nil {
		return 0
	}
	return int(shimStringLength(s))
}

// StringDestroy frees a shim-owned std::string.
func StringDestroy(s unsafe.Pointer) {
	if shimStringDestroy == nil || s == nil {
		return
	}
	shimStringDestroy(s)
}

// VideoModeVectorFullscreen returns a newly allocated std::vector<sfVideoMode>
// with every supported fullscreen mode, best first. The caller owns it.
func VideoModeVectorFullscreen() (unsafe.Pointer, error) {
	if shimVideoModeVectorFullscreen == nil {
		return nil, unavailable("VideoModeVectorFullscreen")
	}
	return shimVideoModeVectorFullscreen(), nil
}

// VideoModeVectorData returns the first element of a std::vector<sfVideoMode>.
func VideoModeVectorData(v unsafe.Pointer) unsafe.Pointer {
	if shimVideoModeVectorData == nil || v == nil {
		return nil
	}
	return shimVideoModeVectorData(v)
}

// VideoModeVectorLength returns the element count of a std::vector<sfVideoMode>.
func VideoModeVectorLength(v unsafe.Pointer) int {
	if shimVideoModeVectorLength == nil || v == nil {
		return 0
	}
	return int(shimVideoModeVectorLength(v))
}

// VideoModeVectorDestroy frees a std::vector<sfVideoMode>.
func VideoModeVectorDestroy(v unsafe.Pointer) {
	if shimVideoModeVectorDestroy == nil || v == nil {
		return
	}
	shimVideoModeVectorDestroy(v)
}

// VideoModeDesktop writes the desktop sfVideoMode into out.
func VideoModeDesktop(out unsafe.Pointer) error {
	if shimVideoModeDesktop == nil {
		return unavailable("VideoModeDesktop")
	}
	shimVideoModeDesktop(out)
	return nil
}

// VideoModeIsValid reports whether the mode can be used in fullscreen.
func VideoModeIsValid(width, height, bpp uint32) (bool, error) {
	if shimVideoModeIsValid == nil {
		return false, unavailable("VideoModeIsValid")
	}
	return shimVideoModeIsValid(width, height, bpp) != 0, nil
}

// WindowCreate calls sfWindow_create with the mode passed field by field.
func WindowCreate(width, height, bpp uint32, title string, style uint32) (unsafe.Pointer, error) {
	if shimWindowCreate == nil {
		return nil, unavailable("WindowCreate")
	}
	return shimWindowCreate(width, height, bpp, title, style), nil
}

// FontFamily returns a newly allocated std::string holding the font's family
// name. The caller owns it.
func FontFamily(font unsafe.Pointer) (unsafe.Pointer, error) {
	if shimFontFamily == nil {
		return nil, unavailable("FontFamily")
	}
	return shimFontFamily(font), nil
}

func findShimLibrary() (string, error) {
	var names []string

	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		names = []string{"libsfshim.so", "libsfshim.so.1"}
	case "darwin":
		names = []string{"libsfshim.dylib", "libsfshim.1.dylib"}
	case "windows":
		names = []string{"sfshim.dll", "libsfshim.dll"}
	default:
		return "", fmt.Errorf("%w: unsupported platform %s/%s", ErrShimNotFound, runtime.GOOS, runtime.GOARCH)
	}

	if dir := os.Getenv(DirEnv); dir != "" {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
		return "", fmt.Errorf("%w: %s=%s does not contain %s", ErrShimNotFound, DirEnv, dir, names[0])
	}

	var searchPaths []string
	switch runtime.GOOS {
	case "darwin":
		if p := os.Getenv("DYLD_LIBRARY_PATH"); p != "" {
			searchPaths = append(searchPaths, filepath.SplitList(p)...)
		}
	case "windows":
		if p := os.Getenv("PATH"); p != "" {
			searchPaths = append(searchPaths, filepath.SplitList(p)...)
		}
	default:
		if p := os.Getenv("LD_LIBRARY_PATH"); p != "" {
			searchPaths = append(searchPaths, filepath.SplitList(p)...)
		}
	}

	searchPaths = append(searchPaths, "/usr/local/lib", "/usr/lib", "/lib")
	switch runtime.GOOS {
	case "linux":
		if runtime.GOARCH == "amd64" {
			searchPaths = append(searchPaths, "/usr/lib/x86_64-linux-gnu")
		} else {
			searchPaths = append(searchPaths, "/usr/lib/aarch64-linux-gnu")
		}
	case "darwin":
		searchPaths = append(searchPaths, "/opt/homebrew/lib")
	}

	if exe, err := os.Executable(); err == nil {
		searchPaths = append(searchPaths, filepath.Dir(exe))
	}

	// internal/shim/shim.go -> <module_root>/shim
	if _, file, _, ok := runtime.Caller(0); ok {
		moduleRoot := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
		searchPaths = append(searchPaths, filepath.Join(moduleRoot, "shim"))
	}

	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}

	searched := 0
	for _, name := range names {
		for _, dir := range searchPaths {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
			searched++
		}
	}

	return "", fmt.Errorf("%w: looked for %s in %d locations. Set %s or build the shim: cd shim && make",
		ErrShimNotFound, names[0], searched, DirEnv)
}

// SetErrorCallback redirects SFML's error stream (sf::err()) to cb, one
// call per line. cb is a purego callback created with purego.NewCallback
// taking a const char*; 0 restores std::cerr.
func SetErrorCallback(cb uintptr) error {
	if shimSetErrorCallback == nil {
		return unavailable("SetErrorCallback")
	}
	shimSetErrorCallback(cb)
	return nil
}
