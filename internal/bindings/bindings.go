//go:build !ios && !android && (amd64 || arm64)

// Package bindings handles loading the CSFML shared libraries so the wrapper
// packages can register their function bindings with purego.
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/sfgo/internal/logging"
	"github.com/obinnaokechukwu/sfgo/internal/platform"
	"go.uber.org/zap"
)

// ErrNotLoaded is returned when CSFML functions are called before Load().
var ErrNotLoaded = errors.New("sfgo: CSFML libraries not loaded; call sfgo.Init() first")

// ErrLibraryNotFound is returned when a required CSFML library cannot be found.
var ErrLibraryNotFound = errors.New("sfgo: CSFML library not found")

// LibDirEnv names the environment variable searched before any system path.
const LibDirEnv = "SFGO_LIB_DIR"

// Versions lists the CSFML releases sfgo binds against, newest first.
var Versions = []string{"2.6", "2.5", "2"}

// Library identifies one CSFML module.
type Library int

const (
	System Library = iota
	Window
	Graphics
	Audio
	numLibraries
)

var libraryNames = [numLibraries]string{
	System:   "csfml-system",
	Window:   "csfml-window",
	Graphics: "csfml-graphics",
	Audio:    "csfml-audio",
}

// String returns the library base name, e.g. "csfml-audio".
func (l Library) String() string {
	if l < 0 || l >= numLibraries {
		return fmt.Sprintf("Library(%d)", int(l))
	}
	return libraryNames[l]
}

var (
	libs  [numLibraries]uintptr
	paths [numLibraries]string

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

// IsLoaded returns true if the CSFML libraries have been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load loads the CSFML libraries. csfml-system is required; the window,
// graphics and audio modules are optional so that, for example, an
// audio-only program does not need an OpenGL stack.
// It is safe to call multiple times; subsequent calls are no-ops.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad() error {
	log := logging.Logger()

	// Dependency order: system first, graphics after window.
	var err error
	libs[System], paths[System], err = loadLibrary(System.String(), Versions)
	if err != nil {
		return fmt.Errorf("loading %s: %w", System, err)
	}
	log.Debug("loaded library", zap.Stringer("library", System), zap.String("path", paths[System]))

	for _, l := range []Library{Window, Graphics, Audio} {
		if l == Graphics && libs[Window] == 0 {
			continue
		}
		libs[l], paths[l], err = loadLibrary(l.String(), Versions)
		if err != nil {
			log.Debug("optional library unavailable", zap.Stringer("library", l), zap.Error(err))
			continue
		}
		log.Debug("loaded library", zap.Stringer("library", l), zap.String("path", paths[l]))
	}
	return nil
}

// loadLibrary attempts to load a library by trying versioned names.
func loadLibrary(name string, versions []string) (uintptr, string, error) {
	for _, dir := range LibrarySearchPaths() {
		for _, candidate := range candidateNames(name, versions) {
			full := filepath.Join(dir, candidate)
			if lib, err := tryOpen(full); err == nil {
				return lib, full, nil
			}
		}
	}

	// Let the system loader resolve it.
	for _, candidate := range candidateNames(name, versions) {
		if lib, err := tryOpen(candidate); err == nil {
			return lib, candidate, nil
		}
	}

	return 0, "", fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

func candidateNames(name string, versions []string) []string {
	names := make([]string, 0, len(versions)+1)
	for _, ver := range versions {
		names = append(names, platform.FormatLibraryName(name, ver))
	}
	return append(names, platform.FormatLibraryName(name, ""))
}

// tryOpen opens a library with RTLD_NOW | RTLD_GLOBAL. CSFML modules resolve
// each other's symbols, so they must be global.
func tryOpen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

// FindLibrary searches for a library and returns its full path without
// loading it. Useful for diagnostics.
func FindLibrary(name string, versions []string) (string, error) {
	for _, dir := range LibrarySearchPaths() {
		for _, candidate := range candidateNames(name, versions) {
			full := filepath.Join(dir, candidate)
			if _, err := os.Stat(full); err == nil {
				return full, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// LibrarySearchPaths returns the directories searched for CSFML, starting
// with $SFGO_LIB_DIR and the platform loader path.
func LibrarySearchPaths() []string {
	var dirs []string
	if dir := os.Getenv(LibDirEnv); dir != "" {
		dirs = append(dirs, dir)
	}

	switch runtime.GOOS {
	case "linux":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			dirs = append(dirs, filepath.SplitList(ldPath)...)
		}
		dirs = append(dirs,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/local/lib",
			"/usr/lib",
			"/usr/lib64",
			"/lib",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			dirs = append(dirs, filepath.SplitList(dyldPath)...)
		}
		dirs = append(dirs,
			"/opt/homebrew/lib",           // Apple Silicon
			"/usr/local/lib",              // Intel
			"/opt/homebrew/opt/csfml/lib", // Homebrew CSFML
			"/usr/local/opt/csfml/lib",    // Homebrew CSFML (Intel)
		)

	case "windows":
		if exe, err := os.Executable(); err == nil {
			dirs = append(dirs, filepath.Dir(exe))
		}
		if winPath := os.Getenv("PATH"); winPath != "" {
			dirs = append(dirs, filepath.SplitList(winPath)...)
		}
		dirs = append(dirs,
			"C:\\CSFML\\bin",
			"C:\\Program Files\\CSFML\\bin",
		)

	case "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			dirs = append(dirs, filepath.SplitList(ldPath)...)
		}
		dirs = append(dirs,
			"/usr/local/lib",
			"/usr/lib",
		)
	}

	return dirs
}

// Lib returns the handle of a loaded library, or 0 when it is unavailable.
func Lib(l Library) uintptr {
	if l < 0 || l >= numLibraries {
		return 0
	}
	return libs[l]
}

// Path returns where a library was loaded from, or "" when it is unavailable.
func Path(l Library) string {
	if l < 0 || l >= numLibraries {
		return ""
	}
	return paths[l]
}

// Version returns the CSFML release a loaded library's file name declares,
// such as "2.6", or "" when it was found under its unversioned name or not
// at all.
func Version(l Library) string {
	base := filepath.Base(Path(l))
	for _, v := range Versions {
		if base == platform.FormatLibraryName(l.String(), v) {
			return v
		}
	}
	return ""
}

// Has reports whether a library was loaded.
func Has(l Library) bool {
	return Lib(l) != 0
}

// LoadLibrary loads an additional library by name, trying the given versions.
// The core CSFML libraries are loaded first.
func LoadLibrary(name string, versions []string) (uintptr, error) {
	if err := Load(); err != nil {
		return 0, err
	}
	lib, _, err := loadLibrary(name, versions)
	return lib, err
}

// RegisterOptional binds fptr to symbol name in lib. It reports false instead
// of panicking when the symbol is missing, which happens with older CSFML
// releases.
func RegisterOptional(fptr any, lib uintptr, name string) (ok bool) {
	if lib == 0 {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			logging.Logger().Debug("symbol unavailable", zap.String("symbol", name), zap.Any("reason", r))
			ok = false
		}
	}()
	purego.RegisterLibFunc(fptr, lib, name)
	return true
}
