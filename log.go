//go:build !ios && !android && (amd64 || arm64)

package sfgo

import (
	"strings"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/sfgo/internal/logging"
	"github.com/obinnaokechukwu/sfgo/internal/shim"
	"github.com/obinnaokechukwu/sfgo/native"
	"go.uber.org/zap"
)

// SetLogger installs the logger sfgo reports library loading, stream
// failures, leaked objects and thread claims to. The default discards
// everything; nil restores it.
func SetLogger(l *zap.Logger) {
	logging.SetLogger(l)
}

// ErrorCallback receives one line of SFML's error output.
type ErrorCallback func(message string)

var (
	errorCallbackMu sync.Mutex
	errorCallback   ErrorCallback
	errorCBHandle   uintptr
)

// CaptureErrors redirects SFML's error output, normally written to stderr
// (failed decodes, missing files, OpenGL trouble), to the sfgo logger at
// warning level and to cb when cb is not nil. It requires the sfshim
// helper.
func CaptureErrors(cb ErrorCallback) error {
	if err := shim.Load(); err != nil {
		return err
	}

	errorCallbackMu.Lock()
	defer errorCallbackMu.Unlock()

	errorCallback = cb
	if errorCBHandle == 0 {
		errorCBHandle = purego.NewCallback(errorCallbackTrampoline)
	}
	return shim.SetErrorCallback(errorCBHandle)
}

// ReleaseErrors sends SFML's error output back to stderr.
func ReleaseErrors() error {
	if err := shim.Load(); err != nil {
		return err
	}

	errorCallbackMu.Lock()
	defer errorCallbackMu.Unlock()

	errorCallback = nil
	return shim.SetErrorCallback(0)
}

// errorCallbackTrampoline is called by the shim once per line.
// Signature: void (*)(const char *line)
func errorCallbackTrampoline(_ purego.CDecl, line *byte) {
	msg := strings.TrimRight(native.GoString(line), "\r\n")
	if msg == "" {
		return
	}
	logging.Logger().Warn("sfml", zap.String("message", msg))

	errorCallbackMu.Lock()
	cb := errorCallback
	errorCallbackMu.Unlock()
	if cb != nil {
		cb(msg)
	}
}

// IsErrorCaptureAvailable reports whether CaptureErrors can work.
func IsErrorCaptureAvailable() bool {
	if err := shim.Load(); err != nil {
		return false
	}
	return shim.IsLoaded()
}
