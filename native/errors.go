package native

import "errors"

var (
	// ErrCreateFailed is returned when a foreign constructor returns null.
	// Wrappers add the name of the foreign function.
	ErrCreateFailed = errors.New("sfgo: native object creation failed")

	// ErrClosed is returned when a closed wrapper is used through an
	// error-returning method.
	ErrClosed = errors.New("sfgo: use of closed object")
)
