package native

import (
	"strings"
	"unsafe"
)

// GoString copies the NUL-terminated string at p into Go memory. A nil p
// yields "".
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

// CString returns s as NUL-terminated bytes. Interior NULs truncate the
// string the way the foreign side would read it.
func CString(s string) []byte {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}
