// Package handles stores Go objects that native code refers to through an
// opaque user-data pointer.
//
// Native code must not retain Go pointers, and the collector cannot see
// references held in native memory. Instead of a Go pointer the native side
// gets a small integer ID. The ID is stable while the object stays registered
// and the registry keeps the object reachable until Unregister is called.
//
// Callbacks such as the sfInputStream read/seek/tell/getSize functions turn
// the ID back into the object with Resolve.
package handles

import (
	"sync"
	"sync/atomic"
)

var (
	mu      sync.RWMutex
	objects = make(map[uintptr]any)
	nextID  atomic.Uintptr
)

// Register stores v and returns its handle ID. IDs are never zero and never
// reused within a process, so a stale ID resolves to nothing rather than to
// a different object.
//
// Thread-safe.
func Register(v any) uintptr {
	id := nextID.Add(1)
	mu.Lock()
	objects[id] = v
	mu.Unlock()
	return id
}

// Lookup returns the object registered under id, or nil.
//
// Thread-safe.
func Lookup(id uintptr) any {
	mu.RLock()
	defer mu.RUnlock()
	return objects[id]
}

// Resolve returns the object registered under id if it has type T.
func Resolve[T any](id uintptr) (T, bool) {
	v, ok := Lookup(id).(T)
	return v, ok
}

// Unregister drops id. The object becomes collectable once nothing else
// refers to it. Unregistering an unknown ID is a no-op.
//
// Thread-safe.
func Unregister(id uintptr) {
	mu.Lock()
	delete(objects, id)
	mu.Unlock()
}

// Count returns the number of currently registered handles.
// Useful for leak checks in tests.
func Count() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(objects)
}
