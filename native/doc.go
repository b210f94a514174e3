// Package native manages the lifetime of objects allocated by CSFML.
//
// A Box owns one foreign object and runs its type's Disposer exactly once.
// A View borrows the contiguous storage of a foreign container (a
// std::vector, a std::string, an sfSoundBuffer's samples) without copying.
//
// Neither type knows anything about CSFML itself: the disposal and accessor
// functions are supplied per foreign type by the wrapper packages. Supplying
// the wrong function for a type is a silent memory-safety bug that this
// package cannot detect.
package native
