// Package diskvec provides a fixed-length array of 64-bit words backed by a
// memory-mapped file, so that a structure built once can be reopened later
// without deserialization.
package diskvec

import (
	"fmt"
	"unsafe"

	"github.com/ostafen/lmprobe/internal/mmap"
)

const wordSize = 8

// Vector is a disk-backed []uint64. Words are stored in host byte order:
// the on-disk image is a verbatim dump of memory, readable only on machines
// of the same endianness.
type Vector struct {
	m     *mmap.MmapFile
	words []uint64
}

// Create sizes path to hold exactly n words, zero-filled, and maps it
// read-write. An existing file at path is truncated.
func Create(path string, n uint64) (*Vector, error) {
	if n == 0 {
		return nil, fmt.Errorf("diskvec: cannot create %q with zero words", path)
	}

	m, err := mmap.Create(path, int64(n)*wordSize)
	if err != nil {
		return nil, err
	}
	return &Vector{m: m, words: wordsOf(m.Data)}, nil
}

// Open maps an existing file read-only. The word count is derived from the
// file size, which must be a multiple of the word size.
func Open(path string) (*Vector, error) {
	m, err := mmap.NewMmapFile(path)
	if err != nil {
		return nil, err
	}

	if len(m.Data)%wordSize != 0 {
		m.Close()
		return nil, fmt.Errorf("diskvec: size of %q (%d bytes) is not a whole number of words", path, len(m.Data))
	}
	return &Vector{m: m, words: wordsOf(m.Data)}, nil
}

// wordsOf reinterprets a mapped byte region as words. Mappings are
// page-aligned, so the uint64 view is always correctly aligned.
func wordsOf(data []byte) []uint64 {
	return unsafe.Slice((*uint64)(unsafe.Pointer(unsafe.SliceData(data))), len(data)/wordSize)
}

// Words exposes the mapped words. The slice aliases the file mapping and
// must not be used after Close. Writing through it is only valid for
// vectors obtained from Create.
func (v *Vector) Words() []uint64 {
	return v.words
}

// Writable reports whether the vector was obtained from Create and may be
// written through Words.
func (v *Vector) Writable() bool {
	return v.m.Writable()
}

// Len returns the number of words in the vector.
func (v *Vector) Len() uint64 {
	return uint64(len(v.words))
}

// Flush writes dirty pages of a writable vector back to the file.
func (v *Vector) Flush() error {
	return v.m.Sync()
}

// Close releases the mapping and the underlying file, flushing writable
// vectors first so the on-disk image is complete.
func (v *Vector) Close() error {
	v.words = nil
	return v.m.Close()
}
