// Package probemap implements a read-optimized, disk-persistable store
// mapping n-gram keys to (probability, backoff) float pairs, as used by a
// statistical language-model backend.
//
// For space and time efficiency only the 64-bit fingerprint of each key is
// retained, so the store cannot enumerate which keys exist; it can only
// answer whether a given key's fingerprint holds a value. Distinct n-grams
// hashing to the same fingerprint are indistinguishable, an accepted
// approximation of this design. Storage is a flat memory-mapped word array,
// which makes reopening an already-built model file cheap.
package probemap

import (
	"errors"
	"fmt"
	"iter"

	"github.com/ostafen/lmprobe/pkg/diskvec"
)

// ErrReadOnly is returned by Insert on a map opened in load mode, whose
// backing file is mapped read-only.
var ErrReadOnly = errors.New("probemap: map opened read-only")

// Node is a decoded query result: the log-probability of an n-gram and its
// backoff weight.
type Node struct {
	Prob    float32
	Backoff float32
}

// ProbeMap is an open-addressing hash table over a disk-backed word array.
//
// A ProbeMap exclusively owns its backing file: hand the pointer off to
// transfer ownership, never copy the struct. The intended lifecycle is a
// single-writer build phase (all inserts, then Close to make the file
// durable) followed by any number of concurrent readers over a map reopened
// in load mode. Inserts concurrent with anything else are not safe.
type ProbeMap struct {
	vec   *diskvec.Vector
	table slotTable
}

// New opens a probe map backed by path.
//
// With numElems > 0 a fresh table sized for that many elements is created
// read-write (build mode); the file is truncated if it exists. With
// numElems == 0 an existing model file is reopened read-only and the
// capacity is derived from the file size (load mode).
func New(path string, numElems uint64) (*ProbeMap, error) {
	var (
		vec *diskvec.Vector
		err error
	)
	if numElems > 0 {
		vec, err = diskvec.Create(path, 2*tableCapacity(numElems))
	} else {
		vec, err = diskvec.Open(path)
	}
	if err != nil {
		return nil, err
	}

	table := newSlotTable(vec.Words())
	if table.capacity == 0 {
		vec.Close()
		return nil, fmt.Errorf("probemap: model file %q holds no slots", path)
	}
	return &ProbeMap{vec: vec, table: table}, nil
}

// Insert records the (prob, backoff) pair for key. It returns
// ErrDuplicateKey when the key's fingerprint is already present and
// ErrTableFull when a full scan finds no free slot; in both cases the table
// is unchanged. On a map opened in load mode it returns ErrReadOnly, since
// the backing mapping cannot be written. Insert must not run concurrently
// with any other operation.
func (m *ProbeMap) Insert(key TokenList, prob, backoff float32) error {
	if !m.vec.Writable() {
		return ErrReadOnly
	}
	return m.table.insert(Fingerprint(key), packValue(prob, backoff))
}

// Find looks up an n-gram. The boolean is false when no slot holds the
// key's fingerprint; lookup itself never fails.
func (m *ProbeMap) Find(key TokenList) (Node, bool) {
	return m.findFingerprint(Fingerprint(key))
}

// FindTokens is Find over a raw token-id slice, so a caller holding a
// window into a longer id buffer can query without building a TokenList.
func (m *ProbeMap) FindTokens(ids []TokenID) (Node, bool) {
	return m.findFingerprint(Fingerprint(ids))
}

// FindSeq is Find over an arbitrary token iterator.
func (m *ProbeMap) FindSeq(seq iter.Seq[TokenID]) (Node, bool) {
	return m.findFingerprint(FingerprintSeq(seq))
}

func (m *ProbeMap) findFingerprint(fp uint64) (Node, bool) {
	packed, ok := m.table.find(fp)
	if !ok {
		return Node{}, false
	}
	prob, backoff := unpackValue(packed)
	return Node{Prob: prob, Backoff: backoff}, true
}

// Capacity returns the number of slots in the table.
func (m *ProbeMap) Capacity() uint64 {
	return m.table.capacity
}

// Occupied reports how many slots hold a value. It scans the whole table.
func (m *ProbeMap) Occupied() uint64 {
	return m.table.occupied()
}

// Close releases the backing storage. For a map opened in build mode this
// flushes the table to disk first, so the model file can later be reopened
// in load mode.
func (m *ProbeMap) Close() error {
	return m.vec.Close()
}
