package probemap

import (
	"errors"
	"math"
)

var (
	// ErrDuplicateKey is returned by Insert when the key's fingerprint
	// already occupies a slot. It signals either a duplicate n-gram in the
	// input or an unresolved fingerprint collision between distinct
	// n-grams; the table cannot tell the two apart.
	ErrDuplicateKey = errors.New("probemap: duplicate key fingerprint")

	// ErrTableFull is returned by Insert when a full cyclic scan finds no
	// free slot. The table was sized for fewer elements than were inserted
	// and must be rebuilt with a larger expected count.
	ErrTableFull = errors.New("probemap: table full")
)

// maxLoadFactor bounds occupancy so probe runs stay short and every scan
// over a correctly sized table terminates at an empty slot.
const maxLoadFactor = 0.7

// tableCapacity returns the slot count for an expected element count.
func tableCapacity(numElems uint64) uint64 {
	return uint64(math.Ceil(float64(numElems) / maxLoadFactor))
}

// slotTable is fixed-capacity open addressing with linear probing over a
// word array. Slot i occupies two words: words[2i] holds the fingerprint
// (emptyFingerprint when the slot is free), words[2i+1] the packed value.
// A written slot is never cleared or moved, which is what makes stopping a
// find at the first empty slot sound.
type slotTable struct {
	words    []uint64
	capacity uint64
}

func newSlotTable(words []uint64) slotTable {
	return slotTable{
		words:    words,
		capacity: uint64(len(words)) / 2,
	}
}

func (t slotTable) insert(fp, packed uint64) error {
	idx := fp % t.capacity
	// Bounding the scan at capacity steps guards against an endless probe
	// if the load-factor invariant has been violated.
	for probed := uint64(0); probed < t.capacity; probed++ {
		switch t.words[2*idx] {
		case emptyFingerprint:
			t.words[2*idx] = fp
			t.words[2*idx+1] = packed
			return nil
		case fp:
			return ErrDuplicateKey
		}
		idx++
		if idx == t.capacity {
			idx = 0
		}
	}
	return ErrTableFull
}

func (t slotTable) find(fp uint64) (uint64, bool) {
	idx := fp % t.capacity
	for probed := uint64(0); probed < t.capacity; probed++ {
		switch t.words[2*idx] {
		case fp:
			return t.words[2*idx+1], true
		case emptyFingerprint:
			return 0, false
		}
		idx++
		if idx == t.capacity {
			idx = 0
		}
	}
	return 0, false
}

// occupied counts slots holding a value. Linear in capacity.
func (t slotTable) occupied() uint64 {
	var n uint64
	for i := uint64(0); i < t.capacity; i++ {
		if t.words[2*i] != emptyFingerprint {
			n++
		}
	}
	return n
}
