package probemap

import (
	"encoding/binary"
	"iter"

	"github.com/cespare/xxhash/v2"
)

// fingerprintSeed is folded into every fingerprint. It must never change:
// fingerprints computed while building a model file have to reproduce
// identically when that file is reopened by a later process.
const fingerprintSeed uint64 = 0x2bedf99b3aa222d9

// emptyFingerprint marks an unoccupied slot on disk. Fingerprint never
// produces it; see nonEmpty.
const emptyFingerprint uint64 = 0

// Fingerprint hashes an n-gram into the 64-bit value the table is keyed by.
// The hash covers the seed, every token id in order, and the sequence
// length, so a shorter n-gram never shares a fingerprint with one of its
// extensions merely by being a prefix of it.
//
// Distinct n-grams may still collide; the table treats fingerprint equality
// as key identity and cannot tell the two cases apart.
func Fingerprint(ids []TokenID) uint64 {
	var d xxhash.Digest
	d.Reset()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], fingerprintSeed)
	_, _ = d.Write(buf[:])

	for _, id := range ids {
		binary.LittleEndian.PutUint64(buf[:], uint64(id))
		_, _ = d.Write(buf[:])
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(len(ids)))
	_, _ = d.Write(buf[:])

	return nonEmpty(d.Sum64())
}

// FingerprintSeq hashes a token sequence produced by an iterator, for
// callers that do not hold the n-gram as a slice. It yields the same value
// Fingerprint yields for the equivalent slice.
func FingerprintSeq(seq iter.Seq[TokenID]) uint64 {
	var d xxhash.Digest
	d.Reset()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], fingerprintSeed)
	_, _ = d.Write(buf[:])

	var n uint64
	for id := range seq {
		binary.LittleEndian.PutUint64(buf[:], uint64(id))
		_, _ = d.Write(buf[:])
		n++
	}
	binary.LittleEndian.PutUint64(buf[:], n)
	_, _ = d.Write(buf[:])

	return nonEmpty(d.Sum64())
}

// nonEmpty keeps emptyFingerprint reserved for unoccupied slots: the one
// hash value that would clash with the sentinel is remapped to a fixed
// substitute.
func nonEmpty(fp uint64) uint64 {
	if fp == emptyFingerprint {
		return fingerprintSeed
	}
	return fp
}
