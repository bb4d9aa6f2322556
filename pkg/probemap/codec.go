package probemap

import "math"

// Values are stored as two packed float32s in a single word: the
// probability bits occupy the upper 32 bits, the backoff bits the lower 32.
// Packing is pure bit reinterpretation, so every float32 pattern round-trips
// exactly, non-finite values included.

func packValue(prob, backoff float32) uint64 {
	return uint64(math.Float32bits(prob))<<32 | uint64(math.Float32bits(backoff))
}

func unpackValue(word uint64) (prob, backoff float32) {
	return math.Float32frombits(uint32(word >> 32)), math.Float32frombits(uint32(word))
}
