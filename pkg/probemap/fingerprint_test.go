package probemap

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterminism(t *testing.T) {
	ids := []TokenID{42, 7, 42, 1000000}

	fp := Fingerprint(ids)
	for i := 0; i < 10; i++ {
		require.Equal(t, fp, Fingerprint(ids))
	}

	// A copy of the sequence hashes identically: only contents and length
	// matter, not slice identity.
	require.Equal(t, fp, Fingerprint(slices.Clone(ids)))
}

func TestFingerprintOrderSensitive(t *testing.T) {
	require.NotEqual(t, Fingerprint([]TokenID{1, 2}), Fingerprint([]TokenID{2, 1}))
	require.NotEqual(t, Fingerprint([]TokenID{1, 2, 3}), Fingerprint([]TokenID{3, 2, 1}))
}

func TestFingerprintLengthSensitive(t *testing.T) {
	full := []TokenID{5, 6, 7}
	for n := 0; n < len(full); n++ {
		require.NotEqual(t, Fingerprint(full), Fingerprint(full[:n]),
			"prefix of length %d must not hash like the full n-gram", n)
	}
}

func TestFingerprintSeqMatchesSlice(t *testing.T) {
	for _, ids := range [][]TokenID{
		{},
		{0},
		{1, 2, 3},
		{4294967295, 0, 17},
	} {
		require.Equal(t, Fingerprint(ids), FingerprintSeq(slices.Values(ids)))
	}
}

func TestFingerprintNeverEmpty(t *testing.T) {
	// Fingerprint reserves the empty-slot sentinel.
	for i := 0; i < 10000; i++ {
		ids := []TokenID{TokenID(i), TokenID(i * 31)}
		require.NotEqual(t, emptyFingerprint, Fingerprint(ids))
	}
	require.Equal(t, fingerprintSeed, nonEmpty(emptyFingerprint))
}
