package probemap_test

import (
	"math"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/lmprobe/pkg/probemap"
)

func tempModelPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "model.binlm")
}

func TestProbeMapInsertFind(t *testing.T) {
	m, err := probemap.New(tempModelPath(t), 16)
	require.NoError(t, err)
	defer m.Close()

	keys := []probemap.TokenList{
		{1},
		{1, 2},
		{2, 1},
		{1, 2, 3},
		{7, 7, 7, 7, 7},
	}
	for i, key := range keys {
		require.NoError(t, m.Insert(key, float32(-i)-0.5, float32(i)/10))
	}

	for i, key := range keys {
		node, ok := m.Find(key)
		require.True(t, ok, "key %v", key)
		require.Equal(t, float32(-i)-0.5, node.Prob)
		require.Equal(t, float32(i)/10, node.Backoff)
	}

	_, ok := m.Find(probemap.TokenList{3, 2, 1})
	require.False(t, ok)
}

func TestProbeMapFindForms(t *testing.T) {
	m, err := probemap.New(tempModelPath(t), 4)
	require.NoError(t, err)
	defer m.Close()

	buffer := []probemap.TokenID{99, 5, 6, 7, 99}
	require.NoError(t, m.Insert(probemap.TokenList{5, 6, 7}, -2.25, -0.125))

	// A window into a longer id buffer queries without copying.
	node, ok := m.FindTokens(buffer[1:4])
	require.True(t, ok)
	require.Equal(t, float32(-2.25), node.Prob)

	node, ok = m.FindSeq(slices.Values(buffer[1:4]))
	require.True(t, ok)
	require.Equal(t, float32(-0.125), node.Backoff)
}

func TestProbeMapDuplicateInsert(t *testing.T) {
	m, err := probemap.New(tempModelPath(t), 8)
	require.NoError(t, err)
	defer m.Close()

	key := probemap.TokenList{10, 20}
	require.NoError(t, m.Insert(key, -1, -2))
	require.ErrorIs(t, m.Insert(key, -3, -4), probemap.ErrDuplicateKey)

	node, ok := m.Find(key)
	require.True(t, ok)
	require.Equal(t, float32(-1), node.Prob)
	require.Equal(t, float32(-2), node.Backoff)
}

func TestProbeMapBuildThenReload(t *testing.T) {
	path := tempModelPath(t)
	nan := float32(math.NaN())

	m, err := probemap.New(path, 101)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		key := probemap.TokenList{probemap.TokenID(i), probemap.TokenID(i + 1)}
		require.NoError(t, m.Insert(key, float32(i)*-0.01, float32(i)*0.001))
	}
	require.NoError(t, m.Insert(probemap.TokenList{12345}, nan, float32(math.Inf(-1))))
	require.NoError(t, m.Close())

	// Reopen in load mode; the capacity is derived from the file size.
	r, err := probemap.New(path, 0)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, uint64(145), r.Capacity()) // ceil(101 / 0.7)
	require.Equal(t, uint64(101), r.Occupied())

	for i := 0; i < 100; i++ {
		key := probemap.TokenList{probemap.TokenID(i), probemap.TokenID(i + 1)}
		node, ok := r.Find(key)
		require.True(t, ok, "key %v lost across reload", key)
		require.Equal(t, float32(i)*-0.01, node.Prob)
		require.Equal(t, float32(i)*0.001, node.Backoff)
	}

	node, ok := r.Find(probemap.TokenList{12345})
	require.True(t, ok)
	require.Equal(t, math.Float32bits(nan), math.Float32bits(node.Prob))
	require.True(t, math.IsInf(float64(node.Backoff), -1))

	_, ok = r.Find(probemap.TokenList{54321})
	require.False(t, ok)
}

func TestProbeMapSaturation(t *testing.T) {
	m, err := probemap.New(tempModelPath(t), 8)
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, uint64(12), m.Capacity())

	// Inserting past the sized capacity must fail cleanly instead of
	// looping forever.
	var failed error
	inserted := 0
	for i := 0; i < 100 && failed == nil; i++ {
		failed = m.Insert(probemap.TokenList{probemap.TokenID(i)}, -1, 0)
		if failed == nil {
			inserted++
		}
	}
	require.ErrorIs(t, failed, probemap.ErrTableFull)
	require.Equal(t, 12, inserted)

	// Everything inserted before the overflow is still intact.
	for i := 0; i < inserted; i++ {
		_, ok := m.Find(probemap.TokenList{probemap.TokenID(i)})
		require.True(t, ok)
	}
}

// TestProbeMapCollidingStartIndex exercises linear probing through the
// public API: a key whose fingerprint maps to the same start index as an
// already-inserted key must land in a following slot and stay findable.
func TestProbeMapCollidingStartIndex(t *testing.T) {
	m, err := probemap.New(tempModelPath(t), 4)
	require.NoError(t, err)
	defer m.Close()

	capacity := m.Capacity()
	require.Equal(t, uint64(6), capacity)

	keyA := probemap.TokenList{1, 2}
	fpA := probemap.Fingerprint(keyA)

	// Search for a single-token key sharing keyA's start index.
	var keyB probemap.TokenList
	for i := uint32(0); ; i++ {
		candidate := probemap.TokenList{probemap.TokenID(i)}
		fp := probemap.Fingerprint(candidate)
		if fp != fpA && fp%capacity == fpA%capacity {
			keyB = candidate
			break
		}
	}

	require.NoError(t, m.Insert(keyA, -1.5, -0.30))
	require.NoError(t, m.Insert(keyB, -4.25, 0))

	node, ok := m.Find(keyA)
	require.True(t, ok)
	require.Equal(t, float32(-1.5), node.Prob)
	require.Equal(t, float32(-0.30), node.Backoff)

	node, ok = m.Find(keyB)
	require.True(t, ok)
	require.Equal(t, float32(-4.25), node.Prob)

	// A third, uninserted key stays absent.
	_, ok = m.Find(probemap.TokenList{1, 2, 3})
	require.False(t, ok)
}

func TestProbeMapInsertOnLoadedMap(t *testing.T) {
	path := tempModelPath(t)

	m, err := probemap.New(path, 4)
	require.NoError(t, err)
	require.NoError(t, m.Insert(probemap.TokenList{1}, -1, 0))
	require.NoError(t, m.Close())

	// A map reopened in load mode is backed by a read-only mapping; Insert
	// must fail with an error instead of faulting on the write.
	r, err := probemap.New(path, 0)
	require.NoError(t, err)
	defer r.Close()

	require.ErrorIs(t, r.Insert(probemap.TokenList{2}, -2, 0), probemap.ErrReadOnly)

	// The table is untouched and still queryable.
	_, ok := r.Find(probemap.TokenList{2})
	require.False(t, ok)
	node, ok := r.Find(probemap.TokenList{1})
	require.True(t, ok)
	require.Equal(t, float32(-1), node.Prob)
}

func TestProbeMapLoadMissingFile(t *testing.T) {
	_, err := probemap.New(filepath.Join(t.TempDir(), "nope.binlm"), 0)
	require.Error(t, err)
}
