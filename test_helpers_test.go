package shogun

import (
	"encoding/binary"
	"hash/fnv"
	randv2 "math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *randv2.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return randv2.New(randv2.NewPCG(testSeed1^s1, testSeed2^s2))
}

// randomSparseVector generates k entries with indices drawn from a large
// raw space and values in [-1, 1).
func randomSparseVector(rng *randv2.Rand, k int) SparseVector[float64] {
	vec := make(SparseVector[float64], k)
	for i := range vec {
		vec[i] = Entry[float64]{
			Index: rng.Uint64() >> 8,
			Value: rng.Float64()*2 - 1,
		}
	}
	return vec
}

// identitySum decodes the first 8 little-endian bytes, so a raw index maps
// to itself (mod dim). For 16-byte pair encodings it reads the low index.
func identitySum(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b[:8])
}
