package shogun

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// HashFunction identifies the hash used to map raw feature indices into
// the target dimension. The choice only affects which slots collide;
// every function is deterministic, so two runs over identical input
// produce bit-identical hashed vectors.
type HashFunction uint16

const (
	// HashMurmur3 uses MurmurHash3 (64-bit). This is the default.
	HashMurmur3 HashFunction = 0

	// HashXXHash64 uses xxHash64.
	HashXXHash64 HashFunction = 1

	// HashXXH3 uses xxHash3 (64-bit).
	HashXXH3 HashFunction = 2
)

// String returns the hash function name.
func (h HashFunction) String() string {
	switch h {
	case HashMurmur3:
		return "murmur3"
	case HashXXHash64:
		return "xxhash64"
	case HashXXH3:
		return "xxh3"
	default:
		return "unknown"
	}
}

// sumFunc computes a 64-bit hash of a little-endian encoded index (8 bytes)
// or index pair (16 bytes). Tests inject custom functions here.
type sumFunc func([]byte) uint64

// sum returns the hash implementation, or nil for an unknown id.
func (h HashFunction) sum() sumFunc {
	switch h {
	case HashMurmur3:
		return murmur3.Sum64
	case HashXXHash64:
		return xxhash.Sum64
	case HashXXH3:
		return xxh3.Hash
	default:
		return nil
	}
}

// hashIndex maps a single raw index to a slot in [0, dim).
func hashIndex(sum sumFunc, index uint64, dim uint32) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], index)
	return sum(buf[:]) % uint64(dim)
}

// hashIndexPair maps an unordered pair of raw indices to a slot in [0, dim).
// The indices are canonically ordered before encoding so the slot is
// symmetric in its arguments.
func hashIndexPair(sum sumFunc, i1, i2 uint64, dim uint32) uint64 {
	if i1 > i2 {
		i1, i2 = i2, i1
	}
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], i1)
	binary.LittleEndian.PutUint64(buf[8:16], i2)
	return sum(buf[:]) % uint64(dim)
}

// hashVector projects a raw sparse vector into the fixed target dimension.
//
// Each raw entry (i, v) contributes v to slot sum(i) % dim; contributions
// landing on the same slot are summed, never an error. With useQuadratic,
// every pair of entry positions p <= q (self-pairs included) additionally
// contributes v_p * v_q to the pairwise slot. keepLinear only matters in
// quadratic mode: when false, the linear pass is suppressed and the
// quadratic terms replace the linear signal rather than augmenting it.
//
// The result has unique indices in [0, dim), sorted ascending. Runs in
// O(k) without quadratic expansion and O(k^2) with it, where k = len(raw);
// callers enabling quadratic expansion are responsible for keeping k small.
//
// dim must be positive; constructors validate this before any call.
func hashVector[T Number](raw SparseVector[T], dim uint32, useQuadratic, keepLinear bool, sum sumFunc) SparseVector[T] {
	slots := make(map[uint64]T, len(raw))

	if !useQuadratic || keepLinear {
		for _, e := range raw {
			slots[hashIndex(sum, e.Index, dim)] += e.Value
		}
	}

	if useQuadratic {
		for p := 0; p < len(raw); p++ {
			for q := p; q < len(raw); q++ {
				slot := hashIndexPair(sum, raw[p].Index, raw[q].Index, dim)
				slots[slot] += raw[p].Value * raw[q].Value
			}
		}
	}

	hashed := make(SparseVector[T], 0, len(slots))
	for idx, val := range slots {
		hashed = append(hashed, Entry[T]{Index: idx, Value: val})
	}
	slices.SortFunc(hashed, func(a, b Entry[T]) int {
		if a.Index < b.Index {
			return -1
		}
		if a.Index > b.Index {
			return 1
		}
		return 0
	})
	return hashed
}
