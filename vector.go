package shogun

// Number is the set of scalar element types a sparse vector may carry.
// It covers the integer and floating-point widths the library is
// instantiated over; accumulation in the numeric primitives is always
// performed in float64 regardless of the element type.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Entry is a single (index, value) pair of a sparse vector.
type Entry[T Number] struct {
	Index uint64
	Value T
}

// SparseVector is a sparse vector stored as a sequence of (index, value)
// entries. Raw input vectors may carry unsorted or duplicate indices;
// hashed vectors produced by this library always have unique indices in
// [0, dim), sorted ascending.
type SparseVector[T Number] []Entry[T]

// SparseDot returns the dot product of two sparse vectors over the indices
// present in both.
//
// Both operands must have entries sorted ascending by index with unique
// indices, which holds for all hashed vectors produced by this library.
// The merge runs in O(len(v) + len(other)).
func (v SparseVector[T]) SparseDot(other SparseVector[T]) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v) && j < len(other) {
		switch {
		case v[i].Index < other[j].Index:
			i++
		case v[i].Index > other[j].Index:
			j++
		default:
			sum += float64(v[i].Value) * float64(other[j].Value)
			i++
			j++
		}
	}
	return sum
}
