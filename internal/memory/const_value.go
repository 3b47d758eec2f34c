package memory

// ScalarKind distinguishes scalar constant representations.
type ScalarKind uint8

const (
	// ScalarInt is a plain integer of up to 8 bytes.
	ScalarInt ScalarKind = iota
	// ScalarPtr is a pointer into another allocation.
	ScalarPtr
)

// Scalar is a constant that fits in a register: either raw bits with a
// size, or a pointer carrying provenance.
type Scalar struct {
	Kind ScalarKind

	// Int payload.
	Bits uint64
	Size int // bytes, 1..8

	// Ptr payload.
	Alloc  AllocID
	Offset uint64
}

// IntScalar builds an integer scalar.
func IntScalar(bits uint64, size int) Scalar {
	return Scalar{Kind: ScalarInt, Bits: bits, Size: size}
}

// PtrScalar builds a pointer scalar.
func PtrScalar(alloc AllocID, offset uint64) Scalar {
	return Scalar{Kind: ScalarPtr, Alloc: alloc, Offset: offset}
}

// ConstValueKind distinguishes the shapes a const-evaluated value can
// take.
type ConstValueKind uint8

const (
	// ConstValScalar is a register-sized immediate.
	ConstValScalar ConstValueKind = iota
	// ConstValZeroSized occupies no memory.
	ConstValZeroSized
	// ConstValSlice is a (data, length) pair referencing a backing
	// allocation.
	ConstValSlice
	// ConstValIndirect lives in memory: a subrange of an allocation.
	ConstValIndirect
)

// ConstValue is the result of const evaluation in the form the rest of
// the compiler consumes.
type ConstValue struct {
	Kind ConstValueKind

	Scalar Scalar

	// Slice payload.
	SliceData AllocID
	SliceLen  uint64

	// Indirect payload.
	Alloc  AllocID
	Offset uint64
}
