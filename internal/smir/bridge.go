package smir

import (
	"fmt"

	"mica/internal/layout"
	"mica/internal/memory"
	"mica/internal/types"
)

// NewAllocation converts a const-evaluated value of the given type
// into a standalone stable allocation.
//
// Scalars are materialized into a fresh allocation of the type's size;
// slices become the (data pointer, length) pair; indirect values slice
// the byte range of their backing allocation, re-basing provenance
// offsets to the subrange.
func NewAllocation(
	cv memory.ConstValue,
	ty types.TypeID,
	eng *layout.Engine,
	tables *Tables,
) (Allocation, error) {
	switch cv.Kind {
	case memory.ConstValZeroSized:
		l, err := eng.LayoutOf(ty)
		if err != nil {
			return Allocation{}, err
		}
		if l.Size != 0 {
			return Allocation{}, fmt.Errorf("smir: zero-sized value of %d-byte type#%d", l.Size, ty)
		}
		return Allocation{Align: uint64(l.Align)}, nil //nolint:gosec // G115: align is small and positive

	case memory.ConstValScalar:
		return scalarAllocation(cv.Scalar, ty, eng, tables)

	case memory.ConstValSlice:
		return sliceAllocation(cv, eng, tables)

	case memory.ConstValIndirect:
		backing, ok := tables.Resolve(cv.Alloc)
		if !ok {
			return Allocation{}, fmt.Errorf("smir: indirect value references unknown allocation %d", cv.Alloc)
		}
		size, err := eng.SizeOf(ty)
		if err != nil {
			return Allocation{}, err
		}
		return AllocationFilter(backing, cv.Offset, cv.Offset+uint64(size), tables) //nolint:gosec // G115: layout sizes are non-negative

	default:
		return Allocation{}, fmt.Errorf("smir: unknown const value kind %d", cv.Kind)
	}
}

// scalarAllocation writes one scalar into a fresh allocation sized and
// aligned for its type.
func scalarAllocation(s memory.Scalar, ty types.TypeID, eng *layout.Engine, tables *Tables) (Allocation, error) {
	l, err := eng.LayoutOf(ty)
	if err != nil {
		return Allocation{}, err
	}
	a := memory.NewAllocation(l.Size, uint64(l.Align)) //nolint:gosec // G115: align is small and positive
	target := eng.Target

	switch s.Kind {
	case memory.ScalarInt:
		if s.Size > l.Size {
			return Allocation{}, fmt.Errorf("smir: %d-byte scalar does not fit %d-byte type#%d", s.Size, l.Size, ty)
		}
		if err := a.WriteUint(&target, 0, s.Bits, s.Size); err != nil {
			return Allocation{}, err
		}
	case memory.ScalarPtr:
		if err := a.WritePtr(&target, 0, s.Alloc, s.Offset); err != nil {
			return Allocation{}, err
		}
	default:
		return Allocation{}, fmt.Errorf("smir: unknown scalar kind %d", s.Kind)
	}

	return AllocationFilter(a, 0, uint64(a.Size()), tables) //nolint:gosec // G115: size is non-negative
}

// sliceAllocation builds the two-word (data pointer, length)
// representation of a slice value.
func sliceAllocation(cv memory.ConstValue, eng *layout.Engine, tables *Tables) (Allocation, error) {
	target := eng.Target
	ptrSize := target.PtrSize
	a := memory.NewAllocation(2*ptrSize, uint64(target.PtrAlign)) //nolint:gosec // G115: align is small and positive

	if err := a.WritePtr(&target, 0, cv.SliceData, 0); err != nil {
		return Allocation{}, err
	}
	if err := a.WriteUint(&target, ptrSize, cv.SliceLen, ptrSize); err != nil {
		return Allocation{}, err
	}

	return AllocationFilter(a, 0, uint64(a.Size()), tables) //nolint:gosec // G115: size is non-negative
}

// AllocationFilter extracts the byte range [start, end) of an internal
// allocation as a stable allocation. Uninitialized bytes become holes;
// provenance entries at offsets in the inclusive range [start, end]
// are re-based to the subrange start and mapped to stable ids. The
// provenance range keeps its end because a pointer starting at the
// last in-range byte still belongs to the extracted value.
func AllocationFilter(a *memory.Allocation, start, end uint64, tables *Tables) (Allocation, error) {
	if start > end || end > uint64(a.Size()) { //nolint:gosec // G115: size is non-negative
		return Allocation{}, fmt.Errorf("smir: range [%d, %d) exceeds allocation of %d bytes", start, end, a.Size())
	}

	out := Allocation{
		Bytes:   make([]MaybeByte, end-start),
		Align:   a.Align,
		Mutable: a.Mutable,
	}
	for i := start; i < end; i++ {
		if a.Init.Get(int(i)) { //nolint:gosec // G115: bounded by allocation size
			out.Bytes[i-start] = MaybeByte{Set: true, Val: a.Bytes[i]}
		}
	}

	for _, p := range a.ProvenanceIn(start, end) {
		out.Provenance = append(out.Provenance, ProvPair{
			Offset: int(p.Offset - start), //nolint:gosec // G115: bounded by range width
			Alloc:  tables.StableID(p.Alloc),
		})
	}
	return out, nil
}
