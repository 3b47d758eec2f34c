package memory

import (
	"fmt"
	"sort"

	"mica/internal/layout"
)

// AllocID identifies an interned allocation. Zero is never a valid id.
type AllocID uint64

const NoAllocID AllocID = 0

// ProvEntry records that the pointer-sized bytes starting at Offset
// carry provenance: they were written as a pointer into Alloc, not as
// plain integer data.
type ProvEntry struct {
	Offset uint64
	Alloc  AllocID
}

// Allocation is a block of const-evaluated memory: raw bytes, an init
// mask over them, and the provenance map for embedded pointers.
type Allocation struct {
	Bytes      []byte
	Init       InitMask
	Provenance []ProvEntry
	Align      uint64
	Mutable    bool
}

// NewAllocation returns a fully uninitialized allocation of n bytes.
func NewAllocation(n int, align uint64) *Allocation {
	return &Allocation{
		Bytes: make([]byte, n),
		Init:  NewInitMask(n, false),
		Align: align,
	}
}

// Size returns the allocation size in bytes.
func (a *Allocation) Size() int {
	return len(a.Bytes)
}

// WriteUint writes an integer of the given byte size at offset and
// marks the range initialized.
func (a *Allocation) WriteUint(target *layout.Target, offset int, value uint64, size int) error {
	if offset < 0 || offset+size > len(a.Bytes) {
		return fmt.Errorf("memory: write of %d bytes at offset %d exceeds allocation of %d", size, offset, len(a.Bytes))
	}
	var buf [8]byte
	target.ByteOrder().PutUint64(buf[:], value)
	if target.BigEndian {
		copy(a.Bytes[offset:offset+size], buf[8-size:])
	} else {
		copy(a.Bytes[offset:offset+size], buf[:size])
	}
	a.Init.SetRange(offset, offset+size, true)
	return nil
}

// WritePtr writes a pointer (offset-within-target encoded as an
// integer) at offset and records provenance for it.
func (a *Allocation) WritePtr(target *layout.Target, offset int, alloc AllocID, ptrOffset uint64) error {
	if err := a.WriteUint(target, offset, ptrOffset, target.PtrSize); err != nil {
		return err
	}
	a.Provenance = append(a.Provenance, ProvEntry{Offset: uint64(offset), Alloc: alloc}) //nolint:gosec // G115: offset checked non-negative
	sort.Slice(a.Provenance, func(i, j int) bool {
		return a.Provenance[i].Offset < a.Provenance[j].Offset
	})
	return nil
}

// ReadUint reads an integer of the given byte size at offset. The
// range must be initialized.
func (a *Allocation) ReadUint(target *layout.Target, offset, size int) (uint64, error) {
	if offset < 0 || offset+size > len(a.Bytes) {
		return 0, fmt.Errorf("memory: read of %d bytes at offset %d exceeds allocation of %d", size, offset, len(a.Bytes))
	}
	if !a.Init.RangeInit(offset, offset+size) {
		return 0, fmt.Errorf("memory: read of uninitialized bytes at offset %d", offset)
	}
	var buf [8]byte
	if target.BigEndian {
		copy(buf[8-size:], a.Bytes[offset:offset+size])
	} else {
		copy(buf[:size], a.Bytes[offset:offset+size])
	}
	return target.ByteOrder().Uint64(buf[:]), nil
}

// ProvenanceAt returns the provenance entry starting exactly at
// offset, if any.
func (a *Allocation) ProvenanceAt(offset uint64) (AllocID, bool) {
	i := sort.Search(len(a.Provenance), func(i int) bool {
		return a.Provenance[i].Offset >= offset
	})
	if i < len(a.Provenance) && a.Provenance[i].Offset == offset {
		return a.Provenance[i].Alloc, true
	}
	return NoAllocID, false
}

// ProvenanceIn returns the provenance entries whose offsets fall in
// the inclusive range [start, end]. A pointer starting at the last
// byte of a range extends past it but still belongs to the range.
func (a *Allocation) ProvenanceIn(start, end uint64) []ProvEntry {
	var out []ProvEntry
	for _, p := range a.Provenance {
		if p.Offset >= start && p.Offset <= end {
			out = append(out, p)
		}
	}
	return out
}
