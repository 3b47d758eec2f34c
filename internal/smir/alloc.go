// Package smir is the stable external view of const-evaluated memory.
// Internal allocation ids and layouts change freely between versions;
// the types here form the contract tooling consumes.
package smir

// AllocID is a stable allocation id, minted per-session in first-seen
// order by Tables. It carries no relation to internal ids.
type AllocID uint64

// MaybeByte is one byte of a stable allocation: either an initialized
// value or an explicit hole.
type MaybeByte struct {
	Set bool
	Val byte
}

// ProvPair records that the pointer at byte offset Offset points into
// the allocation with the given stable id.
type ProvPair struct {
	Offset int
	Alloc  AllocID
}

// Allocation is the stable form of a block of const memory. Bytes
// carries per-byte initialization instead of a separate mask so
// consumers never read an uninitialized byte by accident.
type Allocation struct {
	Bytes      []MaybeByte
	Provenance []ProvPair
	Align      uint64
	Mutable    bool
}

// Size returns the allocation size in bytes.
func (a *Allocation) Size() int {
	return len(a.Bytes)
}

// InitializedBytes returns the raw byte values, reporting false if any
// byte in the allocation is a hole.
func (a *Allocation) InitializedBytes() ([]byte, bool) {
	out := make([]byte, len(a.Bytes))
	for i, b := range a.Bytes {
		if !b.Set {
			return nil, false
		}
		out[i] = b.Val
	}
	return out, true
}
