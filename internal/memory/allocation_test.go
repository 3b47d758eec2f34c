package memory

import (
	"testing"

	"mica/internal/layout"
)

func TestAllocation_WriteReadUint(t *testing.T) {
	target := layout.X86_64LinuxGNU()
	a := NewAllocation(16, 8)

	if err := a.WriteUint(&target, 4, 0xCAFE, 4); err != nil {
		t.Fatal(err)
	}
	got, err := a.ReadUint(&target, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xCAFE {
		t.Errorf("read %#x, want 0xcafe", got)
	}
}

func TestAllocation_UninitRead(t *testing.T) {
	target := layout.X86_64LinuxGNU()
	a := NewAllocation(8, 8)

	if _, err := a.ReadUint(&target, 0, 8); err == nil {
		t.Error("expected error reading uninitialized bytes")
	}

	if err := a.WriteUint(&target, 0, 1, 4); err != nil {
		t.Fatal(err)
	}
	// Partially initialized range still fails.
	if _, err := a.ReadUint(&target, 0, 8); err == nil {
		t.Error("expected error reading partially initialized range")
	}
}

func TestAllocation_OutOfBounds(t *testing.T) {
	target := layout.X86_64LinuxGNU()
	a := NewAllocation(4, 4)

	if err := a.WriteUint(&target, 2, 0, 4); err == nil {
		t.Error("expected out-of-bounds write to fail")
	}
	if _, err := a.ReadUint(&target, 2, 4); err == nil {
		t.Error("expected out-of-bounds read to fail")
	}
}

func TestAllocation_Provenance(t *testing.T) {
	target := layout.X86_64LinuxGNU()
	a := NewAllocation(24, 8)

	if err := a.WritePtr(&target, 8, AllocID(3), 16); err != nil {
		t.Fatal(err)
	}
	if err := a.WritePtr(&target, 0, AllocID(5), 0); err != nil {
		t.Fatal(err)
	}

	// Entries stay sorted by offset regardless of write order.
	if a.Provenance[0].Offset != 0 || a.Provenance[1].Offset != 8 {
		t.Errorf("provenance not sorted: %+v", a.Provenance)
	}

	id, ok := a.ProvenanceAt(8)
	if !ok || id != 3 {
		t.Errorf("ProvenanceAt(8) = %d, %v", id, ok)
	}
	if _, ok := a.ProvenanceAt(4); ok {
		t.Error("ProvenanceAt(4) reported a hit")
	}

	in := a.ProvenanceIn(4, 24)
	if len(in) != 1 || in[0].Alloc != 3 {
		t.Errorf("ProvenanceIn(4, 24) = %+v", in)
	}
	// The range end is inclusive: an entry sitting exactly on it counts.
	in = a.ProvenanceIn(0, 8)
	if len(in) != 2 {
		t.Errorf("ProvenanceIn(0, 8) = %+v, want both entries", in)
	}
	in = a.ProvenanceIn(0, 7)
	if len(in) != 1 || in[0].Alloc != 5 {
		t.Errorf("ProvenanceIn(0, 7) = %+v", in)
	}

	// The pointer's offset payload reads back as an integer.
	got, err := a.ReadUint(&target, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if got != 16 {
		t.Errorf("pointer payload = %d, want 16", got)
	}
}

func TestInitMask_Ranges(t *testing.T) {
	m := NewInitMask(100, false)

	m.SetRange(10, 20, true)
	if !m.RangeInit(10, 20) {
		t.Error("range [10,20) should be initialized")
	}
	if m.RangeInit(9, 20) || m.RangeInit(10, 21) {
		t.Error("ranges crossing the boundary should not be initialized")
	}
	if m.Get(9) || m.Get(20) {
		t.Error("bytes outside the range were set")
	}

	m.SetRange(12, 15, false)
	if m.RangeInit(10, 20) {
		t.Error("cleared bytes still report initialized")
	}

	// Word-boundary crossing.
	m.SetRange(60, 70, true)
	if !m.RangeInit(60, 70) {
		t.Error("range crossing a word boundary should be initialized")
	}
}

func TestInterner_Deduplicates(t *testing.T) {
	target := layout.X86_64LinuxGNU()
	in := NewInterner()

	mk := func() *Allocation {
		a := NewAllocation(8, 8)
		if err := a.WriteUint(&target, 0, 42, 8); err != nil {
			t.Fatal(err)
		}
		return a
	}

	a := in.Intern(mk())
	b := in.Intern(mk())
	if a != b {
		t.Errorf("identical allocations interned as %d and %d", a, b)
	}
	if in.Len() != 1 {
		t.Errorf("interner holds %d allocations, want 1", in.Len())
	}

	other := NewAllocation(8, 8)
	if err := other.WriteUint(&target, 0, 43, 8); err != nil {
		t.Fatal(err)
	}
	c := in.Intern(other)
	if c == a {
		t.Error("different contents share an id")
	}

	got, ok := in.Get(a)
	if !ok {
		t.Fatal("Get failed for interned id")
	}
	v, err := got.ReadUint(&target, 0, 8)
	if err != nil || v != 42 {
		t.Errorf("round-trip read = %d, %v", v, err)
	}
}

func TestInterner_UninitBytesDistinguish(t *testing.T) {
	in := NewInterner()

	// Same byte values, different init masks: distinct allocations.
	a := NewAllocation(4, 1)
	a.Bytes[0] = 7
	a.Init.Set(0, true)

	b := NewAllocation(4, 1)
	b.Bytes[0] = 7

	if in.Intern(a) == in.Intern(b) {
		t.Error("init mask not part of the identity")
	}
}

func TestInterner_AlignDistinguishes(t *testing.T) {
	in := NewInterner()
	a := NewAllocation(4, 4)
	b := NewAllocation(4, 8)
	if in.Intern(a) == in.Intern(b) {
		t.Error("alignment not part of the identity")
	}
}
