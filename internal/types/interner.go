package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Unit  TypeID
	Bool  TypeID
	Int   TypeID
	Uint  TypeID
	Float TypeID
	Str   TypeID
}

// Interner provides stable TypeIDs and RegionIDs by hashing structural
// descriptors. One interner serves one compilation session.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins

	tuples   []TupleInfo
	fns      []FnInfo
	closures []ClosureInfo

	regions     []Region
	regionIndex map[Region]RegionID
	static      RegionID
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:       make(map[typeKey]TypeID, 64),
		regionIndex: make(map[Region]RegionID, 16),
	}
	in.static = in.InternRegion(Region{Kind: RegionStatic})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Int = in.Intern(Type{Kind: KindInt, Bits: 64})
	in.builtins.Uint = in.Intern(Type{Kind: KindUint, Bits: 64})
	in.builtins.Float = in.Intern(Type{Kind: KindFloat, Bits: 64})
	in.builtins.Str = in.Intern(Type{Kind: KindStr})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Region  RegionID
	Mutable bool
	Bits    uint8
	Count   uint32
	Extra   uint32
}

// Intern ensures the provided descriptor has a stable TypeID.
// Aggregate kinds (tuple/fn/closure) are identified by their Extra
// index and must be minted through the Mk helpers.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey{t.Kind, t.Elem, t.Region, t.Mutable, t.Bits, t.Count, t.Extra}
	if id, ok := in.index[key]; ok {
		return id
	}
	raw, err := safecast.Conv[int32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("types: type id overflow: %w", err))
	}
	id := TypeID(raw)
	in.types = append(in.types, t)
	in.index[key] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if in == nil || id < 0 || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MkInt interns a sized signed integer type.
func (in *Interner) MkInt(bits uint8) TypeID {
	return in.Intern(Type{Kind: KindInt, Bits: bits})
}

// MkUint interns a sized unsigned integer type.
func (in *Interner) MkUint(bits uint8) TypeID {
	return in.Intern(Type{Kind: KindUint, Bits: bits})
}

// MkRef interns a reference type.
func (in *Interner) MkRef(region RegionID, elem TypeID, mutable bool) TypeID {
	return in.Intern(Type{Kind: KindRef, Elem: elem, Region: region, Mutable: mutable})
}

// MkRawPtr interns a raw pointer type.
func (in *Interner) MkRawPtr(elem TypeID, mutable bool) TypeID {
	return in.Intern(Type{Kind: KindRawPtr, Elem: elem, Region: NoRegionID, Mutable: mutable})
}

// MkArray interns a fixed-length array type.
func (in *Interner) MkArray(elem TypeID, count uint32) TypeID {
	return in.Intern(Type{Kind: KindArray, Elem: elem, Region: NoRegionID, Count: count})
}

// MkTuple interns a tuple type. Each call mints a fresh side-table
// entry; tuples are not structurally deduplicated.
func (in *Interner) MkTuple(elems []TypeID) TypeID {
	extra, err := safecast.Conv[uint32](len(in.tuples))
	if err != nil {
		panic(fmt.Errorf("types: tuple table overflow: %w", err))
	}
	in.tuples = append(in.tuples, TupleInfo{Elems: elems})
	return in.Intern(Type{Kind: KindTuple, Elem: NoTypeID, Region: NoRegionID, Extra: extra})
}

// MkFn interns a bare function type.
func (in *Interner) MkFn(params []TypeID, result TypeID) TypeID {
	extra, err := safecast.Conv[uint32](len(in.fns))
	if err != nil {
		panic(fmt.Errorf("types: fn table overflow: %w", err))
	}
	in.fns = append(in.fns, FnInfo{Params: params, Result: result})
	return in.Intern(Type{Kind: KindFn, Elem: NoTypeID, Region: NoRegionID, Extra: extra})
}

// MkClosure interns a closure type with its substitution list.
func (in *Interner) MkClosure(def uint32, substs []GenericArg) TypeID {
	extra, err := safecast.Conv[uint32](len(in.closures))
	if err != nil {
		panic(fmt.Errorf("types: closure table overflow: %w", err))
	}
	in.closures = append(in.closures, ClosureInfo{Def: def, Substs: substs})
	return in.Intern(Type{Kind: KindClosure, Elem: NoTypeID, Region: NoRegionID, Extra: extra})
}

// TupleInfo returns the element list of a tuple type.
func (in *Interner) TupleInfo(id TypeID) (*TupleInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple || int(tt.Extra) >= len(in.tuples) {
		return nil, false
	}
	return &in.tuples[tt.Extra], true
}

// FnInfo returns the signature of a function type.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn || int(tt.Extra) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Extra], true
}

// ClosureInfo returns the definition and substs of a closure type.
func (in *Interner) ClosureInfo(id TypeID) (*ClosureInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindClosure || int(tt.Extra) >= len(in.closures) {
		return nil, false
	}
	return &in.closures[tt.Extra], true
}

// InternRegion ensures the provided region descriptor has a stable id.
func (in *Interner) InternRegion(r Region) RegionID {
	if id, ok := in.regionIndex[r]; ok {
		return id
	}
	raw, err := safecast.Conv[int32](len(in.regions))
	if err != nil {
		panic(fmt.Errorf("types: region id overflow: %w", err))
	}
	id := RegionID(raw)
	in.regions = append(in.regions, r)
	in.regionIndex[r] = id
	return id
}

// LookupRegion returns the descriptor for a RegionID.
func (in *Interner) LookupRegion(id RegionID) (Region, bool) {
	if in == nil || id < 0 || int(id) >= len(in.regions) {
		return Region{}, false
	}
	return in.regions[id], true
}

// Static returns the 'static region.
func (in *Interner) Static() RegionID {
	return in.static
}

// FreeRegion interns a named free region.
func (in *Interner) FreeRegion(name string) RegionID {
	return in.InternRegion(Region{Kind: RegionFree, Name: name})
}

// BoundRegion interns a de Bruijn indexed bound region.
func (in *Interner) BoundRegion(depth uint32) RegionID {
	return in.InternRegion(Region{Kind: RegionBound, Index: depth})
}

// RegionVarID interns an inference-variable region.
func (in *Interner) RegionVarID(vid uint32) RegionID {
	return in.InternRegion(Region{Kind: RegionVar, Index: vid})
}

// NeedsDrop reports whether values of a type carry a destructor
// obligation. References, raw pointers and scalars never do.
func (in *Interner) NeedsDrop(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindStr, KindClosure:
		return true
	case KindArray:
		return in.NeedsDrop(tt.Elem)
	case KindTuple:
		info, ok := in.TupleInfo(id)
		if !ok {
			return false
		}
		for _, e := range info.Elems {
			if in.NeedsDrop(e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
