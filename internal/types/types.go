package types

// TypeID is a stable handle into the Interner's type table.
type TypeID int32

// RegionID is a stable handle into the Interner's region table.
type RegionID int32

const (
	NoTypeID   TypeID   = -1
	NoRegionID RegionID = -1
)

// Kind enumerates type kinds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindBool
	KindInt
	KindUint
	KindFloat
	KindStr
	KindRef
	KindRawPtr
	KindArray
	KindTuple
	KindFn
	KindClosure
)

// Type is the structural descriptor behind a TypeID.
type Type struct {
	Kind Kind

	// Elem is the pointee/element for Ref, RawPtr and Array.
	Elem TypeID
	// Region is the borrow region for Ref.
	Region RegionID
	// Mutable marks &mut references and *mut pointers.
	Mutable bool
	// Bits is the width of Int/Uint/Float (0 means word-sized).
	Bits uint8
	// Count is the Array length.
	Count uint32
	// Extra indexes the tuple/fn/closure side tables.
	Extra uint32
}

// TupleInfo holds the element list of a tuple type.
type TupleInfo struct {
	Elems []TypeID
}

// FnInfo holds the signature of a bare function type.
type FnInfo struct {
	Params []TypeID
	Result TypeID
}

// ClosureInfo holds the definition and substitution list of a closure
// type. Substs carries both type and region arguments, in declaration
// order.
type ClosureInfo struct {
	Def    uint32
	Substs []GenericArg
}

// GenericArg is one entry of a substitution list: either a type or a
// region.
type GenericArg struct {
	IsRegion bool
	Type     TypeID
	Region   RegionID
}

// TypeArg wraps a TypeID as a GenericArg.
func TypeArg(t TypeID) GenericArg { return GenericArg{Type: t, Region: NoRegionID} }

// RegionArg wraps a RegionID as a GenericArg.
func RegionArg(r RegionID) GenericArg { return GenericArg{IsRegion: true, Type: NoTypeID, Region: r} }

// RegionKind enumerates region kinds.
type RegionKind uint8

const (
	// RegionStatic is the whole-program region.
	RegionStatic RegionKind = iota
	// RegionFree is a named region bound by an enclosing item.
	RegionFree
	// RegionBound is a region bound inside the type it occurs in
	// (de Bruijn indexed); never replaced by renumbering.
	RegionBound
	// RegionVar is an inference variable.
	RegionVar
)

// Region is the descriptor behind a RegionID.
type Region struct {
	Kind RegionKind
	// Index is the de Bruijn depth for RegionBound and the variable
	// id for RegionVar.
	Index uint32
	// Name identifies RegionFree regions.
	Name string
}

// IsFree reports whether a region occurrence is subject to
// renumbering. Bound regions belong to the type they occur in and are
// left alone.
func (r Region) IsFree() bool {
	return r.Kind != RegionBound
}
