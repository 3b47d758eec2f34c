package hair

import (
	"mica/internal/source"
	"mica/internal/types"
)

// PatKind enumerates irrefutable pattern kinds. Refutable patterns are
// compiled away by the frontend before lowering.
type PatKind uint8

const (
	// PatBinding binds the matched value to a variable.
	PatBinding PatKind = iota
	// PatWild discards the matched value.
	PatWild
	// PatTuple destructures a tuple field-wise.
	PatTuple
)

// Pat represents an irrefutable pattern.
type Pat struct {
	Kind PatKind
	Type types.TypeID
	Span source.Span
	Data PatData
}

// PatData is the interface for pattern-specific data.
type PatData interface {
	patData()
}

// BindingData holds data for PatBinding. Sub, when non-nil, continues
// matching the same value (name @ subpattern).
type BindingData struct {
	Var     VarID
	Name    string
	Mutable bool
	Sub     *Pat
}

func (BindingData) patData() {}

// WildData holds data for PatWild.
type WildData struct{}

func (WildData) patData() {}

// TuplePatData holds data for PatTuple.
type TuplePatData struct {
	Elems []*Pat
}

func (TuplePatData) patData() {}

// Arg is one explicit argument of a body: its binding pattern and
// resolved type.
type Arg struct {
	Pat  *Pat
	Type types.TypeID
	Span source.Span
}
