package mir

import (
	"mica/internal/hair"
	"mica/internal/source"
	"mica/internal/types"
)

// InstrKind enumerates instruction kinds in MIR. Instructions never
// alter control flow; that is the terminator's job.
type InstrKind uint8

const (
	// InstrAssign represents an assignment instruction.
	InstrAssign InstrKind = iota
	// InstrDrop runs the destructor of a place at scope exit.
	InstrDrop
	// InstrEndRegion marks the end of a borrowed extent. Renumbering
	// retires these into InstrNop.
	InstrEndRegion
	// InstrCoverage is a coverage-instrumentation marker.
	InstrCoverage
	// InstrNop is the placeholder left by erased instruction kinds.
	InstrNop
)

// Instr represents a MIR instruction. Scope attributes the
// instruction to a source scope for inlining-aware queries.
type Instr struct {
	Kind  InstrKind
	Span  source.Span
	Scope ScopeID

	Assign    AssignInstr
	Drop      DropInstr
	EndRegion EndRegionInstr
	Coverage  Coverage
}

// MakeNop erases the instruction in place, keeping its slot so
// per-instruction metadata indexed elsewhere stays aligned.
func (ins *Instr) MakeNop() {
	*ins = Instr{Kind: InstrNop, Span: ins.Span, Scope: ins.Scope}
}

// AssignInstr represents an assignment instruction.
type AssignInstr struct {
	Dst Place
	Src RValue
}

// DropInstr represents a drop obligation discharged at scope exit.
type DropInstr struct {
	Place Place
}

// EndRegionInstr marks where a lexical borrow region ends.
type EndRegionInstr struct {
	Extent hair.ExtentID
}

// PlaceProjKind distinguishes place projections.
type PlaceProjKind uint8

const (
	PlaceProjDeref PlaceProjKind = iota
	PlaceProjField
)

type PlaceProj struct {
	Kind  PlaceProjKind
	Field int
}

// Place names a storage location: a local plus zero or more
// projections.
type Place struct {
	Local LocalID
	Proj  []PlaceProj
}

func (p Place) IsValid() bool {
	return p.Local != NoLocalID
}

// PlaceOf wraps a bare local as a place.
func PlaceOf(l LocalID) Place {
	return Place{Local: l}
}

// Field extends a place with a field projection.
func (p Place) Field(idx int) Place {
	proj := make([]PlaceProj, 0, len(p.Proj)+1)
	proj = append(proj, p.Proj...)
	proj = append(proj, PlaceProj{Kind: PlaceProjField, Field: idx})
	return Place{Local: p.Local, Proj: proj}
}

// OperandKind distinguishes operand types.
type OperandKind uint8

const (
	// OperandConst represents a constant operand.
	OperandConst OperandKind = iota
	// OperandCopy reads a place without consuming it.
	OperandCopy
	// OperandMove reads a place and consumes it.
	OperandMove
)

// Operand represents a MIR operand.
type Operand struct {
	Kind OperandKind
	Type types.TypeID

	Const Const
	Place Place
}

// ConstOperand wraps a constant as an operand.
func ConstOperand(c Const) Operand {
	return Operand{Kind: OperandConst, Type: c.Type, Const: c}
}

// ConstKind distinguishes constant kinds.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstUint
	ConstFloat
	ConstBool
	ConstStr
	ConstUnit
	ConstFn
)

// Const represents a MIR constant.
type Const struct {
	Kind ConstKind
	Type types.TypeID

	IntValue    int64
	UintValue   uint64
	FloatValue  float64
	BoolValue   bool
	StrValue    string
	FnDef       uint32
}

// BoolConst reports whether the constant is a compile-time boolean,
// and its value. Branch simplification folds on it.
func (c Const) BoolConst() (value, ok bool) {
	if c.Kind != ConstBool {
		return false, false
	}
	return c.BoolValue, true
}

// RValueKind distinguishes right-hand value kinds.
type RValueKind uint8

const (
	// RValueUse represents a use of a value.
	RValueUse RValueKind = iota
	// RValueUnary represents a unary operation.
	RValueUnary
	// RValueBinary represents a binary operation.
	RValueBinary
	// RValueRef borrows a place for a region.
	RValueRef
	// RValueTuple builds a tuple from operands.
	RValueTuple
)

// RValue represents a right-hand value in MIR.
type RValue struct {
	Kind RValueKind

	Use    Operand
	Unary  UnaryOp
	Binary BinaryOp
	Ref    RefRValue
	Tuple  TupleRValue
}

// UseRValue wraps an operand as an rvalue.
func UseRValue(op Operand) RValue {
	return RValue{Kind: RValueUse, Use: op}
}

// UnaryOp represents a unary operation.
type UnaryOp struct {
	Op      hair.UnOp
	Operand Operand
}

// BinaryOp represents a binary operation.
type BinaryOp struct {
	Op    hair.Op
	Left  Operand
	Right Operand
}

// RefRValue borrows Place for Region. The region here is exactly what
// renumbering replaces with an inference variable.
type RefRValue struct {
	Region  types.RegionID
	Mutable bool
	Place   Place
}

// TupleRValue builds a tuple value.
type TupleRValue struct {
	Elems []Operand
}
