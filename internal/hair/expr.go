package hair

import (
	"mica/internal/source"
	"mica/internal/types"
)

// ExprKind enumerates desugared expression kinds. Every node carries
// a fully-resolved type; the builder performs no inference.
type ExprKind uint8

const (
	// ExprLiteral represents literals (int, float, bool, string, unit).
	ExprLiteral ExprKind = iota
	// ExprVarRef represents a reference to a resolved variable.
	ExprVarRef
	// ExprUnary represents unary operators (-, !).
	ExprUnary
	// ExprBinary represents binary operators (+, -, ==, ...).
	ExprBinary
	// ExprBorrow represents an explicit borrow (&x, &mut x).
	ExprBorrow
	// ExprCall represents a function call.
	ExprCall
	// ExprIf represents a conditional expression.
	ExprIf
	// ExprLoop represents an infinite loop; exits through ExprBreak.
	ExprLoop
	// ExprBreak exits the innermost enclosing loop.
	ExprBreak
	// ExprBlock represents a block expression with its own extent.
	ExprBlock
	// ExprReturn writes its value to the return place and leaves the body.
	ExprReturn
	// ExprAssign stores a value into an existing place.
	ExprAssign
	// ExprTuple represents a tuple constructor.
	ExprTuple
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprVarRef:
		return "VarRef"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprBorrow:
		return "Borrow"
	case ExprCall:
		return "Call"
	case ExprIf:
		return "If"
	case ExprLoop:
		return "Loop"
	case ExprBreak:
		return "Break"
	case ExprBlock:
		return "Block"
	case ExprReturn:
		return "Return"
	case ExprAssign:
		return "Assign"
	case ExprTuple:
		return "Tuple"
	default:
		return "Unknown"
	}
}

// Expr represents a desugared expression.
type Expr struct {
	Kind ExprKind
	Type types.TypeID
	Span source.Span
	Data ExprData
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// LitKind enumerates literal payload kinds.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitUint
	LitFloat
	LitBool
	LitStr
	LitUnit
)

// LiteralData holds data for ExprLiteral.
type LiteralData struct {
	Kind  LitKind
	Int   int64
	Uint  uint64
	Float float64
	Bool  bool
	Str   string
}

func (LiteralData) exprData() {}

// VarRefData holds data for ExprVarRef.
type VarRefData struct {
	Var  VarID
	Name string
}

func (VarRefData) exprData() {}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op  UnOp
	Sub *Expr
}

func (UnaryData) exprData() {}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    Op
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// BorrowData holds data for ExprBorrow. Region is the frontend's
// guess; renumbering replaces it later.
type BorrowData struct {
	Mutable bool
	Region  types.RegionID
	Sub     *Expr
}

func (BorrowData) exprData() {}

// CallData holds data for ExprCall.
type CallData struct {
	Fn   *Expr
	Args []*Expr
}

func (CallData) exprData() {}

// IfData holds data for ExprIf. Else may be nil.
type IfData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

func (IfData) exprData() {}

// LoopData holds data for ExprLoop.
type LoopData struct {
	Body *Expr
}

func (LoopData) exprData() {}

// BreakData holds data for ExprBreak.
type BreakData struct{}

func (BreakData) exprData() {}

// BlockData holds data for ExprBlock. Tail may be nil for blocks whose
// value is unit.
type BlockData struct {
	Extent ExtentID
	Stmts  []Stmt
	Tail   *Expr
}

func (BlockData) exprData() {}

// ReturnData holds data for ExprReturn. Value may be nil for bare
// returns from unit bodies.
type ReturnData struct {
	Value *Expr
}

func (ReturnData) exprData() {}

// AssignData holds data for ExprAssign.
type AssignData struct {
	Place *Expr
	Value *Expr
}

func (AssignData) exprData() {}

// TupleExprData holds data for ExprTuple.
type TupleExprData struct {
	Elems []*Expr
}

func (TupleExprData) exprData() {}
