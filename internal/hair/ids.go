package hair

// ExtentID identifies a lexical extent ("everything between entering
// and leaving a region of source"). Extents are handed down by the
// frontend's desugaring; the builder only nests and closes them.
type ExtentID int32

// VarID identifies a resolved user variable within one body.
type VarID int32

const (
	NoExtentID ExtentID = -1
	NoVarID    VarID    = -1
)

// Op enumerates binary operators surviving desugaring.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func (op Op) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// UnOp enumerates unary operators surviving desugaring.
type UnOp uint8

const (
	UnNeg UnOp = iota
	UnNot
)

func (op UnOp) String() string {
	switch op {
	case UnNeg:
		return "-"
	case UnNot:
		return "!"
	default:
		return "?"
	}
}
