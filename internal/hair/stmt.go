package hair

import (
	"mica/internal/source"
)

// StmtKind enumerates desugared statement kinds.
type StmtKind uint8

const (
	// StmtLet binds a pattern against an initializer. The binding
	// lives for the Remainder extent ("everything after this let,
	// within the same block").
	StmtLet StmtKind = iota
	// StmtExpr evaluates an expression for its effect.
	StmtExpr
)

// Stmt represents a desugared statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// LetData holds data for StmtLet.
type LetData struct {
	// Remainder scopes the binding: the rest of the enclosing block.
	Remainder ExtentID
	// InitExtent scopes temporaries of the initializer itself.
	InitExtent ExtentID
	Pat        *Pat
	Init       *Expr // nil for uninitialized lets
}

func (LetData) stmtData() {}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	// Scope bounds temporaries created while evaluating Expr.
	Scope ExtentID
	Expr  *Expr
}

func (ExprStmtData) stmtData() {}
