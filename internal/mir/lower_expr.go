package mir

import (
	"fmt"

	"mica/internal/hair"
)

// exprIntoPlace lowers e, writing its result into dst and threading
// the current block forward.
func (l *builder) exprIntoPlace(dst Place, e *hair.Expr) {
	if e == nil {
		l.assign(dst, UseRValue(ConstOperand(l.unitConst())), l.body.Span)
		return
	}

	switch e.Kind {
	case hair.ExprIf:
		d := e.Data.(hair.IfData)
		cond := l.exprAsOperand(d.Cond)

		thenB := l.body.StartNewBlock()
		elseB := l.body.StartNewBlock()
		joinB := l.body.StartNewBlock()
		l.terminate(Terminator{Kind: TermIf, If: IfTerm{Cond: cond, Then: thenB, Else: elseB}})

		l.startBlock(thenB)
		l.exprIntoPlace(dst, d.Then)
		if !l.curBlock().Terminated() {
			l.gotoBlock(joinB)
		}

		l.startBlock(elseB)
		if d.Else != nil {
			l.exprIntoPlace(dst, d.Else)
		} else {
			l.assign(dst, UseRValue(ConstOperand(l.unitConst())), e.Span)
		}
		if !l.curBlock().Terminated() {
			l.gotoBlock(joinB)
		}

		l.startBlock(joinB)

	case hair.ExprLoop:
		d := e.Data.(hair.LoopData)
		loopB := l.body.StartNewBlock()
		afterB := l.body.StartNewBlock()
		l.gotoBlock(loopB)

		l.loopStack = append(l.loopStack, loopCtx{breakTarget: afterB})
		l.startBlock(loopB)
		l.exprIntoPlace(PlaceOf(l.unitTemp), d.Body)
		if !l.curBlock().Terminated() {
			l.gotoBlock(loopB)
		}
		l.loopStack = l.loopStack[:len(l.loopStack)-1]

		l.startBlock(afterB)
		l.assign(dst, UseRValue(ConstOperand(l.unitConst())), e.Span)

	case hair.ExprBreak:
		if len(l.loopStack) == 0 {
			panic("mir: break outside of loop")
		}
		l.assign(dst, UseRValue(ConstOperand(l.unitConst())), e.Span)
		l.gotoBlock(l.loopStack[len(l.loopStack)-1].breakTarget)
		// Anything lowered after the break lands in a fresh block and
		// is swept by dead-block elimination.
		l.startBlock(l.body.StartNewBlock())

	case hair.ExprReturn:
		d := e.Data.(hair.ReturnData)
		if d.Value != nil {
			l.exprIntoPlace(l.body.ReturnPlace(), d.Value)
		} else {
			l.assign(l.body.ReturnPlace(), UseRValue(ConstOperand(l.unitConst())), e.Span)
		}
		if !l.curBlock().Terminated() {
			l.gotoBlock(EndBlock)
		}
		l.startBlock(l.body.StartNewBlock())
		l.assign(dst, UseRValue(ConstOperand(l.unitConst())), e.Span)

	case hair.ExprBlock:
		d := e.Data.(hair.BlockData)
		l.InScope(d.Extent, l.cur, func() BlockID {
			depth := len(l.scopes)
			l.lowerStmts(d.Stmts)
			if d.Tail != nil {
				l.exprIntoPlace(dst, d.Tail)
			} else {
				l.assign(dst, UseRValue(ConstOperand(l.unitConst())), e.Span)
			}
			// Unwind the remainder extents opened by this block's
			// lets, innermost first.
			for len(l.scopes) > depth {
				top := l.scopes[len(l.scopes)-1]
				l.popScope(top.extent, l.cur)
			}
			return l.cur
		})

	case hair.ExprAssign:
		d := e.Data.(hair.AssignData)
		place := l.exprAsPlace(d.Place)
		l.exprIntoPlace(place, d.Value)
		l.assign(dst, UseRValue(ConstOperand(l.unitConst())), e.Span)

	case hair.ExprCall:
		d := e.Data.(hair.CallData)
		l.lowerCall(dst, e, d)

	default:
		rv := l.exprAsRValue(e)
		l.assign(dst, rv, e.Span)
	}
}

// exprAsRValue lowers a non-control-flow expression to an rvalue.
func (l *builder) exprAsRValue(e *hair.Expr) RValue {
	switch e.Kind {
	case hair.ExprUnary:
		d := e.Data.(hair.UnaryData)
		return RValue{Kind: RValueUnary, Unary: UnaryOp{
			Op:      d.Op,
			Operand: l.exprAsOperand(d.Sub),
		}}
	case hair.ExprBinary:
		d := e.Data.(hair.BinaryData)
		return RValue{Kind: RValueBinary, Binary: BinaryOp{
			Op:    d.Op,
			Left:  l.exprAsOperand(d.Left),
			Right: l.exprAsOperand(d.Right),
		}}
	case hair.ExprBorrow:
		d := e.Data.(hair.BorrowData)
		return RValue{Kind: RValueRef, Ref: RefRValue{
			Region:  d.Region,
			Mutable: d.Mutable,
			Place:   l.exprAsPlace(d.Sub),
		}}
	case hair.ExprTuple:
		d := e.Data.(hair.TupleExprData)
		elems := make([]Operand, len(d.Elems))
		for i, sub := range d.Elems {
			elems[i] = l.exprAsOperand(sub)
		}
		return RValue{Kind: RValueTuple, Tuple: TupleRValue{Elems: elems}}
	default:
		return UseRValue(l.exprAsOperand(e))
	}
}

// exprAsOperand lowers e to an operand, spilling into a temporary
// when e is not already a constant or a place.
func (l *builder) exprAsOperand(e *hair.Expr) Operand {
	switch e.Kind {
	case hair.ExprLiteral:
		return ConstOperand(l.literalConst(e))
	case hair.ExprVarRef:
		place := l.exprAsPlace(e)
		kind := OperandMove
		if l.isCopy(e.Type) {
			kind = OperandCopy
		}
		return Operand{Kind: kind, Type: e.Type, Place: place}
	default:
		tmp := l.newTemp(e.Type, "op", e.Span)
		l.exprIntoPlace(PlaceOf(tmp), e)
		kind := OperandMove
		if l.isCopy(e.Type) {
			kind = OperandCopy
		}
		return Operand{Kind: kind, Type: e.Type, Place: PlaceOf(tmp)}
	}
}

// exprAsPlace resolves an expression naming a storage location.
func (l *builder) exprAsPlace(e *hair.Expr) Place {
	switch e.Kind {
	case hair.ExprVarRef:
		d := e.Data.(hair.VarRefData)
		local, ok := l.varToLocal[d.Var]
		if !ok {
			panic(fmt.Sprintf("mir: unresolved variable %q (v%d)", d.Name, d.Var))
		}
		return PlaceOf(local)
	default:
		panic(fmt.Sprintf("mir: %s expression is not a place", e.Kind))
	}
}

// lowerCall lowers a call into a Call terminator whose normal edge
// continues in a fresh block and whose unwind edge diverges.
func (l *builder) lowerCall(dst Place, e *hair.Expr, d hair.CallData) {
	fn := l.exprAsOperand(d.Fn)
	args := make([]Operand, len(d.Args))
	for i, a := range d.Args {
		args[i] = l.exprAsOperand(a)
	}
	target := l.body.StartNewBlock()
	l.terminate(Terminator{Kind: TermCall, Call: CallTerm{
		HasDst:  true,
		Dst:     dst,
		Fn:      fn,
		Args:    args,
		Target:  target,
		Cleanup: DivergeBlock,
	}})
	l.startBlock(target)
}

func (l *builder) literalConst(e *hair.Expr) Const {
	d := e.Data.(hair.LiteralData)
	c := Const{Type: e.Type}
	switch d.Kind {
	case hair.LitInt:
		c.Kind = ConstInt
		c.IntValue = d.Int
	case hair.LitUint:
		c.Kind = ConstUint
		c.UintValue = d.Uint
	case hair.LitFloat:
		c.Kind = ConstFloat
		c.FloatValue = d.Float
	case hair.LitBool:
		c.Kind = ConstBool
		c.BoolValue = d.Bool
	case hair.LitStr:
		c.Kind = ConstStr
		c.StrValue = d.Str
	case hair.LitUnit:
		c.Kind = ConstUnit
	default:
		panic(fmt.Sprintf("mir: unknown literal kind %d", d.Kind))
	}
	return c
}
