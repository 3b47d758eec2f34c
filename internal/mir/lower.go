package mir

import (
	"fmt"

	"mica/internal/hair"
	"mica/internal/source"
	"mica/internal/types"
)

// Construct translates one desugared body into MIR. The input is
// already name-resolved and typed; lowering a pattern against an
// incompatible shape panics, since the type-checked program cannot
// produce one.
//
// The resulting body owns its block table (sentinels first), the full
// local table (return slot, args, then user/temp locals in declaration
// order) and the extent map. It contains no dangling block references.
func Construct(
	typesIn *types.Interner,
	span source.Span,
	ret types.TypeID,
	implicitArgs []types.TypeID,
	explicitArgs []hair.Arg,
	argExtent hair.ExtentID,
	body *hair.Expr,
) *Body {
	b := &builder{
		types:      typesIn,
		body:       NewBody(span, ret),
		cur:        StartBlock,
		varToLocal: make(map[hair.VarID]LocalID, 8),
	}

	// Throwaway result slot, shared by constructs that need one.
	b.unitTemp = b.newTemp(typesIn.Builtins().Unit, "unit", span)

	exit := b.InScope(argExtent, StartBlock, func() BlockID {
		for i, ty := range implicitArgs {
			b.body.AddLocal(Local{
				Kind: LocalArg,
				Name: fmt.Sprintf("_impl%d", i+1),
				Type: ty,
				Span: span,
			})
		}
		for i, arg := range explicitArgs {
			slot := b.body.AddLocal(Local{
				Kind: LocalArg,
				Name: fmt.Sprintf("_arg%d", i+1),
				Type: arg.Type,
				Span: arg.Span,
			})
			b.lowerPattern(arg.Pat, PlaceOf(slot))
		}
		b.body.ArgCount = len(implicitArgs) + len(explicitArgs)

		b.exprIntoPlace(b.body.ReturnPlace(), body)
		return b.cur
	})

	if !b.body.Block(exit).Terminated() {
		b.body.Terminate(exit, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: EndBlock}})
	}
	b.body.Terminate(EndBlock, Terminator{Kind: TermReturn})
	b.body.Terminate(DivergeBlock, Terminator{Kind: TermDiverge})

	// Join blocks whose every predecessor diverged stay open; they are
	// unreachable, but every block still carries a terminator.
	for i := range b.body.Blocks {
		if b.body.Blocks[i].Term.Kind == TermNone {
			b.body.Terminate(BlockID(i), Terminator{Kind: TermDiverge}) //nolint:gosec // G115: bounded by block count
		}
	}

	return b.body
}

type loopCtx struct {
	breakTarget BlockID
}

type builder struct {
	types *types.Interner
	body  *Body
	cur   BlockID

	scopes     []scope
	loopStack  []loopCtx
	varToLocal map[hair.VarID]LocalID
	unitTemp   LocalID
	nextTemp   uint32
}

func (l *builder) curBlock() *Block {
	return l.body.Block(l.cur)
}

func (l *builder) startBlock(id BlockID) {
	l.cur = id
}

// emit appends an instruction to the current block. Emitting into a
// terminated block is a builder bug.
func (l *builder) emit(ins Instr) {
	bb := l.curBlock()
	if bb.Terminated() {
		panic(fmt.Sprintf("mir: emit into terminated bb%d", l.cur))
	}
	bb.Instrs = append(bb.Instrs, ins)
}

func (l *builder) terminate(t Terminator) {
	l.body.Terminate(l.cur, t)
}

func (l *builder) gotoBlock(target BlockID) {
	l.terminate(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: target}})
}

func (l *builder) newTemp(ty types.TypeID, hint string, span source.Span) LocalID {
	l.nextTemp++
	return l.body.AddLocal(Local{
		Kind: LocalTemp,
		Name: fmt.Sprintf("tmp_%s%d", hint, l.nextTemp),
		Type: ty,
		Span: span,
	})
}

func (l *builder) assign(dst Place, src RValue, span source.Span) {
	l.emit(Instr{
		Kind:  InstrAssign,
		Span:  span,
		Scope: OutermostScope,
		Assign: AssignInstr{
			Dst: dst,
			Src: src,
		},
	})
}

func (l *builder) unitConst() Const {
	return Const{Kind: ConstUnit, Type: l.types.Builtins().Unit}
}

// isCopy reports whether reading a place of this type leaves it live.
// Anything without a drop obligation copies.
func (l *builder) isCopy(ty types.TypeID) bool {
	return !l.types.NeedsDrop(ty)
}
