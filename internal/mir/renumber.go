package mir

import (
	"mica/internal/source"
	"mica/internal/types"
)

// RenumberBody replaces every free region mentioned by a body with a
// fresh inference variable, recording the syntactic site each variable
// was minted at. Distinct occurrences of the same named region get
// distinct variables; inference rediscovers any equalities later.
// Bound regions under binders are left alone, and a region that is
// already an inference variable keeps its identity: resurfacing only
// records the current site if the variable has none yet.
//
// Lexical EndRegion markers carry no meaning once regions are
// inference variables, so they are retired to nops in the same walk.
// Promoted bodies are renumbered against the same context.
//
// Returns how many variables this body minted.
func RenumberBody(body *Body, in *types.Interner, rcx *types.RegionCtx) int {
	r := &renumberer{in: in, rcx: rcx}
	before := rcx.NumVars()

	for i := range body.Locals {
		r.at(types.Lookup{Span: body.Locals[i].Span, Block: -1, Instr: -1})
		body.Locals[i].Type = r.foldType(body.Locals[i].Type)
	}

	for bi := range body.Blocks {
		bb := &body.Blocks[bi]
		for ii := range bb.Instrs {
			ins := &bb.Instrs[ii]
			switch ins.Kind {
			case InstrAssign:
				r.at(types.Lookup{Span: ins.Span, Block: int32(bb.ID), Instr: int32(ii)}) //nolint:gosec // G115: bounded by block sizes
				r.renumberRValue(&ins.Assign.Src, ins.Span, bb.ID, ii)
			case InstrEndRegion:
				ins.MakeNop()
			}
		}
		r.at(types.Lookup{Span: body.Span, Block: int32(bb.ID), Instr: -1})
		r.renumberTerm(&bb.Term)
	}

	for _, p := range body.Promoted {
		RenumberBody(p, in, rcx)
	}

	return int(rcx.NumVars() - before)
}

type renumberer struct {
	in  *types.Interner
	rcx *types.RegionCtx
	lk  types.Lookup
}

// at sets the site attributed to variables minted until the next call.
func (r *renumberer) at(lk types.Lookup) {
	r.lk = lk
}

func (r *renumberer) fresh(id types.RegionID) types.RegionID {
	// A variable minted earlier in the walk can resurface through a
	// shared substitution list. It keeps its identity; the first
	// recorded site wins.
	if reg, ok := r.in.LookupRegion(id); ok && reg.Kind == types.RegionVar {
		r.rcx.Observe(reg.Index, r.lk)
		return id
	}
	vid := r.rcx.FreshVar(r.lk)
	return r.in.RegionVarID(vid)
}

func (r *renumberer) foldType(id types.TypeID) types.TypeID {
	return r.in.FoldRegions(id, r.fresh)
}

func (r *renumberer) renumberRValue(rv *RValue, span source.Span, block BlockID, instr int) {
	switch rv.Kind {
	case RValueUse:
		r.renumberOperand(&rv.Use)
	case RValueUnary:
		r.renumberOperand(&rv.Unary.Operand)
	case RValueBinary:
		r.renumberOperand(&rv.Binary.Left)
		r.renumberOperand(&rv.Binary.Right)
	case RValueRef:
		// The borrow's own region gets the more specific in-borrow
		// site; the first walk to mint a variable owns its lookup.
		borrowLk := types.Lookup{Span: span, Block: int32(block), Instr: int32(instr), InBorrow: true} //nolint:gosec // G115: bounded by block sizes
		if rv.Ref.Region != types.NoRegionID {
			if reg, ok := r.in.LookupRegion(rv.Ref.Region); ok && reg.IsFree() {
				if reg.Kind == types.RegionVar {
					r.rcx.Observe(reg.Index, borrowLk)
				} else {
					vid := r.rcx.FreshVar(borrowLk)
					rv.Ref.Region = r.in.RegionVarID(vid)
				}
			}
		}
	case RValueTuple:
		for i := range rv.Tuple.Elems {
			r.renumberOperand(&rv.Tuple.Elems[i])
		}
	}
}

func (r *renumberer) renumberOperand(op *Operand) {
	op.Type = r.foldType(op.Type)
	if op.Kind == OperandConst {
		op.Const.Type = r.foldType(op.Const.Type)
	}
}

func (r *renumberer) renumberTerm(t *Terminator) {
	switch t.Kind {
	case TermIf:
		r.renumberOperand(&t.If.Cond)
	case TermSwitchInt:
		r.renumberOperand(&t.SwitchInt.Value)
	case TermCall:
		r.renumberOperand(&t.Call.Fn)
		for i := range t.Call.Args {
			r.renumberOperand(&t.Call.Args[i])
		}
	}
}
