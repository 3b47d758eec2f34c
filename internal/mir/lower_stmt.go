package mir

import (
	"fmt"

	"mica/internal/hair"
	"mica/internal/types"
)

func (l *builder) lowerStmts(stmts []hair.Stmt) {
	for i := range stmts {
		l.lowerStmt(&stmts[i])
	}
}

func (l *builder) lowerStmt(s *hair.Stmt) {
	switch s.Kind {
	case hair.StmtLet:
		d := s.Data.(hair.LetData)
		// The binding lives for the remainder of the block: open the
		// remainder extent now; the enclosing block unwinds it (LIFO)
		// when lowering leaves the block. The initializer runs inside
		// its own extent so its temporaries die before the binding
		// exists.
		l.pushScope(d.Remainder)
		if d.Init != nil {
			tmp := l.newTemp(d.Pat.Type, "init", s.Span)
			l.InScope(d.InitExtent, l.cur, func() BlockID {
				l.exprIntoPlace(PlaceOf(tmp), d.Init)
				return l.cur
			})
			l.lowerPattern(d.Pat, PlaceOf(tmp))
		} else {
			l.declareUninit(d.Pat)
		}
	case hair.StmtExpr:
		d := s.Data.(hair.ExprStmtData)
		l.InScope(d.Scope, l.cur, func() BlockID {
			l.exprIntoPlace(PlaceOf(l.unitTemp), d.Expr)
			return l.cur
		})

	default:
		panic(fmt.Sprintf("mir: unknown statement kind %d", s.Kind))
	}
}

// lowerPattern binds an irrefutable pattern against a place, threading
// the current block. Pattern shape mismatches are builder bugs: the
// type checker has already rejected ill-typed programs.
func (l *builder) lowerPattern(pat *hair.Pat, place Place) {
	switch pat.Kind {
	case hair.PatWild:
		// Nothing to bind.

	case hair.PatBinding:
		d := pat.Data.(hair.BindingData)
		local := l.body.AddLocal(Local{
			Kind:    LocalUser,
			Name:    d.Name,
			Type:    pat.Type,
			Mutable: d.Mutable,
			Span:    pat.Span,
		})
		l.varToLocal[d.Var] = local
		l.scheduleDrop(local, pat.Span)

		kind := OperandMove
		if l.isCopy(pat.Type) {
			kind = OperandCopy
		}
		l.assign(PlaceOf(local), UseRValue(Operand{Kind: kind, Type: pat.Type, Place: place}), pat.Span)

		if d.Sub != nil {
			l.lowerPattern(d.Sub, place)
		}

	case hair.PatTuple:
		d := pat.Data.(hair.TuplePatData)
		tt, ok := l.types.Lookup(pat.Type)
		if !ok || tt.Kind != types.KindTuple {
			panic(fmt.Sprintf("mir: tuple pattern against non-tuple type#%d", pat.Type))
		}
		info, _ := l.types.TupleInfo(pat.Type)
		if info == nil || len(info.Elems) != len(d.Elems) {
			panic(fmt.Sprintf("mir: tuple pattern arity mismatch for type#%d", pat.Type))
		}
		for i, sub := range d.Elems {
			l.lowerPattern(sub, place.Field(i))
		}

	default:
		panic(fmt.Sprintf("mir: unknown pattern kind %d", pat.Kind))
	}
}

// declareUninit introduces the locals of an initializer-less let.
func (l *builder) declareUninit(pat *hair.Pat) {
	switch pat.Kind {
	case hair.PatWild:
	case hair.PatBinding:
		d := pat.Data.(hair.BindingData)
		local := l.body.AddLocal(Local{
			Kind:    LocalUser,
			Name:    d.Name,
			Type:    pat.Type,
			Mutable: d.Mutable,
			Span:    pat.Span,
		})
		l.varToLocal[d.Var] = local
		l.scheduleDrop(local, pat.Span)
		if d.Sub != nil {
			l.declareUninit(d.Sub)
		}
	case hair.PatTuple:
		d := pat.Data.(hair.TuplePatData)
		for _, sub := range d.Elems {
			l.declareUninit(sub)
		}
	default:
		panic(fmt.Sprintf("mir: unknown pattern kind %d", pat.Kind))
	}
}
