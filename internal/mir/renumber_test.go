package mir_test

import (
	"testing"

	"mica/internal/mir"
	"mica/internal/source"
	"mica/internal/types"
)

func TestRenumberBody_FreshVarPerOccurrence(t *testing.T) {
	typesIn := types.NewInterner()
	free := typesIn.FreeRegion("a")
	refTy := typesIn.MkRef(free, typesIn.Builtins().Int, false)

	b := newTestBody(typesIn)
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))

	// Two locals of the same free-region type: each occurrence must get
	// its own inference variable.
	b.AddLocal(mir.Local{Kind: mir.LocalUser, Name: "p", Type: refTy})
	b.AddLocal(mir.Local{Kind: mir.LocalUser, Name: "q", Type: refTy})

	rcx := types.NewRegionCtx()
	minted := mir.RenumberBody(b, typesIn, rcx)

	if minted != 2 {
		t.Fatalf("minted %d region vars, want 2", minted)
	}
	p := b.Locals[len(b.Locals)-2].Type
	q := b.Locals[len(b.Locals)-1].Type
	if p == refTy || q == refTy {
		t.Error("locals still carry the original free region")
	}
	if p == q {
		t.Error("distinct occurrences share one inference variable")
	}
	for vid := uint32(0); vid < rcx.NumVars(); vid++ {
		if _, ok := rcx.LookupOf(vid); !ok {
			t.Errorf("no lookup recorded for region var %d", vid)
		}
	}
}

func TestRenumberBody_BoundRegionsUntouched(t *testing.T) {
	typesIn := types.NewInterner()
	bound := typesIn.BoundRegion(0)
	refTy := typesIn.MkRef(bound, typesIn.Builtins().Int, false)

	b := newTestBody(typesIn)
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))
	local := b.AddLocal(mir.Local{Kind: mir.LocalUser, Name: "f", Type: refTy})

	rcx := types.NewRegionCtx()
	minted := mir.RenumberBody(b, typesIn, rcx)

	if minted != 0 {
		t.Errorf("minted %d vars for a bound-region type, want 0", minted)
	}
	if b.Locals[local].Type != refTy {
		t.Error("bound-region type was rewritten")
	}
}

func TestRenumberBody_BorrowLookup(t *testing.T) {
	typesIn := types.NewInterner()
	free := typesIn.FreeRegion("b")

	b := newTestBody(typesIn)
	target := b.AddLocal(mir.Local{Kind: mir.LocalUser, Name: "x", Type: typesIn.Builtins().Int})
	dst := b.AddLocal(mir.Local{Kind: mir.LocalTemp, Name: "r", Type: typesIn.Builtins().Int})

	blk := b.Block(mir.StartBlock)
	blk.Instrs = append(blk.Instrs, mir.Instr{
		Kind: mir.InstrAssign,
		Span: source.Span{Start: 10, End: 12},
		Assign: mir.AssignInstr{
			Dst: mir.PlaceOf(dst),
			Src: mir.RValue{Kind: mir.RValueRef, Ref: mir.RefRValue{
				Region: free,
				Place:  mir.PlaceOf(target),
			}},
		},
	})
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))

	rcx := types.NewRegionCtx()
	mir.RenumberBody(b, typesIn, rcx)

	// The borrow's own region variable carries the in-borrow site.
	var inBorrow int
	for vid := uint32(0); vid < rcx.NumVars(); vid++ {
		lk, ok := rcx.LookupOf(vid)
		if !ok {
			t.Fatalf("region var %d has no lookup", vid)
		}
		if lk.InBorrow {
			inBorrow++
			if lk.Block != int32(mir.StartBlock) || lk.Instr != 0 {
				t.Errorf("in-borrow lookup at bb%d/%d, want bb%d/0", lk.Block, lk.Instr, mir.StartBlock)
			}
		}
	}
	if inBorrow != 1 {
		t.Errorf("found %d in-borrow lookups, want 1", inBorrow)
	}

	got := b.Block(mir.StartBlock).Instrs[0].Assign.Src.Ref.Region
	if got == free {
		t.Error("borrow region was not replaced")
	}
	if r, ok := typesIn.LookupRegion(got); !ok || r.Kind != types.RegionVar {
		t.Errorf("borrow region is %v, want an inference variable", r.Kind)
	}
}

func TestRenumberBody_RetiresEndRegion(t *testing.T) {
	typesIn := types.NewInterner()
	b := newTestBody(typesIn)

	blk := b.Block(mir.StartBlock)
	blk.Instrs = append(blk.Instrs,
		mir.Instr{Kind: mir.InstrEndRegion, EndRegion: mir.EndRegionInstr{Extent: 1}},
		mir.Instr{Kind: mir.InstrEndRegion, EndRegion: mir.EndRegionInstr{Extent: 2}},
	)
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))

	mir.RenumberBody(b, typesIn, types.NewRegionCtx())

	instrs := b.Block(mir.StartBlock).Instrs
	if len(instrs) != 2 {
		t.Fatalf("instruction count changed: %d, want 2", len(instrs))
	}
	for i, ins := range instrs {
		if ins.Kind != mir.InstrNop {
			t.Errorf("instr %d kind = %v, want nop", i, ins.Kind)
		}
	}
}

func TestRenumberBody_Promoted(t *testing.T) {
	typesIn := types.NewInterner()
	free := typesIn.FreeRegion("c")
	refTy := typesIn.MkRef(free, typesIn.Builtins().Int, false)

	b := newTestBody(typesIn)
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))

	promoted := mir.NewBody(source.Span{}, refTy)
	promoted.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))
	promoted.Terminate(mir.EndBlock, mir.Terminator{Kind: mir.TermReturn})
	promoted.Terminate(mir.DivergeBlock, mir.Terminator{Kind: mir.TermDiverge})
	b.Promoted = append(b.Promoted, promoted)

	rcx := types.NewRegionCtx()
	mir.RenumberBody(b, typesIn, rcx)

	if rcx.NumVars() == 0 {
		t.Error("promoted body's free region was not renumbered")
	}
	if promoted.Locals[mir.ReturnLocal].Type == refTy {
		t.Error("promoted return type still carries the free region")
	}
}

func TestRenumberBody_ResurfacedVarKeepsLookup(t *testing.T) {
	typesIn := types.NewInterner()
	rcx := types.NewRegionCtx()

	// A type already carrying an inference variable, as when a shared
	// substitution list surfaces a var minted earlier in the walk.
	first := types.Lookup{Span: source.Span{Start: 3, End: 4}, Block: 0, Instr: 0}
	vid := rcx.FreshVar(first)
	varTy := typesIn.MkRef(typesIn.RegionVarID(vid), typesIn.Builtins().Int, false)

	b := newTestBody(typesIn)
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))
	local := b.AddLocal(mir.Local{Kind: mir.LocalUser, Name: "p", Type: varTy})

	minted := mir.RenumberBody(b, typesIn, rcx)
	if minted != 0 {
		t.Errorf("minted %d vars for an already-renumbered type, want 0", minted)
	}
	if b.Locals[local].Type != varTy {
		t.Error("inference variable lost its identity")
	}
	lk, ok := rcx.LookupOf(vid)
	if !ok {
		t.Fatal("lookup missing")
	}
	if lk != first {
		t.Errorf("lookup = %+v, want the original site %+v", lk, first)
	}
}

func TestRegionCtx_ObserveDoesNotOverwrite(t *testing.T) {
	rcx := types.NewRegionCtx()
	first := types.Lookup{Block: 1, Instr: 2}
	vid := rcx.FreshVar(first)

	rcx.Observe(vid, types.Lookup{Block: 9, Instr: 9})

	lk, ok := rcx.LookupOf(vid)
	if !ok {
		t.Fatal("lookup missing")
	}
	if lk.Block != 1 || lk.Instr != 2 {
		t.Errorf("lookup overwritten: got bb%d/%d, want bb1/2", lk.Block, lk.Instr)
	}
}
