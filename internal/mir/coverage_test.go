package mir_test

import (
	"testing"

	"mica/internal/mir"
	"mica/internal/source"
	"mica/internal/types"
)

func covInstr(cov mir.Coverage, scope mir.ScopeID) mir.Instr {
	return mir.Instr{Kind: mir.InstrCoverage, Scope: scope, Coverage: cov}
}

func TestComputeCoverageInfo_TableSizes(t *testing.T) {
	typesIn := types.NewInterner()
	b := newTestBody(typesIn)
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))

	blk := b.Block(mir.StartBlock)
	blk.Instrs = append(blk.Instrs,
		covInstr(mir.Coverage{Kind: mir.CovCounter, ID: 5}, mir.OutermostScope),
		// Expression 2 references counter 7, which never appears as its
		// own marker: the table must still cover it.
		covInstr(mir.Coverage{
			Kind: mir.CovExpression,
			ID:   2,
			Op:   mir.CovOpAdd,
			LHS:  mir.CovTerm{Kind: mir.CovTermCounter, ID: 7},
			RHS:  mir.CovTerm{Kind: mir.CovTermZero},
		}, mir.OutermostScope),
	)

	info := mir.ComputeCoverageInfo(b)
	if info.NumCounters != 8 {
		t.Errorf("NumCounters = %d, want 8", info.NumCounters)
	}
	if info.NumExpressions != 3 {
		t.Errorf("NumExpressions = %d, want 3", info.NumExpressions)
	}
}

func TestComputeCoverageInfo_ExpressionOperandExpression(t *testing.T) {
	typesIn := types.NewInterner()
	b := newTestBody(typesIn)
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))

	blk := b.Block(mir.StartBlock)
	blk.Instrs = append(blk.Instrs,
		covInstr(mir.Coverage{
			Kind: mir.CovExpression,
			ID:   0,
			Op:   mir.CovOpSub,
			LHS:  mir.CovTerm{Kind: mir.CovTermExpression, ID: 4},
			RHS:  mir.CovTerm{Kind: mir.CovTermCounter, ID: 0},
		}, mir.OutermostScope),
	)

	info := mir.ComputeCoverageInfo(b)
	if info.NumCounters != 1 {
		t.Errorf("NumCounters = %d, want 1", info.NumCounters)
	}
	if info.NumExpressions != 5 {
		t.Errorf("NumExpressions = %d, want 5", info.NumExpressions)
	}
}

func TestComputeCoverageInfo_Empty(t *testing.T) {
	typesIn := types.NewInterner()
	b := newTestBody(typesIn)
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))

	info := mir.ComputeCoverageInfo(b)
	if info.NumCounters != 0 || info.NumExpressions != 0 {
		t.Errorf("empty body produced tables %+v", info)
	}
}

func TestComputeCoverageInfo_SkipsInlined(t *testing.T) {
	typesIn := types.NewInterner()
	b := newTestBody(typesIn)
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))

	inlined := b.AddSourceScope(mir.SourceScope{
		Parent:    mir.OutermostScope,
		InlinedAt: mir.OutermostScope,
	})
	nested := b.AddSourceScope(mir.SourceScope{
		Parent:    inlined,
		InlinedAt: mir.NoScopeID,
	})

	blk := b.Block(mir.StartBlock)
	blk.Instrs = append(blk.Instrs,
		covInstr(mir.Coverage{Kind: mir.CovCounter, ID: 1}, mir.OutermostScope),
		// Inlined markers belong to their originating body's tables.
		covInstr(mir.Coverage{Kind: mir.CovCounter, ID: 41}, inlined),
		// Operand recovery must not resurrect inlined expressions either.
		covInstr(mir.Coverage{
			Kind: mir.CovExpression,
			ID:   9,
			Op:   mir.CovOpAdd,
			LHS:  mir.CovTerm{Kind: mir.CovTermCounter, ID: 30},
			RHS:  mir.CovTerm{Kind: mir.CovTermZero},
		}, nested),
	)

	info := mir.ComputeCoverageInfo(b)
	if info.NumCounters != 2 {
		t.Errorf("NumCounters = %d, want 2", info.NumCounters)
	}
	if info.NumExpressions != 0 {
		t.Errorf("NumExpressions = %d, want 0", info.NumExpressions)
	}
}

func TestCoveredRegions_SkipsInlined(t *testing.T) {
	typesIn := types.NewInterner()
	b := newTestBody(typesIn)
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))

	inlined := b.AddSourceScope(mir.SourceScope{
		Parent:    mir.OutermostScope,
		InlinedAt: mir.OutermostScope,
	})
	// A scope nested under the inlined one inherits its ancestry.
	nested := b.AddSourceScope(mir.SourceScope{
		Parent:    inlined,
		InlinedAt: mir.NoScopeID,
	})

	own := source.Span{Start: 1, End: 5}
	foreign := source.Span{Start: 100, End: 105}

	blk := b.Block(mir.StartBlock)
	blk.Instrs = append(blk.Instrs,
		covInstr(mir.Coverage{Kind: mir.CovCounter, ID: 0, Region: &mir.CodeRegion{Span: own}}, mir.OutermostScope),
		covInstr(mir.Coverage{Kind: mir.CovCounter, ID: 1, Region: &mir.CodeRegion{Span: foreign}}, inlined),
		covInstr(mir.Coverage{Kind: mir.CovCounter, ID: 2, Region: &mir.CodeRegion{Span: foreign}}, nested),
		// A marker with no region defines an id only.
		covInstr(mir.Coverage{Kind: mir.CovCounter, ID: 3}, mir.OutermostScope),
	)

	regions := mir.CoveredRegions(b)
	if len(regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(regions))
	}
	if regions[0].Span != own {
		t.Errorf("region span = %+v, want %+v", regions[0].Span, own)
	}
}
