package mir_test

import (
	"strings"
	"testing"

	"mica/internal/mir"
	"mica/internal/source"
	"mica/internal/types"
)

func TestValidate_CleanBody(t *testing.T) {
	typesIn := types.NewInterner()
	b := newTestBody(typesIn)
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))

	if err := mir.Validate(b, typesIn); err != nil {
		t.Errorf("clean body failed validation: %v", err)
	}
}

func TestValidate_UnterminatedBlock(t *testing.T) {
	typesIn := types.NewInterner()
	b := newTestBody(typesIn)
	// START left without a terminator.

	err := mir.Validate(b, typesIn)
	if err == nil {
		t.Fatal("expected validation error for unterminated block")
	}
	if !strings.Contains(err.Error(), "unterminated") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_DanglingTarget(t *testing.T) {
	typesIn := types.NewInterner()
	b := newTestBody(typesIn)
	b.Terminate(mir.StartBlock, gotoTerm(mir.BlockID(99)))

	err := mir.Validate(b, typesIn)
	if err == nil {
		t.Fatal("expected validation error for dangling successor")
	}
	if !strings.Contains(err.Error(), "bb99") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_DanglingLocal(t *testing.T) {
	typesIn := types.NewInterner()
	b := newTestBody(typesIn)
	blk := b.Block(mir.StartBlock)
	blk.Instrs = append(blk.Instrs, mir.Instr{
		Kind: mir.InstrAssign,
		Assign: mir.AssignInstr{
			Dst: mir.PlaceOf(mir.LocalID(42)),
			Src: mir.UseRValue(mir.ConstOperand(mir.Const{Kind: mir.ConstUnit, Type: typesIn.Builtins().Unit})),
		},
	})
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))

	err := mir.Validate(b, typesIn)
	if err == nil {
		t.Fatal("expected validation error for dangling local")
	}
	if !strings.Contains(err.Error(), "L42") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_DuplicateSwitchCases(t *testing.T) {
	typesIn := types.NewInterner()
	b := newTestBody(typesIn)
	val := mir.ConstOperand(mir.Const{Kind: mir.ConstUint, Type: typesIn.Builtins().Uint, UintValue: 0})
	b.Terminate(mir.StartBlock, mir.Terminator{
		Kind: mir.TermSwitchInt,
		SwitchInt: mir.SwitchIntTerm{
			Value: val,
			Cases: []mir.SwitchIntCase{
				{Value: 3, Target: mir.EndBlock},
				{Value: 3, Target: mir.DivergeBlock},
			},
			Default: mir.EndBlock,
		},
	})

	err := mir.Validate(b, typesIn)
	if err == nil {
		t.Fatal("expected validation error for duplicate switch cases")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownLocalType(t *testing.T) {
	typesIn := types.NewInterner()
	b := newTestBody(typesIn)
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))
	b.AddLocal(mir.Local{Kind: mir.LocalTemp, Name: "t", Type: types.NoTypeID})

	err := mir.Validate(b, typesIn)
	if err == nil {
		t.Fatal("expected validation error for unknown local type")
	}
	if !strings.Contains(err.Error(), "unknown type") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_PromotedBodies(t *testing.T) {
	typesIn := types.NewInterner()
	b := newTestBody(typesIn)
	b.Terminate(mir.StartBlock, gotoTerm(mir.EndBlock))

	bad := mir.NewBody(source.Span{}, typesIn.Builtins().Unit)
	// Promoted body left entirely unterminated.
	b.Promoted = append(b.Promoted, bad)

	err := mir.Validate(b, typesIn)
	if err == nil {
		t.Fatal("expected validation error from promoted body")
	}
	if !strings.Contains(err.Error(), "promoted#0") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDumpBody_Smoke(t *testing.T) {
	typesIn := types.NewInterner()

	body := mir.Construct(typesIn, source.Span{}, typesIn.Builtins().Int,
		nil, nil, 0, block(typesIn, 1, nil, intLit(typesIn, 7)))

	var sb strings.Builder
	if err := mir.DumpBody(&sb, body, typesIn); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"bb0:", "bb1:", "bb2:", "const 7", "return", "diverge", "L0: i64"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}
