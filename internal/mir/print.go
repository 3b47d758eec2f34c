package mir

import (
	"fmt"
	"io"
	"strings"

	"mica/internal/types"
)

// DumpBody writes a human-readable listing of a body: the local table
// followed by every block with its instructions and terminator.
func DumpBody(w io.Writer, body *Body, typesIn *types.Interner) error {
	if w == nil || body == nil {
		return nil
	}

	fmt.Fprintf(w, "body: args=%d\n", body.ArgCount)

	fmt.Fprintf(w, "  locals:\n")
	for i := range body.Locals {
		l := body.Locals[i]
		name := l.Name
		if name == "" {
			name = "_"
		}
		mut := ""
		if l.Mutable {
			mut = " mut"
		}
		fmt.Fprintf(w, "    L%d: %s%s name=%s kind=%s\n", i, typeStr(typesIn, l.Type), mut, name, l.Kind)
	}

	for i := range body.Blocks {
		bb := &body.Blocks[i]
		fmt.Fprintf(w, "  bb%d:\n", bb.ID)
		for j := range bb.Instrs {
			fmt.Fprintf(w, "    %s\n", formatInstr(&bb.Instrs[j]))
		}
		fmt.Fprintf(w, "    %s\n", formatTerm(&bb.Term))
	}

	for i, p := range body.Promoted {
		fmt.Fprintf(w, "promoted#%d:\n", i)
		if err := DumpBody(w, p, typesIn); err != nil {
			return err
		}
	}
	return nil
}

func formatInstr(ins *Instr) string {
	if ins == nil {
		return "<instr?>"
	}
	switch ins.Kind {
	case InstrAssign:
		return fmt.Sprintf("%s = %s", formatPlace(ins.Assign.Dst), formatRValue(&ins.Assign.Src))
	case InstrDrop:
		return fmt.Sprintf("drop %s", formatPlace(ins.Drop.Place))
	case InstrEndRegion:
		return fmt.Sprintf("end_region ext#%d", ins.EndRegion.Extent)
	case InstrCoverage:
		return formatCoverage(&ins.Coverage)
	case InstrNop:
		return "nop"
	default:
		return "<instr?>"
	}
}

func formatCoverage(cov *Coverage) string {
	switch cov.Kind {
	case CovCounter:
		return fmt.Sprintf("coverage counter#%d", cov.ID)
	case CovExpression:
		op := "+"
		if cov.Op == CovOpSub {
			op = "-"
		}
		return fmt.Sprintf("coverage expr#%d = %s %s %s", cov.ID, formatCovTerm(cov.LHS), op, formatCovTerm(cov.RHS))
	case CovUnreachable:
		return "coverage unreachable"
	default:
		return "coverage <?>"
	}
}

func formatCovTerm(t CovTerm) string {
	switch t.Kind {
	case CovTermZero:
		return "zero"
	case CovTermCounter:
		return fmt.Sprintf("counter#%d", t.ID)
	case CovTermExpression:
		return fmt.Sprintf("expr#%d", t.ID)
	default:
		return "<?>"
	}
}

func formatTerm(term *Terminator) string {
	if term == nil {
		return "<term?>"
	}
	switch term.Kind {
	case TermNone:
		return "<unterminated>"
	case TermGoto:
		return fmt.Sprintf("goto bb%d", term.Goto.Target)
	case TermIf:
		return fmt.Sprintf("if %s then bb%d else bb%d", formatOperand(&term.If.Cond), term.If.Then, term.If.Else)
	case TermSwitchInt:
		out := fmt.Sprintf("switch_int %s {", formatOperand(&term.SwitchInt.Value))
		for _, c := range term.SwitchInt.Cases {
			out += fmt.Sprintf(" %d -> bb%d;", c.Value, c.Target)
		}
		if term.SwitchInt.Default != NoBlockID {
			out += fmt.Sprintf(" default -> bb%d;", term.SwitchInt.Default)
		}
		return out + " }"
	case TermReturn:
		return "return"
	case TermDiverge:
		return "diverge"
	case TermCall:
		dst := ""
		if term.Call.HasDst {
			dst = formatPlace(term.Call.Dst) + " = "
		}
		out := fmt.Sprintf("%scall %s(%s) -> bb%d", dst, formatOperand(&term.Call.Fn), formatOperands(term.Call.Args), term.Call.Target)
		if term.Call.Cleanup != NoBlockID {
			out += fmt.Sprintf(" unwind bb%d", term.Call.Cleanup)
		}
		return out
	default:
		return "<term?>"
	}
}

func formatPlace(p Place) string {
	if !p.IsValid() {
		return "L?"
	}
	out := fmt.Sprintf("L%d", p.Local)
	for _, proj := range p.Proj {
		switch proj.Kind {
		case PlaceProjDeref:
			out = fmt.Sprintf("(*%s)", out)
		case PlaceProjField:
			out += fmt.Sprintf(".%d", proj.Field)
		default:
			out += ".<?>"
		}
	}
	return out
}

func formatOperands(ops []Operand) string {
	parts := make([]string, len(ops))
	for i := range ops {
		parts[i] = formatOperand(&ops[i])
	}
	return strings.Join(parts, ", ")
}

func formatOperand(op *Operand) string {
	if op == nil {
		return "<op?>"
	}
	switch op.Kind {
	case OperandConst:
		return formatConst(&op.Const)
	case OperandCopy:
		return fmt.Sprintf("copy %s", formatPlace(op.Place))
	case OperandMove:
		return fmt.Sprintf("move %s", formatPlace(op.Place))
	default:
		return "<op?>"
	}
}

func formatConst(c *Const) string {
	if c == nil {
		return "const ?"
	}
	switch c.Kind {
	case ConstInt:
		return fmt.Sprintf("const %d", c.IntValue)
	case ConstUint:
		return fmt.Sprintf("const %d:uint", c.UintValue)
	case ConstFloat:
		return fmt.Sprintf("const %g", c.FloatValue)
	case ConstBool:
		if c.BoolValue {
			return "const true"
		}
		return "const false"
	case ConstStr:
		return fmt.Sprintf("const %q", c.StrValue)
	case ConstUnit:
		return "const ()"
	case ConstFn:
		return fmt.Sprintf("const fn#%d", c.FnDef)
	default:
		return "const ?"
	}
}

func formatRValue(rv *RValue) string {
	if rv == nil {
		return "<rvalue?>"
	}
	switch rv.Kind {
	case RValueUse:
		return formatOperand(&rv.Use)
	case RValueUnary:
		return fmt.Sprintf("(%s %s)", rv.Unary.Op, formatOperand(&rv.Unary.Operand))
	case RValueBinary:
		return fmt.Sprintf("(%s %s %s)", formatOperand(&rv.Binary.Left), rv.Binary.Op, formatOperand(&rv.Binary.Right))
	case RValueRef:
		mut := "&"
		if rv.Ref.Mutable {
			mut = "&mut "
		}
		return fmt.Sprintf("%s%s in '%d", mut, formatPlace(rv.Ref.Place), rv.Ref.Region)
	case RValueTuple:
		return fmt.Sprintf("tuple (%s)", formatOperands(rv.Tuple.Elems))
	default:
		return "<rvalue?>"
	}
}

func typeStr(typesIn *types.Interner, id types.TypeID) string {
	if id == types.NoTypeID {
		return "?"
	}
	if typesIn == nil {
		return fmt.Sprintf("type#%d", id)
	}
	t, ok := typesIn.Lookup(id)
	if !ok {
		return fmt.Sprintf("type#%d", id)
	}
	switch t.Kind {
	case types.KindUnit:
		return "()"
	case types.KindBool:
		return "bool"
	case types.KindStr:
		return "str"
	case types.KindInt:
		return fmt.Sprintf("i%d", t.Bits)
	case types.KindUint:
		return fmt.Sprintf("u%d", t.Bits)
	case types.KindFloat:
		return fmt.Sprintf("f%d", t.Bits)
	case types.KindRef:
		if t.Mutable {
			return fmt.Sprintf("&mut %s", typeStr(typesIn, t.Elem))
		}
		return fmt.Sprintf("&%s", typeStr(typesIn, t.Elem))
	case types.KindRawPtr:
		return fmt.Sprintf("*%s", typeStr(typesIn, t.Elem))
	case types.KindArray:
		return fmt.Sprintf("[%s; %d]", typeStr(typesIn, t.Elem), t.Count)
	case types.KindTuple:
		info, ok := typesIn.TupleInfo(id)
		if !ok {
			return fmt.Sprintf("type#%d", id)
		}
		parts := make([]string, len(info.Elems))
		for i, e := range info.Elems {
			parts[i] = typeStr(typesIn, e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case types.KindFn:
		info, ok := typesIn.FnInfo(id)
		if !ok {
			return fmt.Sprintf("type#%d", id)
		}
		parts := make([]string, len(info.Params))
		for i, p := range info.Params {
			parts[i] = typeStr(typesIn, p)
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), typeStr(typesIn, info.Result))
	case types.KindClosure:
		return fmt.Sprintf("closure#%d", t.Extra)
	default:
		return fmt.Sprintf("type#%d", id)
	}
}
