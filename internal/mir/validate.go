package mir

import (
	"errors"
	"fmt"

	"mica/internal/types"
)

// Validate checks the structural invariants of a lowered body.
// Returns the joined list of every violation found.
func Validate(body *Body, typesIn *types.Interner) error {
	if body == nil {
		return nil
	}

	var errs []error

	if err := validateSentinels(body); err != nil {
		errs = append(errs, err)
	}
	if err := validateBlocksTerminated(body); err != nil {
		errs = append(errs, err)
	}
	if err := validateBlockTargets(body); err != nil {
		errs = append(errs, err)
	}
	if err := validateLocalIDs(body); err != nil {
		errs = append(errs, err)
	}
	if err := validateTypes(body, typesIn); err != nil {
		errs = append(errs, err)
	}
	if err := validateExtents(body); err != nil {
		errs = append(errs, err)
	}
	if err := validateScopes(body); err != nil {
		errs = append(errs, err)
	}

	for i, p := range body.Promoted {
		if err := Validate(p, typesIn); err != nil {
			errs = append(errs, fmt.Errorf("promoted#%d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// validateSentinels checks the fixed shape of the first three blocks.
func validateSentinels(body *Body) error {
	var errs []error

	if len(body.Blocks) < sentinelBlocks {
		return fmt.Errorf("body has %d blocks, need at least %d sentinels", len(body.Blocks), sentinelBlocks)
	}
	if len(body.Locals) == 0 || body.Locals[ReturnLocal].Kind != LocalReturn {
		errs = append(errs, errors.New("local L0 is not the return slot"))
	}
	if t := body.Blocks[EndBlock].Term.Kind; t != TermReturn {
		errs = append(errs, fmt.Errorf("bb%d (END) terminator is %v, want return", EndBlock, t))
	}
	if t := body.Blocks[DivergeBlock].Term.Kind; t != TermDiverge {
		errs = append(errs, fmt.Errorf("bb%d (DIVERGE) terminator is %v, want diverge", DivergeBlock, t))
	}
	return errors.Join(errs...)
}

// validateBlocksTerminated checks that every block ends with a
// terminator and that block IDs match their table indices.
func validateBlocksTerminated(body *Body) error {
	var errs []error
	for i := range body.Blocks {
		if int(body.Blocks[i].ID) != i {
			errs = append(errs, fmt.Errorf("block at index %d carries id bb%d", i, body.Blocks[i].ID))
		}
		if body.Blocks[i].Term.Kind == TermNone {
			errs = append(errs, fmt.Errorf("bb%d: unterminated block", i))
		}
	}
	return errors.Join(errs...)
}

// validateBlockTargets checks that every successor reference resolves.
func validateBlockTargets(body *Body) error {
	var errs []error
	for i := range body.Blocks {
		bb := &body.Blocks[i]
		bb.Term.ForEachSuccessor(func(id *BlockID) {
			if *id < 0 || int(*id) >= len(body.Blocks) {
				errs = append(errs, fmt.Errorf("bb%d: successor bb%d does not exist", i, *id))
			}
		})
		if bb.Term.Kind == TermSwitchInt {
			seen := make(map[uint64]bool, len(bb.Term.SwitchInt.Cases))
			for _, c := range bb.Term.SwitchInt.Cases {
				if seen[c.Value] {
					errs = append(errs, fmt.Errorf("bb%d: switch_int has duplicate case %d", i, c.Value))
				}
				seen[c.Value] = true
			}
		}
	}
	return errors.Join(errs...)
}

// validateLocalIDs checks that every LocalID reference is valid.
func validateLocalIDs(body *Body) error {
	var errs []error

	localExists := func(id LocalID) bool {
		return id >= 0 && int(id) < len(body.Locals)
	}

	checkPlace := func(p Place, context string) {
		if p.Local != NoLocalID && !localExists(p.Local) {
			errs = append(errs, fmt.Errorf("%s: local L%d does not exist", context, p.Local))
		}
	}

	checkOperand := func(op Operand, context string) {
		switch op.Kind {
		case OperandCopy, OperandMove:
			checkPlace(op.Place, context)
		}
	}

	checkRValue := func(rv *RValue, context string) {
		switch rv.Kind {
		case RValueUse:
			checkOperand(rv.Use, context)
		case RValueUnary:
			checkOperand(rv.Unary.Operand, context)
		case RValueBinary:
			checkOperand(rv.Binary.Left, context)
			checkOperand(rv.Binary.Right, context)
		case RValueRef:
			checkPlace(rv.Ref.Place, context)
		case RValueTuple:
			for _, elem := range rv.Tuple.Elems {
				checkOperand(elem, context)
			}
		}
	}

	for i := range body.Blocks {
		bb := &body.Blocks[i]
		for j := range bb.Instrs {
			ins := &bb.Instrs[j]
			ctx := fmt.Sprintf("bb%d instr %d", i, j)

			switch ins.Kind {
			case InstrAssign:
				checkPlace(ins.Assign.Dst, ctx)
				checkRValue(&ins.Assign.Src, ctx)
			case InstrDrop:
				checkPlace(ins.Drop.Place, ctx)
			}
		}

		ctx := fmt.Sprintf("bb%d terminator", i)
		switch bb.Term.Kind {
		case TermIf:
			checkOperand(bb.Term.If.Cond, ctx)
		case TermSwitchInt:
			checkOperand(bb.Term.SwitchInt.Value, ctx)
		case TermCall:
			if bb.Term.Call.HasDst {
				checkPlace(bb.Term.Call.Dst, ctx)
			}
			checkOperand(bb.Term.Call.Fn, ctx)
			for _, arg := range bb.Term.Call.Args {
				checkOperand(arg, ctx)
			}
		}
	}

	return errors.Join(errs...)
}

// validateTypes checks that every local carries a known type.
func validateTypes(body *Body, typesIn *types.Interner) error {
	var errs []error
	for i, loc := range body.Locals {
		if loc.Type == types.NoTypeID {
			errs = append(errs, fmt.Errorf("local L%d (%s): unknown type", i, loc.Name))
			continue
		}
		if typesIn != nil {
			if _, ok := typesIn.Lookup(loc.Type); !ok {
				errs = append(errs, fmt.Errorf("local L%d (%s): dangling type#%d", i, loc.Name, loc.Type))
			}
		}
	}
	return errors.Join(errs...)
}

// validateExtents checks that the extent table forms a forest (parents
// precede children) and that its drop lists reference live locals.
func validateExtents(body *Body) error {
	var errs []error
	for i, ext := range body.Extents {
		if ext.Parent >= int32(i) { //nolint:gosec // G115: bounded by extent count
			errs = append(errs, fmt.Errorf("extent#%d: parent %d does not precede it", i, ext.Parent))
		}
		for _, l := range ext.Drops {
			if l < 0 || int(l) >= len(body.Locals) {
				errs = append(errs, fmt.Errorf("extent#%d: drop of nonexistent local L%d", i, l))
			}
		}
	}
	return errors.Join(errs...)
}

// validateScopes checks source-scope references in instructions and the
// scope table's parent links.
func validateScopes(body *Body) error {
	var errs []error
	for i, sc := range body.SourceScopes {
		if sc.Parent != NoScopeID && (sc.Parent < 0 || int(sc.Parent) >= len(body.SourceScopes)) {
			errs = append(errs, fmt.Errorf("scope#%d: dangling parent scope#%d", i, sc.Parent))
		}
	}
	for i := range body.Blocks {
		bb := &body.Blocks[i]
		for j := range bb.Instrs {
			sc := bb.Instrs[j].Scope
			if sc < 0 || int(sc) >= len(body.SourceScopes) {
				errs = append(errs, fmt.Errorf("bb%d instr %d: dangling scope#%d", i, j, sc))
			}
		}
	}
	return errors.Join(errs...)
}
