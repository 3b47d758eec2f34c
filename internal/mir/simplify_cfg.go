package mir

import (
	"slices"
)

// SimplifyCFG is the fixed-point group {branch simplification, goto
// chain collapsing, dead block elimination}. Each round strictly
// reduces either successor count or live block count, both bounded
// below by the sentinels, so the loop terminates.
type SimplifyCFG struct{}

func (SimplifyCFG) Name() string { return "simplify-cfg" }

func (SimplifyCFG) Run(body *Body) bool {
	changed := false
	for {
		round := false
		if (BranchSimplify{}).Run(body) {
			round = true
		}
		if (CollapseGotoChains{}).Run(body) {
			round = true
		}
		if (EliminateDeadBlocks{}).Run(body) {
			round = true
		}
		if !round {
			break
		}
		changed = true
	}
	body.Blocks = slices.Clip(body.Blocks)
	return changed
}

// BranchSimplify folds conditional terminators that no longer branch:
// two-way conditionals with identical arms or a constant condition,
// and switches with a single live arm.
type BranchSimplify struct{}

func (BranchSimplify) Name() string { return "branch-simplify" }

func (BranchSimplify) Run(body *Body) bool {
	changed := false
	for i := range body.Blocks {
		term := &body.Blocks[i].Term
		switch term.Kind {
		case TermIf:
			if target, ok := simplifyIf(&term.If); ok {
				*term = Terminator{Kind: TermGoto, Goto: GotoTerm{Target: target}}
				changed = true
			}
		case TermSwitchInt:
			if target, ok := simplifySwitch(&term.SwitchInt); ok {
				*term = Terminator{Kind: TermGoto, Goto: GotoTerm{Target: target}}
				changed = true
			}
		}
	}
	return changed
}

func simplifyIf(t *IfTerm) (BlockID, bool) {
	if t.Then == t.Else {
		return t.Then, true
	}
	if t.Cond.Kind == OperandConst {
		if v, ok := t.Cond.Const.BoolConst(); ok {
			if v {
				return t.Then, true
			}
			return t.Else, true
		}
	}
	return NoBlockID, false
}

func simplifySwitch(t *SwitchIntTerm) (BlockID, bool) {
	// Single-arm switches jump unconditionally.
	if len(t.Cases) == 0 && t.Default != NoBlockID {
		return t.Default, true
	}
	if len(t.Cases) == 1 && t.Default == NoBlockID {
		return t.Cases[0].Target, true
	}

	allSame := true
	first := NoBlockID
	if len(t.Cases) > 0 {
		first = t.Cases[0].Target
	} else {
		first = t.Default
	}
	for _, c := range t.Cases {
		if c.Target != first {
			allSame = false
			break
		}
	}
	if allSame && (t.Default == NoBlockID || t.Default == first) && first != NoBlockID {
		return first, true
	}

	if t.Value.Kind == OperandConst {
		if v, ok := switchConst(t.Value.Const); ok {
			for _, c := range t.Cases {
				if c.Value == v {
					return c.Target, true
				}
			}
			if t.Default != NoBlockID {
				return t.Default, true
			}
		}
	}
	return NoBlockID, false
}

func switchConst(c Const) (uint64, bool) {
	switch c.Kind {
	case ConstInt:
		return uint64(c.IntValue), true
	case ConstUint:
		return c.UintValue, true
	case ConstBool:
		if c.BoolValue {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// CollapseGotoChains rewrites every successor reference that points at
// an empty block with an unconditional jump to point at the chain's
// final target. Cycles of empty gotos are detected with a visited set
// and left unchanged.
type CollapseGotoChains struct{}

func (CollapseGotoChains) Name() string { return "goto-collapse" }

func (CollapseGotoChains) Run(body *Body) bool {
	redirects := buildRedirectMap(body)
	if len(redirects) == 0 {
		return false
	}
	changed := false
	for i := range body.Blocks {
		body.Blocks[i].Term.ForEachSuccessor(func(id *BlockID) {
			if next, ok := redirects[*id]; ok && next != *id {
				*id = next
				changed = true
			}
		})
	}
	return changed
}

// buildRedirectMap finds all trivial goto blocks and maps their IDs to
// their final targets, following chains.
func buildRedirectMap(body *Body) map[BlockID]BlockID {
	redirects := make(map[BlockID]BlockID)

	for i := range body.Blocks {
		bb := &body.Blocks[i]
		if !isTrivialGoto(body, bb.ID) {
			continue
		}
		target := bb.Term.Goto.Target
		visited := map[BlockID]bool{bb.ID: true}
		cycle := false
		for !cycle && isTrivialGoto(body, target) {
			if visited[target] {
				cycle = true
				break
			}
			visited[target] = true
			if next, ok := redirects[target]; ok {
				target = next
				break
			}
			target = body.Blocks[target].Term.Goto.Target
		}
		if cycle {
			// A closed loop of empty gotos has no final target; leave
			// references to it untouched.
			continue
		}
		redirects[bb.ID] = target
	}
	return redirects
}

// isTrivialGoto reports whether a block is empty and ends in an
// unconditional jump. Sentinels never qualify: their indices are
// hard-coded by consumers.
func isTrivialGoto(body *Body, id BlockID) bool {
	if id < sentinelBlocks || int(id) >= len(body.Blocks) {
		return false
	}
	bb := &body.Blocks[id]
	return len(bb.Instrs) == 0 && bb.Term.Kind == TermGoto
}

// EliminateDeadBlocks removes blocks unreachable from StartBlock and
// renumbers the survivors contiguously. EndBlock and DivergeBlock are
// always retained, reached or not.
type EliminateDeadBlocks struct{}

func (EliminateDeadBlocks) Name() string { return "dead-block-eliminate" }

func (EliminateDeadBlocks) Run(body *Body) bool {
	if len(body.Blocks) == 0 {
		return false
	}
	reachable := computeReachability(body)
	reachable[EndBlock] = true
	reachable[DivergeBlock] = true

	count := 0
	for _, r := range reachable {
		if r {
			count++
		}
	}
	if count == len(body.Blocks) {
		return false
	}
	compactBlocks(body, reachable)
	return true
}

// computeReachability performs a DFS from StartBlock over terminator
// successors.
func computeReachability(body *Body) []bool {
	reachable := make([]bool, len(body.Blocks))

	var visit func(id BlockID)
	visit = func(id BlockID) {
		if id < 0 || int(id) >= len(body.Blocks) || reachable[id] {
			return
		}
		reachable[id] = true
		body.Blocks[id].Term.ForEachSuccessor(func(s *BlockID) {
			visit(*s)
		})
	}

	visit(StartBlock)
	return reachable
}

// compactBlocks drops unreachable blocks and renumbers the remaining
// ones, rewriting every block reference through the old-to-new map.
func compactBlocks(body *Body, reachable []bool) {
	oldToNew := make(map[BlockID]BlockID, len(body.Blocks))
	newBlocks := make([]Block, 0, len(body.Blocks))

	for i, keep := range reachable {
		if keep {
			//nolint:gosec // G115: bounded by existing block count
			oldToNew[BlockID(i)] = BlockID(len(newBlocks))
			newBlocks = append(newBlocks, body.Blocks[i])
		}
	}

	remap := func(id *BlockID) {
		if newID, ok := oldToNew[*id]; ok {
			*id = newID
		}
	}

	for i := range newBlocks {
		newBlocks[i].ID = BlockID(i) //nolint:gosec // G115: bounded by newBlocks length
		newBlocks[i].Term.ForEachSuccessor(remap)
	}

	body.Blocks = newBlocks
}
