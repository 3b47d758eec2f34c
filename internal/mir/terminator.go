package mir

type TermKind uint8

const (
	TermNone TermKind = iota
	TermGoto
	TermIf
	TermSwitchInt
	TermReturn
	TermDiverge
	TermCall
)

type Terminator struct {
	Kind TermKind

	Goto      GotoTerm
	If        IfTerm
	SwitchInt SwitchIntTerm
	Return    ReturnTerm
	Diverge   struct{}
	Call      CallTerm
}

type GotoTerm struct {
	Target BlockID
}

type IfTerm struct {
	Cond Operand
	Then BlockID
	Else BlockID
}

type SwitchIntCase struct {
	Value  uint64
	Target BlockID
}

// SwitchIntTerm switches on an integer discriminant. Default is
// NoBlockID when the cases are exhaustive.
type SwitchIntTerm struct {
	Value   Operand
	Cases   []SwitchIntCase
	Default BlockID
}

// ReturnTerm carries no operand: the return value lives in the return
// slot, written before control reaches EndBlock.
type ReturnTerm struct{}

// CallTerm transfers to Target after the call returns. Cleanup, when
// set, is taken if the callee diverges through unwinding.
type CallTerm struct {
	HasDst  bool
	Dst     Place
	Fn      Operand
	Args    []Operand
	Target  BlockID
	Cleanup BlockID
}

// ForEachSuccessor invokes f with a pointer to every successor block
// reference of the terminator, letting passes read or rewrite them in
// place.
func (t *Terminator) ForEachSuccessor(f func(*BlockID)) {
	switch t.Kind {
	case TermGoto:
		f(&t.Goto.Target)
	case TermIf:
		f(&t.If.Then)
		f(&t.If.Else)
	case TermSwitchInt:
		for i := range t.SwitchInt.Cases {
			f(&t.SwitchInt.Cases[i].Target)
		}
		if t.SwitchInt.Default != NoBlockID {
			f(&t.SwitchInt.Default)
		}
	case TermCall:
		f(&t.Call.Target)
		if t.Call.Cleanup != NoBlockID {
			f(&t.Call.Cleanup)
		}
	}
	// TermReturn, TermDiverge, TermNone have no successors.
}

// Successors returns the successor block list in terminator order.
func (t *Terminator) Successors() []BlockID {
	var out []BlockID
	t.ForEachSuccessor(func(id *BlockID) {
		out = append(out, *id)
	})
	return out
}
