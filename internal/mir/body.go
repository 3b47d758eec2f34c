package mir

import (
	"fmt"

	"fortio.org/safecast"

	"mica/internal/hair"
	"mica/internal/source"
	"mica/internal/types"
)

// Local is a typed storage slot owned by the body.
type Local struct {
	Kind    LocalKind
	Name    string
	Type    types.TypeID
	Mutable bool
	Span    source.Span
}

// SourceScope attributes instructions to a lexical scope. InlinedAt
// is NoScopeID for scopes with no inlining ancestry.
type SourceScope struct {
	Span      source.Span
	Parent    ScopeID
	InlinedAt ScopeID
}

// ExtentData records, per extent opened while building, its parent
// (index into the same table, -1 for the argument extent) and the
// locals whose drops the extent owns. Region inference reads this.
type ExtentData struct {
	ID     hair.ExtentID
	Parent int32
	Drops  []LocalID
}

// Body is one function/constant/static lowered to MIR: the block
// table, the full local table and the extent map. Promoted constants
// get their own independent bodies.
type Body struct {
	Span     source.Span
	ArgCount int

	Locals       []Local
	Blocks       []Block
	Extents      []ExtentData
	SourceScopes []SourceScope
	Promoted     []*Body
}

// NewBody allocates a body with the three sentinel blocks (START,
// END, DIVERGE, in that order), the return slot and the outermost
// source scope.
func NewBody(span source.Span, ret types.TypeID) *Body {
	b := &Body{
		Span: span,
		SourceScopes: []SourceScope{
			{Span: span, Parent: NoScopeID, InlinedAt: NoScopeID},
		},
	}
	b.Locals = append(b.Locals, Local{
		Kind: LocalReturn,
		Name: "_ret",
		Type: ret,
		Span: span,
	})
	for i := 0; i < sentinelBlocks; i++ {
		b.StartNewBlock()
	}
	return b
}

// StartNewBlock appends an empty block (no instructions, unset
// terminator) and returns its strictly increasing index.
func (b *Body) StartNewBlock() BlockID {
	raw, err := safecast.Conv[int32](len(b.Blocks))
	if err != nil {
		panic(fmt.Errorf("mir: block id overflow: %w", err))
	}
	id := BlockID(raw)
	b.Blocks = append(b.Blocks, Block{ID: id, Term: Terminator{Kind: TermNone}})
	return id
}

// Block resolves a block id against the body's table.
func (b *Body) Block(id BlockID) *Block {
	if id < 0 || int(id) >= len(b.Blocks) {
		panic(fmt.Sprintf("mir: dangling block reference bb%d", id))
	}
	return &b.Blocks[id]
}

// Terminate sets the terminator of an existing block exactly once.
// Setting it twice is a builder bug, not a recoverable condition.
func (b *Body) Terminate(id BlockID, term Terminator) {
	bb := b.Block(id)
	if bb.Term.Kind != TermNone {
		panic(fmt.Sprintf("mir: bb%d terminated twice", id))
	}
	if term.Kind == TermNone {
		panic(fmt.Sprintf("mir: bb%d terminated with TermNone", id))
	}
	bb.Term = term
}

// AddLocal appends a local and returns its index.
func (b *Body) AddLocal(l Local) LocalID {
	raw, err := safecast.Conv[int32](len(b.Locals))
	if err != nil {
		panic(fmt.Errorf("mir: local id overflow: %w", err))
	}
	id := LocalID(raw)
	b.Locals = append(b.Locals, l)
	return id
}

// ReturnPlace names the return slot.
func (b *Body) ReturnPlace() Place {
	return PlaceOf(ReturnLocal)
}

// AddSourceScope appends a source scope and returns its id.
func (b *Body) AddSourceScope(s SourceScope) ScopeID {
	raw, err := safecast.Conv[int32](len(b.SourceScopes))
	if err != nil {
		panic(fmt.Errorf("mir: scope id overflow: %w", err))
	}
	id := ScopeID(raw)
	b.SourceScopes = append(b.SourceScopes, s)
	return id
}

// ScopeInlined reports whether a source scope has inlining ancestry.
func (b *Body) ScopeInlined(id ScopeID) bool {
	for id != NoScopeID && int(id) < len(b.SourceScopes) {
		sc := b.SourceScopes[id]
		if sc.InlinedAt != NoScopeID {
			return true
		}
		id = sc.Parent
	}
	return false
}
