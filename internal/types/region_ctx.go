package types

import "mica/internal/source"

// Lookup records the syntactic site at which a region inference
// variable was minted. Block/Instr address the minting statement
// (Instr == -1 means the block's terminator); InBorrow marks the more
// specific borrow-expression slot.
type Lookup struct {
	Span     source.Span
	Block    int32
	Instr    int32
	InBorrow bool
}

// RegionCtx mints region inference variables for one body and keeps
// the lookup recorded for each of them. It is not safe for concurrent
// use; each body's renumbering owns its own ctx.
type RegionCtx struct {
	next    uint32
	lookups map[uint32]Lookup
}

// NewRegionCtx returns an empty minting context.
func NewRegionCtx() *RegionCtx {
	return &RegionCtx{lookups: make(map[uint32]Lookup, 16)}
}

// FreshVar mints a new inference variable and records its lookup.
func (c *RegionCtx) FreshVar(lk Lookup) uint32 {
	vid := c.next
	c.next++
	c.lookups[vid] = lk
	return vid
}

// Observe records a lookup for vid only if none was recorded yet.
// Re-observing a variable through a second walk must not overwrite
// the original site.
func (c *RegionCtx) Observe(vid uint32, lk Lookup) {
	if _, ok := c.lookups[vid]; ok {
		return
	}
	c.lookups[vid] = lk
}

// LookupOf returns the recorded lookup for vid.
func (c *RegionCtx) LookupOf(vid uint32) (Lookup, bool) {
	lk, ok := c.lookups[vid]
	return lk, ok
}

// NumVars returns how many variables were minted so far.
func (c *RegionCtx) NumVars() uint32 {
	return c.next
}
