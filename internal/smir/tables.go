package smir

import (
	"sync"

	"mica/internal/memory"
)

// Tables maps internal allocation ids to stable ones. Stable ids are
// dense and assigned in first-seen order, so two sessions exporting
// the same bodies in the same order produce identical ids. Safe for
// concurrent use.
type Tables struct {
	mu    sync.Mutex
	ids   map[memory.AllocID]AllocID
	inner *memory.Interner
}

// NewTables returns an empty mapping over the given interner.
func NewTables(inner *memory.Interner) *Tables {
	return &Tables{
		ids:   make(map[memory.AllocID]AllocID, 32),
		inner: inner,
	}
}

// StableID returns the stable id for an internal allocation id,
// minting one on first sight.
func (t *Tables) StableID(id memory.AllocID) AllocID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sid, ok := t.ids[id]; ok {
		return sid
	}
	sid := AllocID(len(t.ids) + 1)
	t.ids[id] = sid
	return sid
}

// Resolve returns the internal allocation behind an internal id.
func (t *Tables) Resolve(id memory.AllocID) (*memory.Allocation, bool) {
	return t.inner.Get(id)
}

// Len returns how many allocations have stable ids so far.
func (t *Tables) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ids)
}
