package memory

import (
	"crypto/sha256"
	"encoding/binary"
	"sync"
)

// Interner deduplicates allocations by content and hands out stable
// ids. Safe for concurrent use; const evaluation interns from multiple
// workers.
type Interner struct {
	mu     sync.Mutex
	byHash map[[sha256.Size]byte]AllocID
	allocs []*Allocation
}

// NewInterner returns an empty allocation interner.
func NewInterner() *Interner {
	return &Interner{
		byHash: make(map[[sha256.Size]byte]AllocID, 32),
	}
}

// Intern stores the allocation, reusing the id of an existing
// allocation with identical content. The caller must not mutate the
// allocation afterwards.
func (in *Interner) Intern(a *Allocation) AllocID {
	key := contentKey(a)

	in.mu.Lock()
	defer in.mu.Unlock()

	if id, ok := in.byHash[key]; ok {
		return id
	}
	in.allocs = append(in.allocs, a)
	id := AllocID(len(in.allocs)) // ids start at 1; 0 stays invalid
	in.byHash[key] = id
	return id
}

// Get resolves an id to its allocation.
func (in *Interner) Get(id AllocID) (*Allocation, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if id == NoAllocID || int(id) > len(in.allocs) {
		return nil, false
	}
	return in.allocs[id-1], true
}

// Len returns how many distinct allocations are interned.
func (in *Interner) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.allocs)
}

// contentKey hashes everything that distinguishes two allocations.
func contentKey(a *Allocation) [sha256.Size]byte {
	h := sha256.New()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], a.Align)
	h.Write(buf[:])
	if a.Mutable {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}

	binary.LittleEndian.PutUint64(buf[:], uint64(len(a.Bytes)))
	h.Write(buf[:])
	// Uninitialized bytes must not leak their residual values into the
	// key: hash the masked byte, plus the mask bit itself.
	for i, b := range a.Bytes {
		if a.Init.Get(i) {
			h.Write([]byte{1, b})
		} else {
			h.Write([]byte{0, 0})
		}
	}

	for _, p := range a.Provenance {
		binary.LittleEndian.PutUint64(buf[:], p.Offset)
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(p.Alloc))
		h.Write(buf[:])
	}

	var key [sha256.Size]byte
	copy(key[:], h.Sum(nil))
	return key
}
