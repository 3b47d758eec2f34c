package mir

import (
	"fmt"

	"fortio.org/safecast"

	"mica/internal/hair"
	"mica/internal/source"
)

// scope is one open extent on the builder's stack.
type scope struct {
	extent    hair.ExtentID
	extentIdx int32
	drops     []dropEntry
}

type dropEntry struct {
	local LocalID
	span  source.Span
}

// InScope opens an extent, runs f positioned at entry, then threads
// the extent's cleanup onto f's exit block before closing it. Extents
// close strictly LIFO; closing a non-topmost extent is a builder bug.
func (l *builder) InScope(ext hair.ExtentID, entry BlockID, f func() BlockID) BlockID {
	l.pushScope(ext)
	l.startBlock(entry)
	exit := f()
	return l.popScope(ext, exit)
}

func (l *builder) pushScope(ext hair.ExtentID) {
	parent := int32(-1)
	if n := len(l.scopes); n > 0 {
		parent = l.scopes[n-1].extentIdx
	}
	idx, err := safecast.Conv[int32](len(l.body.Extents))
	if err != nil {
		panic(fmt.Errorf("mir: extent table overflow: %w", err))
	}
	l.body.Extents = append(l.body.Extents, ExtentData{ID: ext, Parent: parent})
	l.scopes = append(l.scopes, scope{extent: ext, extentIdx: idx})
}

func (l *builder) popScope(ext hair.ExtentID, exit BlockID) BlockID {
	n := len(l.scopes)
	if n == 0 {
		panic("mir: popping empty scope stack")
	}
	top := &l.scopes[n-1]
	if top.extent != ext {
		panic(fmt.Sprintf("mir: closing extent %d over open extent %d", ext, top.extent))
	}

	l.startBlock(exit)
	if !l.curBlock().Terminated() {
		// Drops run in reverse declaration order, then the region
		// marker closes the extent.
		for i := len(top.drops) - 1; i >= 0; i-- {
			d := top.drops[i]
			l.emit(Instr{
				Kind:  InstrDrop,
				Span:  d.span,
				Scope: OutermostScope,
				Drop:  DropInstr{Place: PlaceOf(d.local)},
			})
		}
		l.emit(Instr{
			Kind:      InstrEndRegion,
			Scope:     OutermostScope,
			EndRegion: EndRegionInstr{Extent: ext},
		})
	}

	l.scopes = l.scopes[:n-1]
	return l.cur
}

// scheduleDrop registers a drop obligation for a binding in the
// innermost open extent. Types without destructors register nothing.
func (l *builder) scheduleDrop(local LocalID, span source.Span) {
	n := len(l.scopes)
	if n == 0 {
		panic("mir: drop scheduled outside any extent")
	}
	ty := l.body.Locals[local].Type
	if !l.types.NeedsDrop(ty) {
		return
	}
	top := &l.scopes[n-1]
	top.drops = append(top.drops, dropEntry{local: local, span: span})
	l.body.Extents[top.extentIdx].Drops = append(l.body.Extents[top.extentIdx].Drops, local)
}
