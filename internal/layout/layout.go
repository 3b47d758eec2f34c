package layout

import (
	"fmt"

	"mica/internal/types"
)

// TypeLayout is the ABI layout of a type for a specific Target.
type TypeLayout struct {
	Size  int
	Align int

	// Tuple/closure-only: byte offsets of the elements.
	ElemOffsets []int
}

// Engine computes memory layout for types.
type Engine struct {
	Target Target
	Types  *types.Interner

	cache *cache
}

// New creates a new Engine for the specified target.
func New(target Target, typesIn *types.Interner) *Engine {
	return &Engine{
		Target: target,
		Types:  typesIn,
		cache:  newCache(),
	}
}

// LayoutOf computes and caches the layout of a type.
func (e *Engine) LayoutOf(t types.TypeID) (TypeLayout, error) {
	if e == nil {
		return TypeLayout{Size: 0, Align: 1}, nil
	}
	if e.cache == nil {
		e.cache = newCache()
	}
	if cached, ok := e.cache.get(t); ok {
		return cached, nil
	}
	l, err := e.computeLayout(t)
	if err != nil {
		return l, err
	}
	e.cache.put(t, l)
	return l, nil
}

// SizeOf returns the size of a type in bytes.
func (e *Engine) SizeOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Size, err
}

// AlignOf returns the alignment requirement of a type in bytes.
func (e *Engine) AlignOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Align, err
}

func (e *Engine) computeLayout(id types.TypeID) (TypeLayout, error) {
	typesIn := e.Types
	if typesIn == nil || id == types.NoTypeID {
		return TypeLayout{Size: 0, Align: 1}, nil
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return TypeLayout{Size: 0, Align: 1}, fmt.Errorf("layout: unknown type#%d", id)
	}

	switch tt.Kind {
	case types.KindUnit:
		return TypeLayout{Size: 0, Align: 1}, nil

	case types.KindBool:
		return TypeLayout{Size: 1, Align: 1}, nil

	case types.KindInt, types.KindUint, types.KindFloat:
		if tt.Bits == 0 {
			return e.ptrLayout(), nil
		}
		return scalarLayoutBytes(int(tt.Bits) / 8), nil

	case types.KindStr, types.KindRef, types.KindRawPtr, types.KindFn:
		return e.ptrLayout(), nil

	case types.KindArray:
		return e.arrayLayout(tt.Elem, tt.Count)

	case types.KindTuple:
		info, ok := typesIn.TupleInfo(id)
		if !ok {
			return TypeLayout{Size: 0, Align: 1}, fmt.Errorf("layout: tuple info missing for type#%d", id)
		}
		return e.sequentialLayout(info.Elems)

	case types.KindClosure:
		// A closure environment lays out its captured type arguments
		// like a tuple; region arguments occupy no storage.
		info, ok := typesIn.ClosureInfo(id)
		if !ok {
			return TypeLayout{Size: 0, Align: 1}, fmt.Errorf("layout: closure info missing for type#%d", id)
		}
		elems := make([]types.TypeID, 0, len(info.Substs))
		for _, a := range info.Substs {
			if !a.IsRegion {
				elems = append(elems, a.Type)
			}
		}
		return e.sequentialLayout(elems)

	default:
		return TypeLayout{Size: 0, Align: 1}, fmt.Errorf("layout: unsized type#%d", id)
	}
}

func (e *Engine) ptrLayout() TypeLayout {
	ptrSize := e.Target.PtrSize
	ptrAlign := e.Target.PtrAlign
	if ptrSize <= 0 {
		ptrSize = 8
	}
	if ptrAlign <= 0 {
		ptrAlign = ptrSize
	}
	return TypeLayout{Size: ptrSize, Align: ptrAlign}
}

func scalarLayoutBytes(size int) TypeLayout {
	if size <= 0 {
		return TypeLayout{Size: 0, Align: 1}
	}
	return TypeLayout{Size: size, Align: size}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

func (e *Engine) arrayLayout(elem types.TypeID, count uint32) (TypeLayout, error) {
	el, err := e.LayoutOf(elem)
	if err != nil {
		return TypeLayout{Size: 0, Align: 1}, err
	}
	align := el.Align
	if align <= 0 {
		align = 1
	}
	stride := roundUp(el.Size, align)
	return TypeLayout{
		Size:  stride * int(count),
		Align: align,
	}, nil
}

func (e *Engine) sequentialLayout(elems []types.TypeID) (TypeLayout, error) {
	size := 0
	align := 1
	offsets := make([]int, len(elems))
	for i, elem := range elems {
		el, err := e.LayoutOf(elem)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}
		a := el.Align
		if a <= 0 {
			a = 1
		}
		size = roundUp(size, a)
		offsets[i] = size
		size += el.Size
		if a > align {
			align = a
		}
	}
	size = roundUp(size, align)
	return TypeLayout{Size: size, Align: align, ElemOffsets: offsets}, nil
}
