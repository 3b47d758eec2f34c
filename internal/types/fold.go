package types

// FoldRegions rebuilds a type, passing every free region occurrence
// through f. Bound regions are left untouched. Aggregate kinds are
// rebuilt with fresh side-table entries so distinct occurrences never
// alias.
func (in *Interner) FoldRegions(id TypeID, f func(RegionID) RegionID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case KindRef:
		elem := in.FoldRegions(tt.Elem, f)
		region := in.foldRegion(tt.Region, f)
		if elem == tt.Elem && region == tt.Region {
			return id
		}
		return in.MkRef(region, elem, tt.Mutable)
	case KindRawPtr:
		elem := in.FoldRegions(tt.Elem, f)
		if elem == tt.Elem {
			return id
		}
		return in.MkRawPtr(elem, tt.Mutable)
	case KindArray:
		elem := in.FoldRegions(tt.Elem, f)
		if elem == tt.Elem {
			return id
		}
		return in.MkArray(elem, tt.Count)
	case KindTuple:
		info, ok := in.TupleInfo(id)
		if !ok {
			return id
		}
		elems, changed := in.foldTypeList(info.Elems, f)
		if !changed {
			return id
		}
		return in.MkTuple(elems)
	case KindFn:
		info, ok := in.FnInfo(id)
		if !ok {
			return id
		}
		params, changed := in.foldTypeList(info.Params, f)
		result := in.FoldRegions(info.Result, f)
		if !changed && result == info.Result {
			return id
		}
		return in.MkFn(params, result)
	case KindClosure:
		info, ok := in.ClosureInfo(id)
		if !ok {
			return id
		}
		substs, changed := in.FoldGenericArgs(info.Substs, f)
		if !changed {
			return id
		}
		return in.MkClosure(info.Def, substs)
	default:
		return id
	}
}

// FoldGenericArgs folds every region occurrence in a substitution
// list, reporting whether anything changed.
func (in *Interner) FoldGenericArgs(args []GenericArg, f func(RegionID) RegionID) ([]GenericArg, bool) {
	changed := false
	out := make([]GenericArg, len(args))
	for i, a := range args {
		if a.IsRegion {
			r := in.foldRegion(a.Region, f)
			out[i] = RegionArg(r)
			changed = changed || r != a.Region
			continue
		}
		t := in.FoldRegions(a.Type, f)
		out[i] = TypeArg(t)
		changed = changed || t != a.Type
	}
	if !changed {
		return args, false
	}
	return out, true
}

func (in *Interner) foldTypeList(list []TypeID, f func(RegionID) RegionID) ([]TypeID, bool) {
	changed := false
	out := make([]TypeID, len(list))
	for i, t := range list {
		out[i] = in.FoldRegions(t, f)
		changed = changed || out[i] != t
	}
	if !changed {
		return list, false
	}
	return out, true
}

func (in *Interner) foldRegion(id RegionID, f func(RegionID) RegionID) RegionID {
	if id == NoRegionID {
		return id
	}
	r, ok := in.LookupRegion(id)
	if !ok || !r.IsFree() {
		return id
	}
	return f(id)
}
