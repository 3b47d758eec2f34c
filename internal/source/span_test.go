package source

import "testing"

func TestSpan_Cover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 15}

	got := a.Cover(b)
	if got.Start != 5 || got.End != 20 {
		t.Errorf("Cover = %v", got)
	}

	// Disjoint files: the receiver wins unchanged.
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("cross-file Cover = %v, want %v", got, a)
	}
}

func TestSpan_LenEmpty(t *testing.T) {
	s := Span{File: 0, Start: 7, End: 7}
	if !s.Empty() || s.Len() != 0 {
		t.Errorf("empty span: Empty=%v Len=%d", s.Empty(), s.Len())
	}

	s.End = 12
	if s.Empty() || s.Len() != 5 {
		t.Errorf("span 7-12: Empty=%v Len=%d", s.Empty(), s.Len())
	}
	if s.String() != "0:7-12" {
		t.Errorf("String = %q", s.String())
	}
}
