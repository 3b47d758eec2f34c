package diag

import (
	"testing"

	"mica/internal/source"
)

func TestBag_Limit(t *testing.T) {
	b := NewBag(2)

	if !b.Add(Diagnostic{Severity: SevWarning}) || !b.Add(Diagnostic{Severity: SevWarning}) {
		t.Fatal("adds under the limit were dropped")
	}
	if b.Add(Diagnostic{Severity: SevError}) {
		t.Error("add over the limit was accepted")
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
	if b.HasErrors() {
		t.Error("warnings alone must not count as errors")
	}
}

func TestBag_HasErrors(t *testing.T) {
	b := NewBag(8)
	b.Add(Diagnostic{Severity: SevWarning})
	b.Add(Diagnostic{Severity: SevBug})
	if !b.HasErrors() {
		t.Error("bug-severity diagnostic must count as an error")
	}
}

func TestBag_Sort(t *testing.T) {
	b := NewBag(8)
	b.Add(Diagnostic{Message: "later", Primary: source.Span{File: 1, Start: 50, End: 60}})
	b.Add(Diagnostic{Message: "other file", Primary: source.Span{File: 2, Start: 0, End: 1}})
	b.Add(Diagnostic{Message: "earlier", Primary: source.Span{File: 1, Start: 10, End: 20}})

	b.Sort()

	got := b.Items()
	want := []string{"earlier", "later", "other file"}
	for i, msg := range want {
		if got[i].Message != msg {
			t.Errorf("item %d = %q, want %q", i, got[i].Message, msg)
		}
	}
}

func TestReportBug(t *testing.T) {
	b := NewBag(4)
	ReportBug(BagReporter{Bag: b}, MirInvalidBody, source.Span{}, "broken invariant")

	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}
	d := b.Items()[0]
	if d.Severity != SevBug || d.Code != MirInvalidBody || d.Message != "broken invariant" {
		t.Errorf("diagnostic = %+v", d)
	}

	// Nil targets are silently ignored.
	ReportBug(nil, MirInvalidBody, source.Span{}, "x")
	ReportBug(BagReporter{}, MirInvalidBody, source.Span{}, "x")
}
