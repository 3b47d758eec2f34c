package observ

import (
	"strings"
	"testing"
)

func TestTimer_Report(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("lower")
	tm.End(idx, "blocks=4")
	idx = tm.Begin("validate")
	tm.End(idx, "")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(report.Phases))
	}
	if report.Phases[0].Name != "lower" || report.Phases[0].Note != "blocks=4" {
		t.Errorf("phase 0 = %+v", report.Phases[0])
	}
	if report.TotalMS < 0 {
		t.Errorf("total = %f", report.TotalMS)
	}
}

func TestTimer_EndOutOfRange(t *testing.T) {
	tm := NewTimer()
	tm.End(0, "nothing started")
	tm.End(-1, "")

	if got := tm.Report(); len(got.Phases) != 0 {
		t.Errorf("phases = %+v", got.Phases)
	}
}

func TestTimer_Summary(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("simplify-cfg")
	tm.End(idx, "blocks=3")

	out := tm.Summary()
	for _, want := range []string{"simplify-cfg", "blocks=3", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
