package driver

import (
	"context"
	"strings"
	"testing"

	"mica/internal/mir"
	"mica/internal/source"
	"mica/internal/types"
)

// pipelineBody builds a body with one collapsible hop between START and
// END plus a reference-typed temp, so both the CFG pass and region
// renumbering have work to do.
func pipelineBody(typesIn *types.Interner) *mir.Body {
	b := mir.NewBody(source.Span{}, typesIn.Builtins().Unit)
	b.Terminate(mir.EndBlock, mir.Terminator{Kind: mir.TermReturn})
	b.Terminate(mir.DivergeBlock, mir.Terminator{Kind: mir.TermDiverge})

	hop := b.StartNewBlock()
	b.Terminate(mir.StartBlock, mir.Terminator{Kind: mir.TermGoto, Goto: mir.GotoTerm{Target: hop}})
	b.Terminate(hop, mir.Terminator{Kind: mir.TermGoto, Goto: mir.GotoTerm{Target: mir.EndBlock}})

	b.AddLocal(mir.Local{
		Kind: mir.LocalTemp,
		Name: "r",
		Type: typesIn.MkRef(typesIn.Static(), typesIn.Builtins().Int, false),
	})
	return b
}

func TestPipeline_Run(t *testing.T) {
	typesIn := types.NewInterner()
	p := &Pipeline{Config: DefaultConfig(), Types: typesIn}

	inputs := []Input{
		{Name: "alpha", Body: pipelineBody(typesIn)},
		{Name: "beta", Body: pipelineBody(typesIn)},
	}
	results, err := p.Run(context.Background(), inputs)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	for i, res := range results {
		if res.Name != inputs[i].Name {
			t.Errorf("result %d name = %q, want %q", i, res.Name, inputs[i].Name)
		}
		if !res.Changed {
			t.Errorf("%s: goto hop not simplified", res.Name)
		}
		if got := len(res.Body.Blocks); got != 3 {
			t.Errorf("%s: %d blocks after simplify, want 3", res.Name, got)
		}
		if res.RegionCtx == nil || res.RegionCtx.NumVars() == 0 {
			t.Errorf("%s: no region variables minted", res.Name)
		}
		if res.Bag.Len() != 0 {
			t.Errorf("%s: unexpected diagnostics: %+v", res.Name, res.Bag.Items())
		}
	}
}

func TestPipeline_TimingPhases(t *testing.T) {
	typesIn := types.NewInterner()
	p := &Pipeline{Config: DefaultConfig(), Types: typesIn}

	results, err := p.Run(context.Background(), []Input{{Name: "f", Body: pipelineBody(typesIn)}})
	if err != nil {
		t.Fatal(err)
	}

	seen := map[string]bool{}
	for _, ph := range results[0].Timing.Phases {
		seen[ph.Name] = true
	}
	for _, want := range []string{"simplify-cfg", "renumber", "coverage-info", "validate"} {
		if !seen[want] {
			t.Errorf("phase %q missing from timing report: %v", want, seen)
		}
	}
}

func TestPipeline_DumpMIR(t *testing.T) {
	typesIn := types.NewInterner()
	cfg := DefaultConfig()
	cfg.Pipeline.DumpMIR = true
	p := &Pipeline{Config: cfg, Types: typesIn}

	results, err := p.Run(context.Background(), []Input{{Name: "f", Body: pipelineBody(typesIn)}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(results[0].DumpedMIR, "bb0:") {
		t.Errorf("dump missing block labels:\n%s", results[0].DumpedMIR)
	}
}

func TestPipeline_ReportsInvalidBody(t *testing.T) {
	typesIn := types.NewInterner()
	cfg := DefaultConfig()
	// Leave the body alone so the dangling edge survives to validation.
	cfg.Pipeline.SimplifyCFG = false
	p := &Pipeline{Config: cfg, Types: typesIn}

	b := mir.NewBody(source.Span{}, typesIn.Builtins().Unit)
	b.Terminate(mir.EndBlock, mir.Terminator{Kind: mir.TermReturn})
	b.Terminate(mir.DivergeBlock, mir.Terminator{Kind: mir.TermDiverge})
	b.Terminate(mir.StartBlock, mir.Terminator{Kind: mir.TermGoto, Goto: mir.GotoTerm{Target: mir.BlockID(50)}})

	results, err := p.Run(context.Background(), []Input{{Name: "bad", Body: b}})
	if err != nil {
		t.Fatal(err)
	}
	bag := results[0].Bag
	if bag.Len() != 1 || !bag.HasErrors() {
		t.Errorf("expected one internal-error diagnostic, got %+v", bag.Items())
	}
}

func TestPipeline_CancelledContext(t *testing.T) {
	typesIn := types.NewInterner()
	p := &Pipeline{Config: DefaultConfig(), Types: typesIn}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, []Input{{Name: "f", Body: pipelineBody(typesIn)}})
	if err == nil {
		t.Error("expected error from cancelled context")
	}
}
