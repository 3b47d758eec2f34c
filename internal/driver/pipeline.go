package driver

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"mica/internal/diag"
	"mica/internal/mir"
	"mica/internal/observ"
	"mica/internal/types"
)

// Input is one body handed to the pipeline with a name for reports.
type Input struct {
	Name string
	Body *mir.Body
}

// Result is what the pipeline produced for one body. The body is
// transformed in place; Bag carries internal-error diagnostics from
// validation.
type Result struct {
	Name      string
	Body      *mir.Body
	Bag       *diag.Bag
	RegionCtx *types.RegionCtx
	Coverage  mir.CoverageInfo
	Changed   bool
	Timing    observ.Report
	DumpedMIR string
}

// Pipeline runs the configured middle-end passes over bodies. One
// types interner is shared; it is only read after lowering, so bodies
// can run in parallel.
type Pipeline struct {
	Config Config
	Types  *types.Interner
}

// Run processes every body, capped at the configured parallelism.
// Results are index-aligned with the inputs. The first body whose
// processing fails outright cancels the rest.
func (p *Pipeline) Run(ctx context.Context, inputs []Input) ([]Result, error) {
	results := make([]Result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Config.jobLimit(len(inputs)))

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := p.runOne(in)
			if err != nil {
				return fmt.Errorf("%s: %w", in.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (p *Pipeline) runOne(in Input) (Result, error) {
	res := Result{
		Name: in.Name,
		Body: in.Body,
		Bag:  diag.NewBag(p.Config.Pipeline.MaxDiagnostics),
	}
	timer := observ.NewTimer()

	if p.Config.Pipeline.SimplifyCFG {
		idx := timer.Begin("simplify-cfg")
		m := &mir.Manager{Passes: []mir.Pass{mir.SimplifyCFG{}}}
		res.Changed = m.Run(in.Body)
		timer.End(idx, fmt.Sprintf("blocks=%d", len(in.Body.Blocks)))
	}

	if p.Config.Pipeline.Renumber {
		idx := timer.Begin("renumber")
		res.RegionCtx = types.NewRegionCtx()
		minted := mir.RenumberBody(in.Body, p.Types, res.RegionCtx)
		timer.End(idx, fmt.Sprintf("region_vars=%d", minted))
	}

	idx := timer.Begin("coverage-info")
	res.Coverage = mir.ComputeCoverageInfo(in.Body)
	timer.End(idx, "")

	if p.Config.Pipeline.Validate {
		idx := timer.Begin("validate")
		if err := mir.Validate(in.Body, p.Types); err != nil {
			diag.ReportBug(diag.BagReporter{Bag: res.Bag}, diag.MirInvalidBody, in.Body.Span, err.Error())
		}
		timer.End(idx, "")
	}

	if p.Config.Pipeline.DumpMIR {
		var sb strings.Builder
		if err := mir.DumpBody(&sb, in.Body, p.Types); err != nil {
			return res, err
		}
		res.DumpedMIR = sb.String()
	}

	res.Timing = timer.Report()
	return res, nil
}
