package mir

import (
	"mica/internal/source"
)

// CovKind distinguishes coverage marker kinds.
type CovKind uint8

const (
	// CovCounter defines a physical counter incremented at runtime.
	CovCounter CovKind = iota
	// CovExpression defines a derived count computed from two terms.
	CovExpression
	// CovUnreachable marks a region known to never execute.
	CovUnreachable
)

// CovOpKind is the operator of a coverage expression.
type CovOpKind uint8

const (
	CovOpAdd CovOpKind = iota
	CovOpSub
)

// CovTermKind distinguishes coverage expression operand kinds.
type CovTermKind uint8

const (
	// CovTermZero is the constant-zero term.
	CovTermZero CovTermKind = iota
	// CovTermCounter references a counter by ID.
	CovTermCounter
	// CovTermExpression references another expression by ID.
	CovTermExpression
)

// CovTerm is one operand of a coverage expression.
type CovTerm struct {
	Kind CovTermKind
	ID   uint32
}

// CodeRegion is the source region a coverage marker attributes counts
// to.
type CodeRegion struct {
	Span source.Span
}

// Coverage is the payload of an InstrCoverage instruction. Counter and
// expression IDs are allocated in separate namespaces.
type Coverage struct {
	Kind CovKind

	// ID of the counter or expression being defined. Unused for
	// CovUnreachable.
	ID uint32

	// Expression payload.
	Op  CovOpKind
	LHS CovTerm
	RHS CovTerm

	// Region is nil for markers that only define an ID referenced by
	// some expression elsewhere.
	Region *CodeRegion
}

// CoverageInfo is what instrumentation codegen needs to size its
// counter and expression tables.
type CoverageInfo struct {
	NumCounters    uint32
	NumExpressions uint32
}

// coverageVisitor accumulates the highest counter and expression IDs
// seen in a body.
type coverageVisitor struct {
	info CoverageInfo

	// addMissingOperands widens the tables for IDs that only appear as
	// expression operands. Some markers are dropped by optimization
	// while expressions still reference their IDs; the tables must
	// cover those too, so visiting runs twice.
	addMissingOperands bool
}

func (v *coverageVisitor) updateCounter(id uint32) {
	if id >= v.info.NumCounters {
		v.info.NumCounters = id + 1
	}
}

func (v *coverageVisitor) updateExpression(id uint32) {
	if id >= v.info.NumExpressions {
		v.info.NumExpressions = id + 1
	}
}

func (v *coverageVisitor) visitTerm(t CovTerm) {
	switch t.Kind {
	case CovTermCounter:
		v.updateCounter(t.ID)
	case CovTermExpression:
		v.updateExpression(t.ID)
	}
}

func (v *coverageVisitor) visit(cov *Coverage) {
	if v.addMissingOperands {
		if cov.Kind == CovExpression {
			v.visitTerm(cov.LHS)
			v.visitTerm(cov.RHS)
		}
		return
	}
	switch cov.Kind {
	case CovCounter:
		v.updateCounter(cov.ID)
	case CovExpression:
		v.updateExpression(cov.ID)
	}
}

func (v *coverageVisitor) visitBody(body *Body) {
	for i := range body.Blocks {
		bb := &body.Blocks[i]
		for j := range bb.Instrs {
			ins := &bb.Instrs[j]
			if ins.Kind != InstrCoverage || body.ScopeInlined(ins.Scope) {
				continue
			}
			v.visit(&ins.Coverage)
		}
	}
}

// ComputeCoverageInfo sizes the coverage tables for a body: one slot
// past the highest counter and expression ID in use, including IDs
// that survive only as expression operands. Markers whose scope chain
// was inlined from another body belong to that body's tables and are
// not counted here.
func ComputeCoverageInfo(body *Body) CoverageInfo {
	v := &coverageVisitor{}
	v.visitBody(body)
	v.addMissingOperands = true
	v.visitBody(body)
	return v.info
}

// CoveredRegions returns the code regions of coverage markers
// attributed to the body's own source, skipping instructions whose
// scope chain was inlined from elsewhere.
func CoveredRegions(body *Body) []CodeRegion {
	var regions []CodeRegion
	for i := range body.Blocks {
		bb := &body.Blocks[i]
		for j := range bb.Instrs {
			ins := &bb.Instrs[j]
			if ins.Kind != InstrCoverage || ins.Coverage.Region == nil {
				continue
			}
			if body.ScopeInlined(ins.Scope) {
				continue
			}
			regions = append(regions, *ins.Coverage.Region)
		}
	}
	return regions
}
