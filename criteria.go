// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/floats"
)

// Kind identifies the kind of a stop criterion. A Monitor holds at most one
// criterion of each kind.
type Kind string

// Kinds of the criteria provided by this package.
const (
	KindResidual       Kind = "residual"
	KindIterationCount Kind = "iteration-count"
	KindDivergence     Kind = "divergence"
	KindStagnation     Kind = "stagnation"
	KindFailure        Kind = "failure"
	KindCancellation   Kind = "cancellation"
)

// Progress describes the state of an iteration as seen by stop criteria.
type Progress struct {
	// Iteration is the number of completed iterations. Checks made inside
	// an iteration, before it completes, set InIteration and carry the
	// count of the iterations before it.
	Iteration   int
	InIteration bool
	// X is the current approximate solution and B the right-hand side.
	X, B []float64
	// Residual is the residual vector. It is nil when only an estimate of
	// its norm is available.
	Residual []float64
	// ResidualNorm is the (estimated) 2-norm of the residual. It is
	// meaningless when NoResidual is set.
	ResidualNorm float64
	// NoResidual reports that neither the residual nor an estimate of
	// its norm is available.
	NoResidual bool
	// BNorm is the 2-norm of B.
	BNorm float64
}

// step returns the number of the iteration whose iterate p describes.
func (p Progress) step() int {
	if p.InIteration {
		return p.Iteration + 1
	}
	return p.Iteration
}

// Criterion is a single convergence or divergence test.
//
// A Criterion may keep state between evaluations to detect trends. Reset
// restores the state it had before the first evaluation without discarding
// its configuration.
type Criterion interface {
	Kind() Kind
	Evaluate(p Progress) Status
	Reset()
}

// ResidualCriterion reports Converged when
//  |r| <= max(AbsTol, RelTol*|b|).
type ResidualCriterion struct {
	AbsTol float64
	RelTol float64
}

func (*ResidualCriterion) Kind() Kind { return KindResidual }

func (c *ResidualCriterion) Evaluate(p Progress) Status {
	if p.NoResidual {
		return Continue
	}
	if p.ResidualNorm <= math.Max(c.AbsTol, c.RelTol*p.BNorm) {
		return Converged
	}
	return Continue
}

func (*ResidualCriterion) Reset() {}

// IterationCountCriterion reports StoppedWithoutConvergence once Max
// iterations have been completed.
type IterationCountCriterion struct {
	Max int
}

func (*IterationCountCriterion) Kind() Kind { return KindIterationCount }

func (c *IterationCountCriterion) Evaluate(p Progress) Status {
	if p.Iteration >= c.Max {
		return StoppedWithoutConvergence
	}
	return Continue
}

func (*IterationCountCriterion) Reset() {}

// DivergenceCriterion reports Diverged when the residual norm has grown in each
// of the last Window iterations by more than MaxRelativeIncrease relative to
// the previous iteration.
type DivergenceCriterion struct {
	// MaxRelativeIncrease is the tolerated relative growth per
	// iteration. If it is zero, 0.08 is used.
	MaxRelativeIncrease float64
	// Window is the number of consecutive iterations with growth
	// needed to declare divergence. If it is zero, 10 is used.
	Window int

	hist history
}

func (*DivergenceCriterion) Kind() Kind { return KindDivergence }

func (c *DivergenceCriterion) Evaluate(p Progress) Status {
	inc := c.MaxRelativeIncrease
	if inc == 0 {
		inc = 0.08
	}
	window := c.Window
	if window == 0 {
		window = 10
	}
	if p.NoResidual {
		return Continue
	}
	c.hist.add(p.step(), p.ResidualNorm, window+1)
	if !c.hist.full(window + 1) {
		return Continue
	}
	v := c.hist.vals
	for i := 1; i < len(v); i++ {
		if !(v[i] > (1+inc)*v[i-1]) {
			return Continue
		}
	}
	return Diverged
}

func (c *DivergenceCriterion) Reset() { c.hist.reset() }

// StagnationCriterion reports StoppedWithoutConvergence when the residual norm
// changed by no more than RelativeChange relative to its value Window
// iterations ago.
type StagnationCriterion struct {
	// RelativeChange is the relative change below which the iteration is
	// considered stagnating. If it is zero, 1e-6 is used.
	RelativeChange float64
	// Window is the number of iterations over which the change is
	// measured. If it is zero, 20 is used.
	Window int

	hist history
}

func (*StagnationCriterion) Kind() Kind { return KindStagnation }

func (c *StagnationCriterion) Evaluate(p Progress) Status {
	tol := c.RelativeChange
	if tol == 0 {
		tol = 1e-6
	}
	window := c.Window
	if window == 0 {
		window = 20
	}
	if p.NoResidual {
		return Continue
	}
	c.hist.add(p.step(), p.ResidualNorm, window+1)
	if !c.hist.full(window + 1) {
		return Continue
	}
	first, last := c.hist.vals[0], c.hist.vals[len(c.hist.vals)-1]
	if math.Abs(last-first) <= tol*first {
		return StoppedWithoutConvergence
	}
	return Continue
}

func (c *StagnationCriterion) Reset() { c.hist.reset() }

// FailureCriterion reports Failure when the residual norm is not finite or
// the approximate solution contains NaN.
type FailureCriterion struct{}

func (FailureCriterion) Kind() Kind { return KindFailure }

func (FailureCriterion) Evaluate(p Progress) Status {
	if !p.NoResidual && (math.IsNaN(p.ResidualNorm) || math.IsInf(p.ResidualNorm, 0)) {
		return Failure
	}
	if floats.HasNaN(p.X) {
		return Failure
	}
	return Continue
}

func (FailureCriterion) Reset() {}

// CancellationCriterion reports Cancelled after Cancel has been called. Cancel
// may be called concurrently with a solve.
type CancellationCriterion struct {
	cancelled atomic.Bool
}

func (*CancellationCriterion) Kind() Kind { return KindCancellation }

// Cancel requests that the iteration stops at the next status check.
func (c *CancellationCriterion) Cancel() { c.cancelled.Store(true) }

// Cancelled reports whether Cancel has been called since the last Reset.
func (c *CancellationCriterion) Cancelled() bool { return c.cancelled.Load() }

func (c *CancellationCriterion) Evaluate(Progress) Status {
	if c.cancelled.Load() {
		return Cancelled
	}
	return Continue
}

func (c *CancellationCriterion) Reset() { c.cancelled.Store(false) }

// history keeps the residual norms of the most recent iterations, one sample
// per iteration number.
type history struct {
	vals []float64
	last int
}

func (h *history) add(iter int, v float64, n int) {
	switch {
	case len(h.vals) > 0 && iter == h.last:
		h.vals[len(h.vals)-1] = v
		return
	case len(h.vals) > 0 && iter < h.last:
		h.vals = h.vals[:0]
	}
	h.last = iter
	if len(h.vals) < n {
		h.vals = append(h.vals, v)
		return
	}
	copy(h.vals, h.vals[len(h.vals)-n+1:])
	h.vals = h.vals[:n]
	h.vals[n-1] = v
}

func (h *history) full(n int) bool { return len(h.vals) >= n }

func (h *history) reset() {
	h.vals = h.vals[:0]
	h.last = 0
}
