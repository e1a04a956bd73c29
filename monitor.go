// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
)

// Monitor aggregates the verdicts of a set of stop criteria into a single
// Status and keeps track of the number of iterations.
//
// A Monitor holds at most one criterion of each Kind. The verdicts are
// combined with the precedence
//  Failure > Cancelled > Diverged > Converged > StoppedWithoutConvergence > Continue.
// Once a Monitor reports Diverged, StoppedWithoutConvergence, Cancelled or
// Failure, it keeps reporting it until Reset is called.
//
// The zero value is an empty Monitor ready to use. A Monitor must not be
// shared by concurrent solves; only Cancel may be called concurrently.
type Monitor struct {
	criteria map[Kind]Criterion
	order    []Kind

	iterations int
	status     Status
	cancelled  atomic.Bool

	log *zerolog.Logger
}

// NewMonitor returns a Monitor holding the given criteria. It returns an error
// if two criteria are of the same kind.
func NewMonitor(criteria ...Criterion) (*Monitor, error) {
	m := &Monitor{}
	for _, c := range criteria {
		if err := m.Add(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetLogger sets the logger that receives status transitions at debug level.
func (m *Monitor) SetLogger(l zerolog.Logger) {
	m.log = &l
}

// Add registers c. It returns ErrDuplicateCriterion if a criterion of the same
// kind is already registered.
func (m *Monitor) Add(c Criterion) error {
	if c == nil {
		panic("krylov: nil criterion")
	}
	k := c.Kind()
	if _, ok := m.criteria[k]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCriterion, k)
	}
	if m.criteria == nil {
		m.criteria = make(map[Kind]Criterion)
	}
	m.criteria[k] = c
	m.order = append(m.order, k)
	return nil
}

// Remove unregisters the criterion of the same kind as c and reports whether
// there was one.
func (m *Monitor) Remove(c Criterion) bool {
	k := c.Kind()
	if _, ok := m.criteria[k]; !ok {
		return false
	}
	delete(m.criteria, k)
	for i, o := range m.order {
		if o == k {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether a criterion of the same kind as c is registered.
func (m *Monitor) Contains(c Criterion) bool {
	_, ok := m.criteria[c.Kind()]
	return ok
}

// Criteria returns the registered criteria in registration order.
func (m *Monitor) Criteria() []Criterion {
	cs := make([]Criterion, len(m.order))
	for i, k := range m.order {
		cs[i] = m.criteria[k]
	}
	return cs
}

// Len returns the number of registered criteria.
func (m *Monitor) Len() int { return len(m.order) }

// Status returns the status computed by the last status query.
func (m *Monitor) Status() Status { return m.status }

// Iterations returns the largest iteration number seen since the last Reset.
func (m *Monitor) Iterations() int { return m.iterations }

// DetermineStatus evaluates every registered criterion on the iteration
// number iter, the approximate solution x, the right-hand side b and the
// residual r, and returns the combined status.
//
// r may be nil when no residual is available. Criteria that need the residual
// then report Continue, so a nil r never leads to Converged.
func (m *Monitor) DetermineStatus(iter int, x, b, r []float64) Status {
	p := Progress{
		Iteration: iter,
		X:         x,
		B:         b,
		BNorm:     floats.Norm(b, 2),
	}
	if r == nil {
		p.NoResidual = true
		p.ResidualNorm = math.Inf(1)
	} else {
		if len(r) != len(b) {
			panic("krylov: len(r) != len(b)")
		}
		p.Residual = r
		p.ResidualNorm = floats.Norm(r, 2)
	}
	return m.evaluate(p)
}

func (m *Monitor) evaluate(p Progress) Status {
	if p.Iteration < 0 {
		panic("krylov: negative iteration number")
	}
	if m.status.sticky() {
		return m.status
	}
	if m.cancelled.Load() {
		m.setStatus(Cancelled, p)
		return m.status
	}
	if p.Iteration > m.iterations {
		m.iterations = p.Iteration
	}
	// Every criterion is evaluated so that those keeping a history see
	// each iteration.
	status := Continue
	for _, k := range m.order {
		s := m.criteria[k].Evaluate(p)
		if s.precedence() > status.precedence() {
			status = s
		}
	}
	m.setStatus(status, p)
	return m.status
}

func (m *Monitor) setStatus(s Status, p Progress) {
	if s != m.status && m.log != nil {
		m.log.Debug().
			Int("iteration", p.Iteration).
			Float64("residual_norm", p.ResidualNorm).
			Stringer("from", m.status).
			Stringer("to", s).
			Msg("monitor status changed")
	}
	m.status = s
}

// Cancel requests that the solve using m stops at the next status check. It
// may be called concurrently with the solve.
func (m *Monitor) Cancel() {
	m.cancelled.Store(true)
}

// IterationCancelled marks m as Cancelled without evaluating the criteria. It
// is used when the iterative method itself cannot proceed.
func (m *Monitor) IterationCancelled() {
	m.cancelled.Store(true)
	m.setStatus(Cancelled, Progress{Iteration: m.iterations})
}

// fail marks m as Failure without evaluating the criteria.
func (m *Monitor) fail() {
	m.setStatus(Failure, Progress{Iteration: m.iterations})
}

// Reset returns m and all its criteria to the state before the first status
// query. The registered criteria and their configuration are kept.
func (m *Monitor) Reset() {
	for _, k := range m.order {
		m.criteria[k].Reset()
	}
	m.iterations = 0
	m.status = Continue
	m.cancelled.Store(false)
}

// cancelRequested reports whether Cancel or IterationCancelled was called or
// a registered CancellationCriterion was cancelled.
func (m *Monitor) cancelRequested() bool {
	if m.cancelled.Load() {
		return true
	}
	if c, ok := m.criteria[KindCancellation].(*CancellationCriterion); ok {
		return c.Cancelled()
	}
	return false
}

// defaultMonitor returns the monitor used when Settings.Monitor is nil.
func defaultMonitor(tol float64, maxIter int, bnorm float64) *Monitor {
	rc := &ResidualCriterion{RelTol: tol}
	if bnorm == 0 {
		rc.AbsTol = tol
	}
	m := &Monitor{}
	for _, c := range []Criterion{
		rc,
		&IterationCountCriterion{Max: maxIter},
		FailureCriterion{},
	} {
		if err := m.Add(c); err != nil {
			panic(err)
		}
	}
	return m
}
