// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResidualCriterion(t *testing.T) {
	for _, test := range []struct {
		c     ResidualCriterion
		rnorm float64
		bnorm float64
		want  Status
	}{
		{ResidualCriterion{RelTol: 1e-6}, 1e-7, 1, Converged},
		{ResidualCriterion{RelTol: 1e-6}, 1e-5, 1, Continue},
		{ResidualCriterion{RelTol: 1e-6}, 1e-6, 10, Converged},
		{ResidualCriterion{AbsTol: 1e-3, RelTol: 1e-6}, 1e-4, 1, Converged},
		{ResidualCriterion{AbsTol: 1e-3}, 0, 0, Converged},
		{ResidualCriterion{}, 1e-300, 1, Continue},
		{ResidualCriterion{RelTol: 1e-6}, math.NaN(), 1, Continue},
	} {
		got := test.c.Evaluate(Progress{ResidualNorm: test.rnorm, BNorm: test.bnorm})
		assert.Equal(t, test.want, got, "%+v with |r|=%v, |b|=%v", test.c, test.rnorm, test.bnorm)
	}
}

func TestIterationCountCriterion(t *testing.T) {
	c := &IterationCountCriterion{Max: 3}
	for iter, want := range []Status{Continue, Continue, Continue, StoppedWithoutConvergence, StoppedWithoutConvergence} {
		assert.Equal(t, want, c.Evaluate(Progress{Iteration: iter}), "iteration %v", iter)
	}
	c = &IterationCountCriterion{}
	assert.Equal(t, StoppedWithoutConvergence, c.Evaluate(Progress{}))
}

func TestDivergenceCriterion(t *testing.T) {
	c := &DivergenceCriterion{MaxRelativeIncrease: 0.5, Window: 3}
	norms := []float64{1, 2, 4, 8, 16}
	want := []Status{Continue, Continue, Continue, Diverged, Diverged}
	for i, r := range norms {
		assert.Equal(t, want[i], c.Evaluate(Progress{Iteration: i, ResidualNorm: r}), "iteration %v", i)
	}

	// A single decrease within the window prevents divergence.
	c.Reset()
	for i, r := range []float64{1, 2, 1.5, 4, 8} {
		assert.Equal(t, Continue, c.Evaluate(Progress{Iteration: i, ResidualNorm: r}), "iteration %v", i)
	}

	// Growth below the threshold is tolerated.
	c.Reset()
	for i := 0; i < 10; i++ {
		r := math.Pow(1.4, float64(i))
		assert.Equal(t, Continue, c.Evaluate(Progress{Iteration: i, ResidualNorm: r}), "iteration %v", i)
	}
}

func TestDivergenceCriterionDefaults(t *testing.T) {
	c := &DivergenceCriterion{}
	r := 1.0
	for i := 0; i < 10; i++ {
		assert.Equal(t, Continue, c.Evaluate(Progress{Iteration: i, ResidualNorm: r}))
		r *= 1.1
	}
	assert.Equal(t, Diverged, c.Evaluate(Progress{Iteration: 10, ResidualNorm: r}))
	assert.Zero(t, c.MaxRelativeIncrease, "defaults do not modify the configuration")
	assert.Zero(t, c.Window)
}

func TestDivergenceCriterionSameIteration(t *testing.T) {
	c := &DivergenceCriterion{MaxRelativeIncrease: 0.5, Window: 2}
	// Repeated evaluations at the same iteration replace the sample.
	assert.Equal(t, Continue, c.Evaluate(Progress{Iteration: 0, ResidualNorm: 1}))
	assert.Equal(t, Continue, c.Evaluate(Progress{Iteration: 1, ResidualNorm: 2}))
	assert.Equal(t, Continue, c.Evaluate(Progress{Iteration: 1, ResidualNorm: 1}))
	assert.Equal(t, Continue, c.Evaluate(Progress{Iteration: 2, ResidualNorm: 2}))
	assert.Equal(t, Diverged, c.Evaluate(Progress{Iteration: 3, ResidualNorm: 4}))

	// Going back in iterations starts a new history.
	assert.Equal(t, Continue, c.Evaluate(Progress{Iteration: 0, ResidualNorm: 8}))
	assert.Equal(t, Continue, c.Evaluate(Progress{Iteration: 1, ResidualNorm: 16}))
}

func TestDivergenceCriterionInIteration(t *testing.T) {
	c := &DivergenceCriterion{MaxRelativeIncrease: 0.5, Window: 2}
	assert.Equal(t, Continue, c.Evaluate(Progress{Iteration: 0, ResidualNorm: 1}))
	// A check inside iteration 1 and the one after it share a sample.
	assert.Equal(t, Continue, c.Evaluate(Progress{Iteration: 0, InIteration: true, ResidualNorm: 1.8}))
	assert.Equal(t, Continue, c.Evaluate(Progress{Iteration: 1, ResidualNorm: 2}))
	assert.Equal(t, Diverged, c.Evaluate(Progress{Iteration: 1, InIteration: true, ResidualNorm: 4}))
}

func TestCriteriaNoResidual(t *testing.T) {
	p := Progress{Iteration: 1, BNorm: 1, NoResidual: true}
	assert.Equal(t, Continue, (&ResidualCriterion{AbsTol: 1}).Evaluate(p))
	assert.Equal(t, Continue, FailureCriterion{}.Evaluate(p))
	p.X = []float64{math.NaN()}
	assert.Equal(t, Failure, FailureCriterion{}.Evaluate(p))

	d := &DivergenceCriterion{MaxRelativeIncrease: 0.5, Window: 1}
	assert.Equal(t, Continue, d.Evaluate(Progress{Iteration: 0, ResidualNorm: 1}))
	assert.Equal(t, Continue, d.Evaluate(Progress{Iteration: 1, NoResidual: true, ResidualNorm: math.Inf(1)}))
	assert.Equal(t, Continue, d.Evaluate(Progress{Iteration: 2, ResidualNorm: 1.2}))
}

func TestStagnationCriterion(t *testing.T) {
	c := &StagnationCriterion{RelativeChange: 1e-3, Window: 4}
	for i := 0; i < 4; i++ {
		assert.Equal(t, Continue, c.Evaluate(Progress{Iteration: i, ResidualNorm: 1}))
	}
	assert.Equal(t, StoppedWithoutConvergence, c.Evaluate(Progress{Iteration: 4, ResidualNorm: 1 - 1e-4}))

	c.Reset()
	r := 1.0
	for i := 0; i < 20; i++ {
		assert.Equal(t, Continue, c.Evaluate(Progress{Iteration: i, ResidualNorm: r}))
		r *= 0.5
	}
}

func TestFailureCriterion(t *testing.T) {
	var c FailureCriterion
	assert.Equal(t, Continue, c.Evaluate(Progress{ResidualNorm: 1, X: []float64{1, 2}}))
	assert.Equal(t, Failure, c.Evaluate(Progress{ResidualNorm: math.NaN()}))
	assert.Equal(t, Failure, c.Evaluate(Progress{ResidualNorm: math.Inf(1)}))
	assert.Equal(t, Failure, c.Evaluate(Progress{ResidualNorm: 1, X: []float64{1, math.NaN()}}))
}

func TestCriterionKinds(t *testing.T) {
	kinds := make(map[Kind]bool)
	for _, c := range []Criterion{
		&ResidualCriterion{},
		&IterationCountCriterion{},
		&DivergenceCriterion{},
		&StagnationCriterion{},
		FailureCriterion{},
		&CancellationCriterion{},
	} {
		assert.False(t, kinds[c.Kind()], "duplicate kind %v", c.Kind())
		kinds[c.Kind()] = true
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Converged", Converged.String())
	assert.Equal(t, "StoppedWithoutConvergence", StoppedWithoutConvergence.String())
	assert.Equal(t, "UnknownStatus", Status(-1).String())
	assert.Equal(t, "UnknownStatus", Status(100).String())
}
