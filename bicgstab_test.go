// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// checkSolve solves tc with method and reports an error if the solve does not
// converge to the solution [1,1,...,1].
func checkSolve(t *testing.T, tc testCase, method Method, settings Settings) Result {
	t.Helper()
	b, want := tc.rhs()
	r, err := LinearSolve(context.Background(), tc.ops, b, nil, method, settings)
	if err != nil {
		t.Errorf("Case %v (n=%v): unexpected error %v", tc.name, tc.n, err)
		return r
	}
	if r.Status != Converged {
		t.Errorf("Case %v (n=%v): unexpected status %v after %v iterations", tc.name, tc.n, r.Status, r.Stats.Iterations)
		return r
	}
	dist := floats.Distance(r.X, want, math.Inf(1))
	if dist > tc.tol {
		t.Errorf("Case %v (n=%v): unexpected solution, |want-got|=%v", tc.name, tc.n, dist)
	}
	return r
}

func TestBiCGSTAB(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	cases := append(symmetricCases(rnd), nonsymmetricCases(rnd)...)
	for _, tc := range cases {
		checkSolve(t, tc, &BiCGSTAB{}, Settings{
			Tolerance:     1e-12,
			MaxIterations: 10 * tc.n,
		})
	}
}

func TestBiCGSTABNoReplacement(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, tc := range nonsymmetricCases(rnd) {
		checkSolve(t, tc, &BiCGSTAB{ReplacementPeriod: -1}, Settings{
			Tolerance:     1e-12,
			MaxIterations: 10 * tc.n,
		})
	}
}

func TestBiCGSTABReplacement(t *testing.T) {
	tc := convectionDiffusion(10, 0.3)
	b, want := tc.rhs()
	r, err := LinearSolve(context.Background(), tc.ops, b, nil, &BiCGSTAB{
		ReplacementPeriod: 1,
		ReplacementRatio:  1e300,
	}, Settings{Tolerance: 1e-12, MaxIterations: 10 * tc.n})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if r.Status != Converged {
		t.Fatalf("unexpected status %v", r.Status)
	}
	if dist := floats.Distance(r.X, want, math.Inf(1)); dist > tc.tol {
		t.Errorf("unexpected solution, |want-got|=%v", dist)
	}
	// Every iteration computes the true residual in addition to its two
	// products, and so does the initial residual.
	if r.Stats.MatVec < 3*r.Stats.Iterations {
		t.Errorf("unexpected number of MatVec with replacement: %v for %v iterations",
			r.Stats.MatVec, r.Stats.Iterations)
	}
}

func TestBiCGSTABMatVecCount(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	tc := randomNonsymmetric(20, rnd)
	b, _ := tc.rhs()
	r, err := LinearSolve(context.Background(), tc.ops, b, nil, &BiCGSTAB{ReplacementPeriod: -1}, Settings{Tolerance: 1e-10})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	// Two products per iteration, the initial residual and at most two
	// true residuals per iteration.
	if r.Stats.MatVec < 2*r.Stats.Iterations {
		t.Errorf("too few MatVec: %v for %v iterations", r.Stats.MatVec, r.Stats.Iterations)
	}
	if r.Stats.MatVec > 4*r.Stats.Iterations+1 {
		t.Errorf("too many MatVec: %v for %v iterations", r.Stats.MatVec, r.Stats.Iterations)
	}
	if r.Stats.PSolve != 0 {
		t.Errorf("unexpected PSolve count without preconditioner: %v", r.Stats.PSolve)
	}
}
