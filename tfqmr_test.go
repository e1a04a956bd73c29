// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"context"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestTFQMR(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	cases := append(symmetricCases(rnd), nonsymmetricCases(rnd)...)
	for _, tc := range cases {
		// Each half-step is one iteration.
		checkSolve(t, tc, &TFQMR{}, Settings{
			Tolerance:     1e-12,
			MaxIterations: 20 * tc.n,
		})
	}
}

func TestTFQMRTrueResidual(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for _, tc := range nonsymmetricCases(rnd) {
		b, _ := tc.rhs()
		const tol = 1e-10
		r, err := LinearSolve(context.Background(), tc.ops, b, nil, &TFQMR{}, Settings{
			Tolerance:     tol,
			MaxIterations: 20 * tc.n,
		})
		if err != nil {
			t.Errorf("Case %v: unexpected error %v", tc.name, err)
			continue
		}
		// Convergence is confirmed on the true residual, so the reported
		// norm must match b-A*x.
		res := make([]float64, tc.n)
		tc.ops.MatVec(res, r.X)
		floats.Sub(res, b)
		rnorm := floats.Norm(res, 2)
		if rnorm > tol*floats.Norm(b, 2) {
			t.Errorf("Case %v: true residual norm %v exceeds tolerance", tc.name, rnorm)
		}
		if !scalar.EqualWithinAbsOrRel(rnorm, r.Stats.ResidualNorm, 1e-14, 1e-6) {
			t.Errorf("Case %v: reported residual norm %v, true %v", tc.name, r.Stats.ResidualNorm, rnorm)
		}
	}
}
