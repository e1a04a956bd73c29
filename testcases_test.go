// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"fmt"
	"math/rand"

	"github.com/vladimir-ch/krylov/internal/dok"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type testCase struct {
	name string
	n    int
	a    mat.Matrix
	ops  MatrixOps
	tol  float64 // Tolerance on the infinity-norm error of the solution.
}

// rhs returns the right-hand side b = A*[1,1,...,1] and the solution.
func (tc testCase) rhs() (b, want []float64) {
	want = make([]float64, tc.n)
	for i := range want {
		want[i] = 1
	}
	b = make([]float64, tc.n)
	tc.ops.MatVec(b, want)
	return b, want
}

// randomSPD returns a random symmetric positive definite n×n matrix with a
// dominant diagonal.
func randomSPD(n int, rnd *rand.Rand) testCase {
	a := make([]float64, n*n)
	lda := n
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			a[i*lda+j] = rnd.Float64()
		}
	}
	for i := 0; i < n; i++ {
		a[i*lda+i] += float64(n)
	}
	bi := blas64.Implementation()
	return testCase{
		name: fmt.Sprintf("randomSPD(%d)", n),
		n:    n,
		a:    mat.NewSymDense(n, append([]float64(nil), a...)),
		ops: MatrixOps{
			MatVec: func(dst, x []float64) {
				bi.Dsymv(blas.Upper, n, 1, a, lda, x, 1, 0, dst, 1)
			},
			MatTransVec: func(dst, x []float64) {
				bi.Dsymv(blas.Upper, n, 1, a, lda, x, 1, 0, dst, 1)
			},
		},
		tol: 1e-8,
	}
}

// randomNonsymmetric returns a random non-symmetric n×n matrix with a
// dominant diagonal.
func randomNonsymmetric(n int, rnd *rand.Rand) testCase {
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, rnd.Float64()-0.5)
		}
		a.Set(i, i, a.At(i, i)+float64(n))
	}
	return testCase{
		name: fmt.Sprintf("randomNonsymmetric(%d)", n),
		n:    n,
		a:    a,
		ops:  NewMatrixOps(a),
		tol:  1e-8,
	}
}

// convectionDiffusion returns the matrix of the central finite difference
// discretization of
//  -Δu + c ∂u/∂x
// on the unit square with an m×m interior grid and zero Dirichlet boundary
// conditions, scaled by h². The cell Péclet number c*h/2 is given by peclet.
func convectionDiffusion(m int, peclet float64) testCase {
	n := m * m
	a := dok.New(n, n)
	for iy := 0; iy < m; iy++ {
		for ix := 0; ix < m; ix++ {
			row := iy*m + ix
			a.SetAt(row, row, 4)
			if ix > 0 {
				a.SetAt(row, row-1, -1-peclet)
			}
			if ix < m-1 {
				a.SetAt(row, row+1, -1+peclet)
			}
			if iy > 0 {
				a.SetAt(row, row-m, -1)
			}
			if iy < m-1 {
				a.SetAt(row, row+m, -1)
			}
		}
	}
	t := a.Triplet()
	return testCase{
		name: fmt.Sprintf("convectionDiffusion(%d,%v)", m, peclet),
		n:    n,
		a:    a,
		ops:  MatrixOps{MatVec: t.MulVec, MatTransVec: t.MulTransVec},
		tol:  1e-7,
	}
}

func symmetricCases(rnd *rand.Rand) []testCase {
	var cases []testCase
	for _, n := range []int{1, 2, 3, 4, 5, 10, 20, 50, 100} {
		cases = append(cases, randomSPD(n, rnd))
	}
	return append(cases, convectionDiffusion(10, 0))
}

func nonsymmetricCases(rnd *rand.Rand) []testCase {
	var cases []testCase
	for _, n := range []int{1, 2, 3, 5, 10, 50} {
		cases = append(cases, randomNonsymmetric(n, rnd))
	}
	return append(cases,
		convectionDiffusion(5, 0.3),
		convectionDiffusion(10, 0.3),
		convectionDiffusion(12, 0.8),
	)
}
