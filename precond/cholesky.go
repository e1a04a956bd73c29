// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precond

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// Cholesky is the preconditioner M = A computed by the dense Cholesky
// factorization of a symmetric positive definite A. It solves the system
// exactly and is meant for small problems and for testing.
type Cholesky struct {
	// Tol is the tolerance used to check that A is symmetric when A does
	// not implement mat.Symmetric. If it is zero, 1e-12 is used.
	Tol float64

	ready bool
	chol  mat.Cholesky
}

// Initialize implements the krylov.Preconditioner interface. It returns
// ErrNotSymmetric or ErrNotPositiveDefinite if A is not symmetric positive
// definite.
func (p *Cholesky) Initialize(a mat.Matrix) error {
	p.ready = false
	n, err := squareDim(a)
	if err != nil {
		return err
	}
	sym, ok := a.(mat.Symmetric)
	if !ok {
		tol := p.Tol
		if tol == 0 {
			tol = 1e-12
		}
		s := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				aij, aji := a.At(i, j), a.At(j, i)
				if !scalar.EqualWithinAbsOrRel(aij, aji, tol, tol) {
					return fmt.Errorf("%w: A[%d,%d]=%v, A[%d,%d]=%v", ErrNotSymmetric, i, j, aij, j, i, aji)
				}
				s.SetSym(i, j, aij)
			}
		}
		sym = s
	}
	if !p.chol.Factorize(sym) {
		return ErrNotPositiveDefinite
	}
	p.ready = true
	return nil
}

// Approximate implements the krylov.Preconditioner interface.
func (p *Cholesky) Approximate(dst, src []float64) error {
	if !p.ready {
		return ErrNotInitialized
	}
	if err := checkVectors(p.chol.SymmetricDim(), dst, src); err != nil {
		return err
	}
	err := p.chol.SolveVecTo(mat.NewVecDense(len(dst), dst), mat.NewVecDense(len(src), src))
	var cond mat.Condition
	if errors.As(err, &cond) {
		// The solution is computed even when A is ill-conditioned.
		return nil
	}
	return err
}

// ApproximateTrans implements the krylov.TransPreconditioner interface.
func (p *Cholesky) ApproximateTrans(dst, src []float64) error {
	return p.Approximate(dst, src)
}
