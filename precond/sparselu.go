// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precond

import (
	"fmt"

	"github.com/edp1096/sparse"
	"gonum.org/v1/gonum/mat"
)

// SparseLU is the preconditioner M = A computed by the sparse LU factorization
// with partial pivoting of package github.com/edp1096/sparse. It solves the
// system exactly and serves problems where an iterative method is used to
// refine a direct solution or as a reference for other preconditioners.
type SparseLU struct {
	ready bool
	n     int
	lu    *sparse.Matrix
	rhs   []float64 // 1-based right-hand side.
}

// Initialize implements the krylov.Preconditioner interface. It returns
// ErrSingular if the factorization fails.
func (p *SparseLU) Initialize(a mat.Matrix) error {
	p.ready = false
	n, err := squareDim(a)
	if err != nil {
		return err
	}
	if p.lu != nil {
		p.lu.Destroy()
		p.lu = nil
	}
	lu, err := sparse.Create(int64(n), &sparse.Configuration{
		Real:                    true,
		Complex:                 false,
		SeparatedComplexVectors: false,
		Expandable:              false,
		Translate:               false,
		ModifiedNodal:           false,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	})
	if err != nil {
		return fmt.Errorf("precond: create sparse matrix: %w", err)
	}
	// The elements of the sparse matrix are 1-based.
	doNonZero(a, func(i, j int, v float64) {
		lu.GetElement(int64(i+1), int64(j+1)).Real += v
	})
	if err := lu.Factor(); err != nil {
		lu.Destroy()
		return fmt.Errorf("%w: %v", ErrSingular, err)
	}
	p.n = n
	p.lu = lu
	p.rhs = reuse(p.rhs, n+1)
	p.ready = true
	return nil
}

// Approximate implements the krylov.Preconditioner interface.
func (p *SparseLU) Approximate(dst, src []float64) error {
	if !p.ready {
		return ErrNotInitialized
	}
	if err := checkVectors(p.n, dst, src); err != nil {
		return err
	}
	copy(p.rhs[1:], src)
	x, err := p.lu.Solve(p.rhs)
	if err != nil {
		return fmt.Errorf("precond: sparse solve: %w", err)
	}
	if len(x) < p.n+1 {
		return fmt.Errorf("%w: sparse solve returned %d elements", ErrDimensionMismatch, len(x)-1)
	}
	copy(dst, x[1:p.n+1])
	return nil
}
