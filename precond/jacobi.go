// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precond

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Jacobi is the diagonal preconditioner M = diag(A).
type Jacobi struct {
	ready bool
	inv   []float64 // Reciprocals of the diagonal of A.
}

// Initialize implements the krylov.Preconditioner interface. It returns
// ErrZeroPivot if A has a zero on the diagonal.
func (p *Jacobi) Initialize(a mat.Matrix) error {
	p.ready = false
	n, err := squareDim(a)
	if err != nil {
		return err
	}
	p.inv = reuse(p.inv, n)
	for i := range p.inv {
		aii := a.At(i, i)
		if aii == 0 {
			return fmt.Errorf("%w: A[%d,%d] is zero", ErrZeroPivot, i, i)
		}
		p.inv[i] = 1 / aii
	}
	p.ready = true
	return nil
}

// Approximate implements the krylov.Preconditioner interface.
func (p *Jacobi) Approximate(dst, src []float64) error {
	if !p.ready {
		return ErrNotInitialized
	}
	if err := checkVectors(len(p.inv), dst, src); err != nil {
		return err
	}
	for i, v := range src {
		dst[i] = p.inv[i] * v
	}
	return nil
}

// ApproximateTrans implements the krylov.TransPreconditioner interface.
func (p *Jacobi) ApproximateTrans(dst, src []float64) error {
	return p.Approximate(dst, src)
}
