// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precond

import "gonum.org/v1/gonum/mat"

// Identity is the identity preconditioner M = I. It is equivalent to no
// preconditioning and is useful as a baseline.
type Identity struct {
	ready bool
	n     int
}

// Initialize implements the krylov.Preconditioner interface.
func (p *Identity) Initialize(a mat.Matrix) error {
	p.ready = false
	n, err := squareDim(a)
	if err != nil {
		return err
	}
	p.n = n
	p.ready = true
	return nil
}

// Approximate implements the krylov.Preconditioner interface.
func (p *Identity) Approximate(dst, src []float64) error {
	if !p.ready {
		return ErrNotInitialized
	}
	if err := checkVectors(p.n, dst, src); err != nil {
		return err
	}
	copy(dst, src)
	return nil
}

// ApproximateTrans implements the krylov.TransPreconditioner interface.
func (p *Identity) ApproximateTrans(dst, src []float64) error {
	return p.Approximate(dst, src)
}
