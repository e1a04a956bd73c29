// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import "gonum.org/v1/gonum/mat"

// Preconditioner approximates the inverse of the matrix A of a linear system.
// Implementations are provided by package precond.
type Preconditioner interface {
	// Initialize prepares the preconditioner for the square matrix a. It
	// returns an error if a is not suitable for the preconditioner.
	Initialize(a mat.Matrix) error

	// Approximate stores into dst an approximation of A^{-1}*src. It must
	// not modify src.
	Approximate(dst, src []float64) error
}

// TransPreconditioner is a Preconditioner that can also approximate
// A^{-T}*src. It is needed by methods that command PSolveTrans, like BiCG.
type TransPreconditioner interface {
	Preconditioner

	// ApproximateTrans stores into dst an approximation of A^{-T}*src. It
	// must not modify src.
	ApproximateTrans(dst, src []float64) error
}
