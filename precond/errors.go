// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precond

import "errors"

var (
	// ErrNotInitialized indicates that Approximate was called before a
	// successful Initialize.
	ErrNotInitialized = errors.New("precond: preconditioner not initialized")
	// ErrNotSquare indicates that the matrix is not square.
	ErrNotSquare = errors.New("precond: matrix is not square")
	// ErrDimensionMismatch indicates that a vector does not match the
	// dimension of the matrix.
	ErrDimensionMismatch = errors.New("precond: dimension mismatch")
	// ErrZeroPivot indicates a zero diagonal entry or pivot.
	ErrZeroPivot = errors.New("precond: zero pivot")
	// ErrNotSymmetric indicates that a symmetric matrix was required.
	ErrNotSymmetric = errors.New("precond: matrix is not symmetric")
	// ErrNotPositiveDefinite indicates that a positive definite matrix was
	// required.
	ErrNotPositiveDefinite = errors.New("precond: matrix is not positive definite")
	// ErrSingular indicates that the factorization of the matrix failed
	// because it is singular.
	ErrSingular = errors.New("precond: matrix is singular")
)
