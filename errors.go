// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import "errors"

var (
	// ErrDimensionMismatch indicates that A is not square or that b or x
	// do not match the dimension of A.
	ErrDimensionMismatch = errors.New("krylov: dimension mismatch")
	// ErrBreakdown indicates a numerical breakdown of a Krylov recurrence.
	ErrBreakdown = errors.New("krylov: numerical breakdown")
	// ErrDuplicateCriterion indicates that a Monitor already holds a
	// criterion of the same kind.
	ErrDuplicateCriterion = errors.New("krylov: duplicate stop criterion")
	// ErrNoCriteria indicates that a Monitor without any stop criteria was
	// supplied to a solve.
	ErrNoCriteria = errors.New("krylov: monitor has no stop criteria")
	// ErrNoTransPreconditioner indicates that a method commanded PSolveTrans
	// and the preconditioner cannot be applied transposed.
	ErrNoTransPreconditioner = errors.New("krylov: preconditioner does not support transposed solves")
)

// BreakdownError is returned by a Method when an inner product needed by its
// recurrence is numerically zero. It matches ErrBreakdown with errors.Is.
type BreakdownError struct {
	// Method is the name of the method that broke down.
	Method string
	// Quantity is the degenerate quantity, e.g. "rho" or "omega".
	Quantity string
}

func (e *BreakdownError) Error() string {
	return "krylov: " + e.Method + ": " + e.Quantity + " breakdown"
}

// Is reports whether target is ErrBreakdown.
func (e *BreakdownError) Is(target error) bool {
	return target == ErrBreakdown
}

func breakdown(method, quantity string) error {
	return &BreakdownError{Method: method, Quantity: quantity}
}
