// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package precond provides preconditioners for the iterative methods in
// package krylov.
//
// A preconditioner approximates the inverse of the matrix A of a linear
// system. It is first initialized from A, after which Approximate stores
// M^{-1}*src into dst. Preconditioners that also implement ApproximateTrans
// can be used with methods that need M^{-T}, like BiCG.
//
// A preconditioner holds scratch space and must not be shared by concurrent
// solves.
package precond
