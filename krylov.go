// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package krylov provides Krylov subspace methods for solving large, sparse,
// possibly non-symmetric systems of linear equations
//  A x = b,
// together with the convergence monitoring and preconditioning machinery they
// share.
//
// The methods (BiCGSTAB, TFQMR, CG, BiCG, GMRES) never access the matrix A or
// the preconditioner directly. They command the driver (LinearSolve, Solve)
// to perform the operations they need, and the driver consults a Monitor to
// decide whether the iteration should stop.
package krylov

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
)

// Operation specifies the type of operation.
type Operation uint64

// Operations commanded by Method.Iterate.
const (
	NoOperation Operation = 0

	// Multiply A*x where x is stored
	// in Context.Src and the result will
	// be stored in Context.Dst.
	MatVec Operation = 1 << (iota - 1)

	// Multiply A^T*x where x is stored
	// in Context.Src and the result will
	// be stored in Context.Dst.
	MatTransVec

	// Do the preconditioner solve
	//  M z = r,
	// where r is stored in Context.Src,
	// and store the solution z in
	// Context.Dst.
	PSolve

	// Do the preconditioner solve
	//  M^T z = r,
	// where r is stored in Context.Src,
	// and store the solution z in
	// Context.Dst.
	PSolveTrans

	// Compute b - A*x where x is stored
	// in Context.X and store the result
	// into Context.Residual.
	ComputeResidual

	// Check convergence using the
	// current approximation in Context.X
	// and the (estimated) residual norm
	// in Context.ResidualNorm.
	// Context.Converged is set by the
	// caller before Method.Iterate is
	// called again.
	CheckResidualNorm

	// Check convergence using the true
	// residual stored in
	// Context.Residual. The caller
	// computes its norm and stores it
	// in Context.ResidualNorm.
	CheckResidual

	// EndIteration indicates that Method
	// has finished what it considers to
	// be one iteration. It can be used
	// to update an iteration counter. If
	// Context.Converged is true, the
	// iterative process must be
	// terminated, and Method.Init must
	// be called before calling
	// Method.Iterate again.
	EndIteration
)

func (op Operation) String() string {
	switch op {
	case NoOperation:
		return "NoOperation"
	case MatVec:
		return "MatVec"
	case MatTransVec:
		return "MatTransVec"
	case PSolve:
		return "PSolve"
	case PSolveTrans:
		return "PSolveTrans"
	case ComputeResidual:
		return "ComputeResidual"
	case CheckResidualNorm:
		return "CheckResidualNorm"
	case CheckResidual:
		return "CheckResidual"
	case EndIteration:
		return "EndIteration"
	}
	return "UnknownOperation"
}

// Method is an iterative method that produces a sequence of vectors converging
// to the vector x satisfying a system of linear equations
//  A x = b,
// where A is non-singular dim×dim matrix, and x and b are vectors of dimension
// dim.
//
// Method uses a reverse-communication interface between the iterative algorithm
// and the caller. Method acts as a client that commands the caller to perform
// needed operations via Operation returned from Iterate methods. This provides
// independence of Method on representation of the matrix A, and enables
// automation of common operations like checking for convergence and maintaining
// statistics.
type Method interface {
	// Init initializes the method for solving an dim×dim linear system.
	Init(dim int)

	// Iterate retrieves data from Context, updates it, and returns the next
	// operation. The caller must perform the Operation using data in
	// Context, and depending on the state call Iterate again.
	Iterate(*Context) (Operation, error)
}

// Context mediates the communication between a Method and the caller. It must
// not be modified or accessed apart from the commanded Operations.
type Context struct {
	// X is the current approximate solution. On the first call to
	// Method.Iterate, X must contain the initial estimate. Method must
	// update X with the current estimate when it commands ComputeResidual
	// and EndIteration.
	X []float64
	// Residual is the current residual b-A*x. On the first call to
	// Method.Iterate, Residual must contain the initial residual.
	Residual []float64
	// ResidualNorm is (an estimate of) the norm of the current residual.
	// Method must update it when it commands CheckResidualNorm. It does
	// not have to be equal to the norm of Residual, some methods (e.g.,
	// GMRES, TFQMR) can estimate the residual norm without forming the
	// residual itself.
	ResidualNorm float64
	// Converged indicates to Method that the residual satisfies the
	// stopping criteria as a result of CheckResidualNorm or CheckResidual
	// operation. If a Method commands EndIteration with Converged true,
	// the caller must not call Method.Iterate again without calling
	// Method.Init first.
	Converged bool

	// Src and Dst are the source and destination vectors for various
	// Operations.
	Src, Dst []float64
}

func reuse(v []float64, n int) []float64 {
	if cap(v) < n {
		return make([]float64, n)
	}
	return v[:n]
}

// dlamchE is the machine epsilon for float64 rounding to nearest, the
// smallest tolerance accepted by the default stop criteria.
const dlamchE = 1.0 / (1 << 53)

// negligible reports whether v is within one unit in the last place of zero,
// that is, numerically indistinguishable from it.
func negligible(v float64) bool {
	return scalar.EqualWithinULP(v, 0, 1)
}

// methodName returns a short name of m for logs, traces and metrics.
func methodName(m Method) string {
	if s, ok := m.(interface{ String() string }); ok {
		return s.String()
	}
	return strings.TrimPrefix(strings.TrimPrefix(fmt.Sprintf("%T", m), "*"), "krylov.")
}
