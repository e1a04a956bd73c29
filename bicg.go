// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import "gonum.org/v1/gonum/floats"

// BiCG implements the BiConjugate Gradient iterative method with
// preconditioning for solving the system of linear equations
//  Ax = b,
// where A is a non-symmetric matrix. For symmetric positive definite systems
// use CG.
//
// BiCG runs a second, shadow recurrence with A^T alongside the one with A.
// Convergence of the recurrence residual is confirmed with the true residual
// b-A*x before the iteration stops.
//
// BiCG needs MatVec, MatTransVec, PSolve, and PSolveTrans matrix operations.
// A non-nil preconditioner must implement TransPreconditioner.
type BiCG struct {
	first  bool
	resume int

	rho, rhoPrev float64
	alpha        float64

	rt    []float64 // Shadow residual.
	z, zt []float64 // M^{-1} r and M^{-T} rt
	p, pt []float64
	q, qt []float64 // A p and A^T pt
}

// Init implements the Method interface.
func (b *BiCG) Init(dim int) {
	if dim <= 0 {
		panic("krylov: dimension not positive")
	}

	b.rt = reuse(b.rt, dim)
	b.z = reuse(b.z, dim)
	b.zt = reuse(b.zt, dim)
	b.p = reuse(b.p, dim)
	b.pt = reuse(b.pt, dim)
	b.q = reuse(b.q, dim)
	b.qt = reuse(b.qt, dim)

	b.first = true
	b.resume = 1
}

// Iterate implements the Method interface.
func (b *BiCG) Iterate(ctx *Context) (Operation, error) {
	switch b.resume {
	case 1:
		if b.first {
			copy(b.rt, ctx.Residual)
		}
		ctx.Src = ctx.Residual
		ctx.Dst = b.z
		b.resume = 2
		return PSolve, nil
	case 2:
		ctx.Src = b.rt
		ctx.Dst = b.zt
		b.resume = 3
		return PSolveTrans, nil
	case 3:
		b.rho = floats.Dot(b.z, b.rt)
		if negligible(b.rho) {
			b.resume = 0
			return NoOperation, breakdown("BiCG", "rho")
		}
		if b.first {
			copy(b.p, b.z)
			copy(b.pt, b.zt)
		} else {
			// p = z + β p, pt = zt + β pt
			beta := b.rho / b.rhoPrev
			floats.AddScaledTo(b.p, b.z, beta, b.p)
			floats.AddScaledTo(b.pt, b.zt, beta, b.pt)
		}
		ctx.Src = b.p
		ctx.Dst = b.q
		b.resume = 4
		return MatVec, nil
	case 4:
		ctx.Src = b.pt
		ctx.Dst = b.qt
		b.resume = 5
		return MatTransVec, nil
	case 5:
		ptq := floats.Dot(b.pt, b.q)
		if negligible(ptq) {
			b.resume = 0
			return NoOperation, breakdown("BiCG", "pt·q")
		}
		b.alpha = b.rho / ptq
		floats.AddScaled(ctx.X, b.alpha, b.p)
		floats.AddScaled(ctx.Residual, -b.alpha, b.q)
		floats.AddScaled(b.rt, -b.alpha, b.qt)
		ctx.Src = nil
		ctx.Dst = nil
		ctx.ResidualNorm = floats.Norm(ctx.Residual, 2)
		ctx.Converged = false
		b.resume = 6
		return CheckResidualNorm, nil
	case 6:
		if ctx.Converged {
			b.resume = 7
			return ComputeResidual, nil
		}
		return b.endIteration(), nil
	case 7:
		ctx.Converged = false
		b.resume = 8
		return CheckResidual, nil
	case 8:
		if ctx.Converged {
			b.resume = 0 // Calling Iterate again without Init will panic.
			return EndIteration, nil
		}
		return b.endIteration(), nil

	default:
		panic("krylov: BiCG.Init not called")
	}
}

func (b *BiCG) endIteration() Operation {
	b.rhoPrev = b.rho
	b.first = false
	b.resume = 1
	return EndIteration
}
