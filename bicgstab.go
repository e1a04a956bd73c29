// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import "gonum.org/v1/gonum/floats"

// BiCGSTAB implements the BiConjugate Gradient STABilized iterative method with
// preconditioning for solving the system of linear equations
//  Ax = b,
// where A is a non-symmetric matrix. For symmetric positive definite systems
// use CG.
//
// Whenever the recurrence residual satisfies the stopping criteria, the
// residual b-A*x is computed explicitly and checked again, and the iteration
// continues if it fails the check.
//
// BiCGSTAB needs MatVec and PSolve matrix operations.
type BiCGSTAB struct {
	// ReplacementPeriod is the number of
	// iterations after which the
	// recurrence residual is replaced by
	// the true residual b-A*x, provided
	// that its norm has dropped below
	// ReplacementRatio times the norm of
	// the initial residual.
	// If it is zero, it will be set to
	// 10. If it is negative, the
	// residual is never replaced.
	ReplacementPeriod int
	// ReplacementRatio is the relative
	// reduction of the residual norm
	// after which the residual is
	// replaced periodically.
	// If it is zero, it will be set to
	// 1e-3.
	ReplacementRatio float64

	first  bool
	resume int
	iter   int

	rnorm0       float64
	rho, rhoPrev float64
	alpha        float64
	omega        float64

	rt   []float64
	p    []float64
	v    []float64
	t    []float64
	phat []float64
	s    []float64
	shat []float64
}

// Init implements the Method interface.
func (b *BiCGSTAB) Init(dim int) {
	if dim <= 0 {
		panic("krylov: dimension not positive")
	}

	b.rt = reuse(b.rt, dim)
	b.p = reuse(b.p, dim)
	b.v = reuse(b.v, dim)
	b.t = reuse(b.t, dim)
	b.phat = reuse(b.phat, dim)
	b.s = reuse(b.s, dim)
	b.shat = reuse(b.shat, dim)
	b.first = true
	b.iter = 0
	b.resume = 1
}

// Iterate implements the Method interface.
func (b *BiCGSTAB) Iterate(ctx *Context) (Operation, error) {
	switch b.resume {
	case 1:
		if b.first {
			copy(b.rt, ctx.Residual)
			b.rnorm0 = ctx.ResidualNorm
		}
		b.rho = floats.Dot(b.rt, ctx.Residual)
		if negligible(b.rho) {
			b.resume = 0 // Calling Iterate again without Init will panic.
			return NoOperation, breakdown("BiCGSTAB", "rho")
		}
		if b.first {
			copy(b.p, ctx.Residual)
		} else {
			beta := (b.rho / b.rhoPrev) * (b.alpha / b.omega)
			floats.AddScaled(b.p, -b.omega, b.v) // p_i -= ω * v_i
			floats.Scale(beta, b.p)              // p_i *= β
			floats.Add(b.p, ctx.Residual)        // p_i += r_i
		}
		ctx.Src = b.p
		ctx.Dst = b.phat
		b.resume = 2
		return PSolve, nil
		// Solve M p^_i = p_i.
	case 2:
		ctx.Src = b.phat
		ctx.Dst = b.v
		b.resume = 3
		return MatVec, nil
		// Compute Ap^_i -> v_i.
	case 3:
		rtv := floats.Dot(b.rt, b.v)
		if negligible(rtv) {
			b.resume = 0
			return NoOperation, breakdown("BiCGSTAB", "rt·v")
		}
		b.alpha = b.rho / rtv
		// Early check for tolerance on the half-step iterate
		// x + α p^_i with the residual s_i = r_i - α v_i.
		floats.AddScaled(ctx.X, b.alpha, b.phat)
		floats.AddScaled(ctx.Residual, -b.alpha, b.v)
		copy(b.s, ctx.Residual)
		ctx.Src = nil
		ctx.Dst = nil
		ctx.ResidualNorm = floats.Norm(ctx.Residual, 2)
		ctx.Converged = false
		b.resume = 4
		return CheckResidualNorm, nil
	case 4:
		if ctx.Converged {
			b.resume = 5
			return ComputeResidual, nil
		}
		return b.solveS(ctx), nil
	case 5:
		ctx.Converged = false
		b.resume = 6
		return CheckResidual, nil
	case 6:
		if ctx.Converged {
			b.resume = 0 // Calling Iterate again without Init will panic.
			return EndIteration, nil
		}
		// Continue with the true residual in place of s_i.
		copy(b.s, ctx.Residual)
		return b.solveS(ctx), nil
	case 7:
		ctx.Src = b.shat
		ctx.Dst = b.t
		b.resume = 8
		return MatVec, nil
		// Compute As^_i -> t_i.
	case 8:
		tt := floats.Dot(b.t, b.t)
		if negligible(tt) {
			b.resume = 0
			return NoOperation, breakdown("BiCGSTAB", "omega")
		}
		b.omega = floats.Dot(b.t, b.s) / tt
		floats.AddScaled(ctx.X, b.omega, b.shat)
		floats.AddScaled(ctx.Residual, -b.omega, b.t)
		ctx.Src = nil
		ctx.Dst = nil
		ctx.ResidualNorm = floats.Norm(ctx.Residual, 2)
		ctx.Converged = false
		b.resume = 9
		return CheckResidualNorm, nil
	case 9:
		if ctx.Converged {
			b.resume = 10
			return ComputeResidual, nil
		}
		if negligible(b.omega) {
			b.resume = 0
			return NoOperation, breakdown("BiCGSTAB", "omega")
		}
		if b.replace(ctx.ResidualNorm) {
			b.resume = 10
			return ComputeResidual, nil
		}
		return b.endIteration(), nil
	case 10:
		ctx.Converged = false
		b.resume = 11
		return CheckResidual, nil
	case 11:
		if ctx.Converged {
			b.resume = 0 // Calling Iterate again without Init will panic.
			return EndIteration, nil
		}
		if negligible(b.omega) {
			b.resume = 0
			return NoOperation, breakdown("BiCGSTAB", "omega")
		}
		return b.endIteration(), nil

	default:
		panic("krylov: BiCGSTAB.Init not called")
	}
}

// solveS commands the preconditioner solve M s^_i = s_i.
func (b *BiCGSTAB) solveS(ctx *Context) Operation {
	ctx.Src = b.s
	ctx.Dst = b.shat
	b.resume = 7
	return PSolve
}

func (b *BiCGSTAB) endIteration() Operation {
	b.rhoPrev = b.rho
	b.first = false
	b.iter++
	b.resume = 1
	return EndIteration
}

// replace reports whether the recurrence residual with norm rnorm should be
// replaced by the true residual at the end of the current iteration.
func (b *BiCGSTAB) replace(rnorm float64) bool {
	period := b.ReplacementPeriod
	if period == 0 {
		period = 10
	}
	if period < 0 {
		return false
	}
	ratio := b.ReplacementRatio
	if ratio == 0 {
		ratio = 1e-3
	}
	return (b.iter+1)%period == 0 && rnorm <= ratio*b.rnorm0
}
