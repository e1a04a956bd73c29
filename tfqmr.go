// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// TFQMR implements the Transpose-Free Quasi-Minimal Residual iterative method
// with right preconditioning for solving the system of linear equations
//  Ax = b,
// where A is a non-symmetric matrix.
//
// TFQMR works on the preconditioned operator A*M^{-1} and alternates between
// even and odd half-steps. Each half-step is reported as one iteration.
// Convergence is first checked on an upper bound of the residual norm
// derived from the quasi-residual norm τ, and confirmed with the true residual
// b-A*x.
//
// TFQMR needs MatVec and PSolve matrix operations.
type TFQMR struct {
	resume int
	first  bool
	m      int // Half-step counter.

	tau, theta, eta float64
	rho, alpha      float64
	addAu           bool

	rt   []float64 // Shadow residual r~.
	w    []float64
	u    []float64
	uhat []float64 // M^{-1} u
	au   []float64 // A M^{-1} u
	v    []float64
	d    []float64 // Search direction in the space of x.
}

// Init implements the Method interface.
func (q *TFQMR) Init(dim int) {
	if dim <= 0 {
		panic("krylov: dimension not positive")
	}

	q.rt = reuse(q.rt, dim)
	q.w = reuse(q.w, dim)
	q.u = reuse(q.u, dim)
	q.uhat = reuse(q.uhat, dim)
	q.au = reuse(q.au, dim)
	q.v = reuse(q.v, dim)
	q.d = reuse(q.d, dim)
	q.first = true
	q.addAu = false
	q.m = 0
	q.resume = 1
}

// Iterate implements the Method interface.
func (q *TFQMR) Iterate(ctx *Context) (Operation, error) {
	switch q.resume {
	case 1:
		r := ctx.Residual
		copy(q.rt, r)
		copy(q.w, r)
		copy(q.u, r)
		for i := range q.d {
			q.d[i] = 0
		}
		q.tau = floats.Norm(r, 2)
		q.theta = 0
		q.eta = 0
		q.rho = floats.Dot(q.rt, r)
		if negligible(q.rho) {
			q.resume = 0
			return NoOperation, breakdown("TFQMR", "rho")
		}
		return q.applyOperator(ctx), nil
	case 2:
		ctx.Src = q.uhat
		ctx.Dst = q.au
		q.resume = 3
		return MatVec, nil
		// Compute A M^{-1} u_m -> au.
	case 3:
		if q.first {
			copy(q.v, q.au) // v_0 = A M^{-1} u_0
			q.first = false
		}
		if q.addAu {
			floats.Add(q.v, q.au) // v_{m+1} = A M^{-1} u_{m+1} + β (A M^{-1} u_m + β v_{m-1})
			q.addAu = false
		}
		if q.m%2 == 0 {
			sigma := floats.Dot(q.rt, q.v)
			if negligible(sigma) {
				q.resume = 0
				return NoOperation, breakdown("TFQMR", "sigma")
			}
			q.alpha = q.rho / sigma
		}
		floats.AddScaled(q.w, -q.alpha, q.au) // w_{m+1} = w_m - α A M^{-1} u_m
		// d_{m+1} = M^{-1} u_m + (θ_m² η_m / α) d_m
		floats.Scale(q.theta*q.theta*q.eta/q.alpha, q.d)
		floats.Add(q.d, q.uhat)
		q.theta = floats.Norm(q.w, 2) / q.tau
		c := 1 / math.Sqrt(1+q.theta*q.theta)
		q.tau *= q.theta * c
		q.eta = c * c * q.alpha
		floats.AddScaled(ctx.X, q.eta, q.d)

		ctx.Src = nil
		ctx.Dst = nil
		// |r_{m+1}| <= sqrt(m+2) τ_{m+1}
		ctx.ResidualNorm = q.tau * math.Sqrt(float64(q.m+2))
		ctx.Converged = false
		q.resume = 4
		return CheckResidualNorm, nil
	case 4:
		if ctx.Converged {
			q.resume = 5
			return ComputeResidual, nil
		}
		return q.advance(ctx)
	case 5:
		ctx.Converged = false
		q.resume = 6
		return CheckResidual, nil
	case 6:
		if ctx.Converged {
			q.resume = 0 // Calling Iterate again without Init will panic.
			return EndIteration, nil
		}
		return q.advance(ctx)
	case 7:
		ctx.Src = q.uhat
		ctx.Dst = q.au
		q.resume = 8
		return MatVec, nil
		// Compute A M^{-1} u_{m+1} -> au.
	case 8:
		q.m++
		q.resume = 3
		return EndIteration, nil

	default:
		panic("krylov: TFQMR.Init not called")
	}
}

// applyOperator commands the preconditioner solve M uhat = u that starts the
// computation of A M^{-1} u.
func (q *TFQMR) applyOperator(ctx *Context) Operation {
	ctx.Src = q.u
	ctx.Dst = q.uhat
	if q.first {
		q.resume = 2
	} else {
		q.resume = 7
	}
	return PSolve
}

// advance computes u_{m+1} and, after odd half-steps, ρ and v.
func (q *TFQMR) advance(ctx *Context) (Operation, error) {
	if q.m%2 == 0 {
		floats.AddScaled(q.u, -q.alpha, q.v) // u_{m+1} = u_m - α v_m
		return q.applyOperator(ctx), nil
	}
	rho := floats.Dot(q.rt, q.w)
	if negligible(rho) {
		q.resume = 0
		return NoOperation, breakdown("TFQMR", "rho")
	}
	beta := rho / q.rho
	q.rho = rho
	// u_{m+1} = w_{m+1} + β u_m
	floats.Scale(beta, q.u)
	floats.Add(q.u, q.w)
	// Partial v_{m+1} = β (A M^{-1} u_m + β v_{m-1}), completed once
	// A M^{-1} u_{m+1} is known.
	floats.Scale(beta, q.v)
	floats.Add(q.v, q.au)
	floats.Scale(beta, q.v)
	q.addAu = true
	return q.applyOperator(ctx), nil
}
