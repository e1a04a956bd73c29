// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// GMRES implements the restarted Generalized Minimal RESidual method with right
// preconditioning for solving the system of linear equations
//  Ax = b,
// where A is a non-symmetric matrix.
//
// One restart cycle is reported as one iteration. Within a cycle, the residual
// norm of the least-squares problem is checked after every Arnoldi step; when
// it satisfies the stopping criteria or the cycle is complete, the
// approximate solution is formed and checked using the true residual.
//
// GMRES needs MatVec and PSolve matrix operations.
type GMRES struct {
	// Restart is the restart parameter.
	// It must be 0 <= Restart <= dim.
	// If it is 0, it will be set to dim.
	Restart int

	resume int
	k      int // Size of the Krylov basis in the current cycle.
	i      int // Counter for inner iterations.

	s  []float64
	y  []float64
	w  []float64
	z  []float64 // M^{-1} v_i, later M^{-1} V y
	vy []float64

	v    []float64
	ldv  int
	h    []float64
	ldh  int
	givs []givens
}

type givens struct {
	c, s float64
}

// Init implements the Method interface.
func (g *GMRES) Init(dim int) {
	if dim <= 0 {
		panic("krylov: dimension not positive")
	}
	if g.Restart < 0 || dim < g.Restart {
		panic("krylov: invalid GMRES.Restart")
	}

	g.k = g.Restart
	if g.k == 0 {
		g.k = dim
	}
	k := g.k

	g.s = reuse(g.s, k+1)
	g.y = reuse(g.y, k)
	g.w = reuse(g.w, dim)
	g.z = reuse(g.z, dim)
	g.vy = reuse(g.vy, dim)

	g.ldv = dim
	g.v = reuse(g.v, g.ldv*(k+1))
	g.ldh = k + 1
	g.h = reuse(g.h, g.ldh*k)
	if cap(g.givs) < k {
		g.givs = make([]givens, k)
	} else {
		g.givs = g.givs[:k]
	}

	g.resume = 1
}

// Iterate implements the Method interface.
func (g *GMRES) Iterate(ctx *Context) (Operation, error) {
	n := len(ctx.X)
	ldv := g.ldv
	switch g.resume {
	case 1:
		// Construct the first column of V from the current residual.
		rnorm := floats.Norm(ctx.Residual, 2)
		if negligible(rnorm) {
			g.resume = 0
			return NoOperation, breakdown("GMRES", "residual norm")
		}
		v0 := g.v[:n]
		copy(v0, ctx.Residual)
		floats.Scale(1/rnorm, v0)
		// Initialize s to the elementary vector e_1 scaled by rnorm.
		for i := range g.s {
			g.s[i] = 0
		}
		g.s[0] = rnorm
		for i := range g.h {
			g.h[i] = 0
		}

		// for i := 0; i < k; i++ {
		g.i = 0
		fallthrough
	case 2:
		i := g.i
		ctx.Src = g.v[i*ldv : i*ldv+n]
		ctx.Dst = g.z
		g.resume = 3
		return PSolve, nil
		// Solve M z = V[:,i].
	case 3:
		ctx.Src = g.z
		ctx.Dst = g.w
		g.resume = 4
		return MatVec, nil
		// Compute w = A M^{-1} V[:,i].
	case 4:
		i := g.i
		hi := g.h[i*g.ldh : i*g.ldh+g.ldh]

		// Construct i-th column of the upper Hessenberg matrix using
		// the modified Gram-Schmidt process on V and w so that w is
		// orthonormal to the previous columns of V.
		for k := 0; k <= i; k++ {
			vk := g.v[k*ldv : k*ldv+n]
			hki := floats.Dot(vk, g.w)
			hi[k] = hki
			floats.AddScaled(g.w, -hki, vk)
		}
		wnorm := floats.Norm(g.w, 2)
		hi[i+1] = wnorm // H[i+1,i] = |w|
		vip1 := g.v[(i+1)*ldv : (i+1)*ldv+n]
		copy(vip1, g.w)
		if wnorm != 0 {
			floats.Scale(1/wnorm, vip1)
		}

		// Apply the previous i Givens rotation matrices to the i-th
		// column of H.
		for j := 0; j < i; j++ {
			hi[j], hi[j+1] = rotvec(hi[j], hi[j+1], g.givs[j])
		}
		// Compute the (i+1)st Givens rotation that zeroes H[i+1,i].
		g.givs[i] = drotg(hi[i], hi[i+1])
		// Apply the (i+1)st Givens rotation.
		hi[i], hi[i+1] = rotvec(hi[i], hi[i+1], g.givs[i])
		if negligible(hi[i]) {
			g.resume = 0
			return NoOperation, breakdown("GMRES", "H[i,i]")
		}

		// Apply the (i+1)st Givens rotation to (s[i], s[i+1]).
		g.s[i], g.s[i+1] = rotvec(g.s[i], g.s[i+1], g.givs[i])
		// Approximate the residual norm and check for convergence.
		ctx.ResidualNorm = math.Abs(g.s[i+1])
		ctx.Src = nil
		ctx.Dst = nil
		ctx.Converged = false
		g.resume = 5
		return CheckResidualNorm, nil
	case 5:
		g.i++
		if !ctx.Converged && g.i < g.k {
			g.resume = 2
			return NoOperation, nil
		}
		// end for loop

		// Compute the approximate solution x + M^{-1} V y.
		g.combine(n)
		ctx.Src = g.vy
		ctx.Dst = g.z
		g.resume = 6
		return PSolve, nil
	case 6:
		floats.Add(ctx.X, g.z)
		g.resume = 7
		return ComputeResidual, nil
	case 7:
		ctx.Converged = false
		g.resume = 8
		// Check for convergence.
		return CheckResidual, nil
	case 8:
		if ctx.Converged {
			g.resume = 0 // Calling Iterate again without Init will panic.
			return EndIteration, nil
		}
		g.resume = 1
		return EndIteration, nil

	default:
		panic("krylov: GMRES.Init not called")
	}
}

// combine solves the triangular system H y = s of the first g.i columns and
// stores V y into g.vy.
func (g *GMRES) combine(n int) {
	m := g.i
	y := g.y[:m]
	copy(y, g.s[:m])
	// H is upper triangular but stored in column-major order while Dtrsv
	// expects row-major.
	bi := blas64.Implementation()
	bi.Dtrsv(blas.Lower, blas.Trans, blas.NonUnit, m, g.h, g.ldh, y, 1)
	for i := range g.vy {
		g.vy[i] = 0
	}
	for j := 0; j < m; j++ {
		vj := g.v[j*g.ldv : j*g.ldv+n]
		floats.AddScaled(g.vy, y[j], vj)
	}
}

func drotg(a, b float64) givens {
	if b == 0 {
		return givens{c: 1, s: 0}
	}
	if math.Abs(b) > math.Abs(a) {
		tmp := -a / b
		s := 1 / math.Sqrt(1+tmp*tmp)
		return givens{c: tmp * s, s: s}
	}
	tmp := -b / a
	c := 1 / math.Sqrt(1+tmp*tmp)
	return givens{c: c, s: tmp * c}
}

func rotvec(x, y float64, g givens) (rx, ry float64) {
	rx = g.c*x - g.s*y
	ry = g.s*x + g.c*y
	return
}
