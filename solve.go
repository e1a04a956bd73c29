// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MatrixOps describes the matrix of the
// linear system in terms of A*x and A^T*x
// operations.
type MatrixOps struct {
	// Compute A*x and store the result
	// into dst.
	// It must be non-nil.
	MatVec func(dst, x []float64)

	// Compute A^T*x and store the result
	// into dst.
	// If the matrix is symmetric and a
	// solver for symmetric systems is
	// used (like CG), MatTransVec can be
	// nil.
	MatTransVec func(dst, x []float64)
}

// NewMatrixOps returns the matrix-vector operations of a. If a has methods
//  MulVec(dst, x []float64)
//  MulTransVec(dst, x []float64)
// they are used directly, otherwise the products are computed by package mat.
func NewMatrixOps(a mat.Matrix) MatrixOps {
	var ops MatrixOps
	if m, ok := a.(interface{ MulVec(dst, x []float64) }); ok {
		ops.MatVec = m.MulVec
	} else {
		ops.MatVec = func(dst, x []float64) {
			d := mat.NewVecDense(len(dst), dst)
			d.MulVec(a, mat.NewVecDense(len(x), x))
		}
	}
	if m, ok := a.(interface{ MulTransVec(dst, x []float64) }); ok {
		ops.MatTransVec = m.MulTransVec
	} else {
		ops.MatTransVec = func(dst, x []float64) {
			d := mat.NewVecDense(len(dst), dst)
			d.MulVec(a.T(), mat.NewVecDense(len(x), x))
		}
	}
	return ops
}

// Settings holds various settings for
// solving a linear system.
type Settings struct {
	// Tolerance specifies error
	// tolerance for the final
	// approximate solution produced by
	// the iterative method. It is used
	// only when Monitor is nil.
	// Tolerance must be smaller than one
	// and greater than the machine
	// epsilon.
	//
	// The stopping criterion will be
	//  |r_i| <= Tolerance * |b|,
	// or |r_i| <= Tolerance if b is
	// the zero vector.
	Tolerance float64

	// MaxIterations is the limit on the
	// number of iterations. It is used
	// only when Monitor is nil.
	// If it is zero, it will be set to
	// twice the dimension of the system.
	MaxIterations int

	// Monitor decides when the
	// iteration stops. If it is nil, a
	// new Monitor with a residual, an
	// iteration count and a failure
	// criterion built from Tolerance
	// and MaxIterations is used.
	// A non-nil Monitor is used as is,
	// it is not reset by the solve.
	Monitor *Monitor

	// Preconditioner describes the
	// preconditioner solve
	//  M z = rhs.
	// If it is nil, no preconditioning
	// will be used (M is the identity).
	// LinearSolve expects it to be
	// initialized, Solve initializes it
	// from the matrix.
	Preconditioner Preconditioner

	// Logger receives a summary of the
	// solve at debug level. If it is
	// nil, nothing is logged.
	Logger *zerolog.Logger

	// Recorder receives the statistics
	// of the solve. It may be nil.
	Recorder Recorder
}

func defaultSettings(s *Settings, dim int) {
	if s.Tolerance == 0 {
		s.Tolerance = 1e-8
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = 2 * dim
	}
}

// Result holds the result of an iterative solve.
type Result struct {
	// X is the approximate solution.
	X []float64
	// Stats holds the statistics of the
	// solve.
	Stats Stats
	// Status is the final status of the
	// Monitor.
	Status Status
}

// Stats holds statistics about an iterative solve.
type Stats struct {
	// Iterations is the number of
	// iteration done by Method.
	Iterations int
	// MatVec is the number of MatVec and
	// MatTransVec operations commanded
	// by a Method and of residual
	// computations.
	MatVec int
	// PSolve is the number of PSolve and
	// PSolveTrans operations commanded
	// by a Method.
	PSolve int
	// ResidualNorm is the final norm of
	// the residual.
	ResidualNorm float64
	// StartTime is an approximate time
	// when the solve was started.
	StartTime time.Time
	// Runtime is an approximate duration
	// of the solve.
	Runtime time.Duration
}

// Solve solves the system of n linear equations
//  A*x = b,
// where a is a square n×n matrix. On entry x holds the initial guess, on
// return it holds the approximate solution. If x is nil, the zero vector is
// used as the initial guess.
//
// If settings.Preconditioner is not nil, it is initialized from a before the
// iteration starts. See LinearSolve for the meaning of the results.
func Solve(ctx context.Context, a mat.Matrix, b, x []float64, method Method, settings Settings) (Result, error) {
	r, c := a.Dims()
	if r != c {
		return Result{X: x}, fmt.Errorf("%w: matrix is %d×%d", ErrDimensionMismatch, r, c)
	}
	if len(b) != r {
		return Result{X: x}, fmt.Errorf("%w: len(b)=%d, matrix is %d×%d", ErrDimensionMismatch, len(b), r, c)
	}
	if x != nil && len(x) != r {
		return Result{X: x}, fmt.Errorf("%w: len(x)=%d, matrix is %d×%d", ErrDimensionMismatch, len(x), r, c)
	}
	if r == 0 {
		return Result{X: x, Status: Converged}, nil
	}
	if p := settings.Preconditioner; p != nil {
		if err := p.Initialize(a); err != nil {
			return Result{X: x}, fmt.Errorf("krylov: initialize preconditioner: %w", err)
		}
	}
	return LinearSolve(ctx, NewMatrixOps(a), b, x, method, settings)
}

// LinearSolve solves the system of n linear equations
//  A*x = b,
// where the n×n matrix A is represented by the matrix-vector operations in a.
// The dimension of the problem n is determined by the length of b.
//
// On entry x holds the initial guess, on return it holds the approximate
// solution. If x is nil, the zero vector is used as the initial guess and a
// new slice is returned in Result.X.
//
// method is an iterative method used for finding an approximate solution of the
// linear system. It must not be nil. The operations in a must provide what the
// method needs.
//
// settings provide means for adjusting the iterative process. Zero values of
// the fields mean default values.
//
// Result.Status reports how the iteration ended. Running out of iterations,
// divergence and stagnation are reported only through the status, and x then
// holds the best available approximation. A numerical breakdown of the method
// is returned as an error matching ErrBreakdown, with status Cancelled. If ctx
// is cancelled, the status is Cancelled and ctx.Err() is returned.
func LinearSolve(ctx context.Context, a MatrixOps, b, x []float64, method Method, settings Settings) (Result, error) {
	stats := Stats{StartTime: time.Now()}

	dim := len(b)
	if method == nil {
		panic("krylov: nil method")
	}
	if a.MatVec == nil {
		panic("krylov: nil matrix-vector multiplication")
	}
	if x != nil && len(x) != dim {
		return Result{X: x}, fmt.Errorf("%w: len(x)=%d, len(b)=%d", ErrDimensionMismatch, len(x), dim)
	}
	if x == nil {
		x = make([]float64, dim)
	}

	if dim == 0 {
		return Result{X: x, Stats: stats, Status: Converged}, nil
	}

	bnorm := floats.Norm(b, 2)
	m := settings.Monitor
	if m == nil {
		defaultSettings(&settings, dim)
		if settings.Tolerance < dlamchE || 1 <= settings.Tolerance {
			panic("krylov: invalid tolerance")
		}
		m = defaultMonitor(settings.Tolerance, settings.MaxIterations, bnorm)
	} else if m.Len() == 0 {
		return Result{X: x}, ErrNoCriteria
	}

	name := methodName(method)
	ctx, span := otel.Tracer("github.com/vladimir-ch/krylov").Start(ctx, "krylov.Solve")
	defer span.End()
	span.SetAttributes(
		attribute.String("krylov.method", name),
		attribute.Int("krylov.dim", dim),
	)

	wctx := &Context{
		X:        x,
		Residual: make([]float64, dim),
	}
	a.MatVec(wctx.Residual, wctx.X)
	stats.MatVec++
	floats.AddScaledTo(wctx.Residual, b, -1, wctx.Residual) // r = b - Ax
	wctx.ResidualNorm = floats.Norm(wctx.Residual, 2)

	d := driver{
		a:      a,
		b:      b,
		bnorm:  bnorm,
		ctx:    wctx,
		pre:    settings.Preconditioner,
		method: method,
		mon:    m,
		stats:  &stats,
	}
	status := m.evaluate(d.progress(true, false))
	var err error
	if status == Continue {
		status, err = d.iterate(ctx)
	}

	stats.ResidualNorm = wctx.ResidualNorm
	stats.Runtime = time.Since(stats.StartTime)

	span.SetAttributes(
		attribute.Int("krylov.iterations", stats.Iterations),
		attribute.String("krylov.status", status.String()),
		attribute.Float64("krylov.residual_norm", stats.ResidualNorm),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if settings.Logger != nil {
		ev := settings.Logger.Debug()
		if err != nil {
			ev = settings.Logger.Error().Err(err)
		}
		ev.Str("method", name).
			Int("dim", dim).
			Int("iterations", stats.Iterations).
			Int("matvec", stats.MatVec).
			Int("psolve", stats.PSolve).
			Float64("residual_norm", stats.ResidualNorm).
			Stringer("status", status).
			Dur("runtime", stats.Runtime).
			Msg("linear solve finished")
	}
	if settings.Recorder != nil {
		settings.Recorder.RecordSolve(name, status, stats)
	}

	return Result{
		X:      x,
		Stats:  stats,
		Status: status,
	}, err
}

// driver performs the operations commanded by a Method.
type driver struct {
	a      MatrixOps
	b      []float64
	bnorm  float64
	ctx    *Context
	pre    Preconditioner
	method Method
	mon    *Monitor
	stats  *Stats
}

// progress describes the current state for the monitor. inIteration is set for
// checks made before the running iteration completes.
func (d *driver) progress(withResidual, inIteration bool) Progress {
	p := Progress{
		Iteration:    d.stats.Iterations,
		InIteration:  inIteration,
		X:            d.ctx.X,
		B:            d.b,
		ResidualNorm: d.ctx.ResidualNorm,
		BNorm:        d.bnorm,
	}
	if withResidual {
		p.Residual = d.ctx.Residual
	}
	return p
}

func (d *driver) iterate(ctx context.Context) (Status, error) {
	a, wctx, stats := d.a, d.ctx, d.stats

	d.method.Init(len(wctx.X))

	for {
		op, err := d.method.Iterate(wctx)
		if err != nil {
			if errors.Is(err, ErrBreakdown) {
				d.mon.IterationCancelled()
			} else {
				d.mon.fail()
			}
			return d.mon.Status(), err
		}

		switch op {
		case NoOperation:

		case ComputeResidual:
			a.MatVec(wctx.Residual, wctx.X)
			stats.MatVec++
			floats.AddScaledTo(wctx.Residual, d.b, -1, wctx.Residual)

		case MatVec, MatTransVec:
			if op == MatVec {
				a.MatVec(wctx.Dst, wctx.Src)
			} else {
				if a.MatTransVec == nil {
					panic("krylov: nil transposed matrix-vector multiplication")
				}
				a.MatTransVec(wctx.Dst, wctx.Src)
			}
			stats.MatVec++

		case PSolve, PSolveTrans:
			if d.pre == nil {
				copy(wctx.Dst, wctx.Src)
				continue
			}
			if op == PSolve {
				err = d.pre.Approximate(wctx.Dst, wctx.Src)
			} else {
				tp, ok := d.pre.(TransPreconditioner)
				if !ok {
					d.mon.fail()
					return d.mon.Status(), ErrNoTransPreconditioner
				}
				err = tp.ApproximateTrans(wctx.Dst, wctx.Src)
			}
			if err != nil {
				d.mon.fail()
				return d.mon.Status(), fmt.Errorf("krylov: preconditioner: %w", err)
			}
			stats.PSolve++

		case CheckResidualNorm, CheckResidual:
			if op == CheckResidual {
				wctx.ResidualNorm = floats.Norm(wctx.Residual, 2)
			}
			switch s := d.mon.evaluate(d.progress(op == CheckResidual, true)); s {
			case Continue:
				wctx.Converged = false
			case Converged:
				wctx.Converged = true
			default:
				return s, nil
			}

		case EndIteration:
			stats.Iterations++
			stats.ResidualNorm = wctx.ResidualNorm
			if wctx.Converged {
				return Converged, nil
			}
			if err := ctx.Err(); err != nil {
				d.mon.IterationCancelled()
				return Cancelled, err
			}
			if d.mon.cancelRequested() {
				d.mon.IterationCancelled()
				return Cancelled, nil
			}
			if s := d.mon.evaluate(d.progress(false, false)); s != Continue && s != Converged {
				return s, nil
			}

		default:
			panic("krylov: invalid operation")
		}
	}
}
