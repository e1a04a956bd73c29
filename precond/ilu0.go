// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precond

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// ILU0 is the incomplete LU factorization preconditioner with zero fill-in,
// M = L*U, where L is unit lower triangular, U is upper triangular and both
// have the sparsity pattern of A.
//
// ILU0 reads the pattern of A through mat.NonZeroDoer when A implements it,
// otherwise it scans all elements of A. The factors are stored in compressed
// sparse row format.
type ILU0 struct {
	ready bool
	n     int

	// Row i of L and U occupies val[rowPtr[i]:rowPtr[i+1]] with column
	// indices in col, sorted in increasing order. diag[i] is the position
	// of the diagonal element of row i.
	rowPtr []int
	col    []int
	val    []float64
	diag   []int

	work []float64
}

// Initialize implements the krylov.Preconditioner interface. It returns
// ErrZeroPivot if a diagonal element is missing from the pattern of A or
// becomes zero during the factorization.
func (p *ILU0) Initialize(a mat.Matrix) error {
	p.ready = false
	n, err := squareDim(a)
	if err != nil {
		return err
	}
	p.n = n
	p.compress(a)

	// Row position of each column in the row being eliminated, -1 if the
	// column is not in its pattern.
	pos := make([]int, n)
	for i := range pos {
		pos[i] = -1
	}
	for i := 0; i < n; i++ {
		if p.diag[i] < 0 {
			return fmt.Errorf("%w: A[%d,%d] is not stored", ErrZeroPivot, i, i)
		}
		start, end := p.rowPtr[i], p.rowPtr[i+1]
		for q := start; q < end; q++ {
			pos[p.col[q]] = q
		}
		for q := start; q < p.diag[i]; q++ {
			k := p.col[q]
			ukk := p.val[p.diag[k]]
			if ukk == 0 {
				return fmt.Errorf("%w: U[%d,%d] is zero", ErrZeroPivot, k, k)
			}
			lik := p.val[q] / ukk
			p.val[q] = lik
			for r := p.diag[k] + 1; r < p.rowPtr[k+1]; r++ {
				if t := pos[p.col[r]]; t >= 0 {
					p.val[t] -= lik * p.val[r]
				}
			}
		}
		for q := start; q < end; q++ {
			pos[p.col[q]] = -1
		}
		if p.val[p.diag[i]] == 0 {
			return fmt.Errorf("%w: U[%d,%d] is zero", ErrZeroPivot, i, i)
		}
	}
	p.work = reuse(p.work, n)
	p.ready = true
	return nil
}

// compress stores the non-zero elements of a in p in compressed sparse row
// format, summing duplicates.
func (p *ILU0) compress(a mat.Matrix) {
	n := p.n
	rows := make([]map[int]float64, n)
	doNonZero(a, func(i, j int, v float64) {
		if rows[i] == nil {
			rows[i] = make(map[int]float64)
		}
		rows[i][j] += v
	})

	p.rowPtr = append(p.rowPtr[:0], 0)
	p.col = p.col[:0]
	p.val = p.val[:0]
	if cap(p.diag) < n {
		p.diag = make([]int, n)
	}
	p.diag = p.diag[:n]
	for i, row := range rows {
		start := len(p.col)
		for j := range row {
			p.col = append(p.col, j)
		}
		cols := p.col[start:]
		slices.Sort(cols)
		p.diag[i] = -1
		for q, j := range cols {
			p.val = append(p.val, row[j])
			if j == i {
				p.diag[i] = start + q
			}
		}
		p.rowPtr = append(p.rowPtr, len(p.col))
	}
}

// Approximate implements the krylov.Preconditioner interface.
func (p *ILU0) Approximate(dst, src []float64) error {
	if !p.ready {
		return ErrNotInitialized
	}
	if err := checkVectors(p.n, dst, src); err != nil {
		return err
	}
	// Solve L y = src.
	y := p.work
	for i := 0; i < p.n; i++ {
		sum := src[i]
		for q := p.rowPtr[i]; q < p.diag[i]; q++ {
			sum -= p.val[q] * y[p.col[q]]
		}
		y[i] = sum
	}
	// Solve U dst = y.
	for i := p.n - 1; i >= 0; i-- {
		sum := y[i]
		for q := p.diag[i] + 1; q < p.rowPtr[i+1]; q++ {
			sum -= p.val[q] * dst[p.col[q]]
		}
		dst[i] = sum / p.val[p.diag[i]]
	}
	return nil
}

// ApproximateTrans implements the krylov.TransPreconditioner interface.
func (p *ILU0) ApproximateTrans(dst, src []float64) error {
	if !p.ready {
		return ErrNotInitialized
	}
	if err := checkVectors(p.n, dst, src); err != nil {
		return err
	}
	// Solve U^T y = src by columns of U^T.
	y := p.work
	copy(y, src)
	for i := 0; i < p.n; i++ {
		y[i] /= p.val[p.diag[i]]
		for q := p.diag[i] + 1; q < p.rowPtr[i+1]; q++ {
			y[p.col[q]] -= p.val[q] * y[i]
		}
	}
	// Solve L^T dst = y by columns of L^T.
	copy(dst, y)
	for i := p.n - 1; i >= 0; i-- {
		for q := p.rowPtr[i]; q < p.diag[i]; q++ {
			dst[p.col[q]] -= p.val[q] * dst[i]
		}
	}
	return nil
}
