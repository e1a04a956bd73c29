// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package precond

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

func squareDim(a mat.Matrix) (int, error) {
	r, c := a.Dims()
	if r != c {
		return 0, fmt.Errorf("%w: matrix is %d×%d", ErrNotSquare, r, c)
	}
	return r, nil
}

func checkVectors(n int, dst, src []float64) error {
	if len(dst) != n || len(src) != n {
		return fmt.Errorf("%w: len(dst)=%d, len(src)=%d, dimension is %d", ErrDimensionMismatch, len(dst), len(src), n)
	}
	return nil
}

func reuse(v []float64, n int) []float64 {
	if cap(v) < n {
		return make([]float64, n)
	}
	v = v[:n]
	for i := range v {
		v[i] = 0
	}
	return v
}

// doNonZero calls fn for the non-zero elements of a. Matrices implementing
// mat.NonZeroDoer are traversed without visiting their zero elements and
// may report the same element more than once, in which case the values add
// up.
func doNonZero(a mat.Matrix, fn func(i, j int, v float64)) {
	if nz, ok := a.(mat.NonZeroDoer); ok {
		nz.DoNonZero(fn)
		return
	}
	r, c := a.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := a.At(i, j); v != 0 {
				fn(i, j, v)
			}
		}
	}
}
