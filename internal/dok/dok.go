// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dok provides a sparse matrix stored as a dictionary of keys. It is
// convenient for assembling matrices element by element.
package dok

import (
	"cmp"
	"slices"

	"github.com/vladimir-ch/krylov/internal/triplet"
	"gonum.org/v1/gonum/mat"
)

type DOK struct {
	Rows, Cols int

	data map[index]float64
}

type index struct {
	row, col int
}

var (
	_ mat.Matrix      = (*DOK)(nil)
	_ mat.NonZeroDoer = (*DOK)(nil)
)

func New(r, c int) *DOK {
	return &DOK{
		Rows: r,
		Cols: c,
		data: make(map[index]float64),
	}
}

func (m *DOK) Dims() (r, c int) {
	return m.Rows, m.Cols
}

func (m *DOK) At(i, j int) float64 {
	m.checkIndex(i, j)
	return m.data[index{i, j}]
}

func (m *DOK) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

func (m *DOK) SetAt(i, j int, v float64) {
	m.checkIndex(i, j)
	if v == 0 {
		delete(m.data, index{i, j})
		return
	}
	m.data[index{i, j}] = v
}

// AddAt adds v to the element at (i, j).
func (m *DOK) AddAt(i, j int, v float64) {
	m.SetAt(i, j, m.At(i, j)+v)
}

// NNZ returns the number of non-zero elements.
func (m *DOK) NNZ() int {
	return len(m.data)
}

// DoNonZero calls fn for every non-zero element in row-major order.
func (m *DOK) DoNonZero(fn func(i, j int, v float64)) {
	for _, ij := range m.keys() {
		fn(ij.row, ij.col, m.data[ij])
	}
}

// Triplet returns the matrix in coordinate format, which is faster for
// matrix-vector products.
func (m *DOK) Triplet() *triplet.Matrix {
	t := triplet.New(m.Rows, m.Cols)
	m.DoNonZero(t.Append)
	return t
}

func (m *DOK) MulVec(dst, x []float64) {
	if m.Cols != len(x) {
		panic("dok: dimension mismatch")
	}
	if m.Rows != len(dst) {
		panic("dok: dimension mismatch")
	}
	for i := range dst {
		dst[i] = 0
	}
	for ij, aij := range m.data {
		dst[ij.row] += aij * x[ij.col]
	}
}

func (m *DOK) MulTransVec(dst, x []float64) {
	if m.Cols != len(dst) {
		panic("dok: dimension mismatch")
	}
	if m.Rows != len(x) {
		panic("dok: dimension mismatch")
	}
	for i := range dst {
		dst[i] = 0
	}
	for ij, aij := range m.data {
		dst[ij.col] += aij * x[ij.row]
	}
}

func (m *DOK) keys() []index {
	keys := make([]index, 0, len(m.data))
	for ij := range m.data {
		keys = append(keys, ij)
	}
	slices.SortFunc(keys, func(a, b index) int {
		if c := cmp.Compare(a.row, b.row); c != 0 {
			return c
		}
		return cmp.Compare(a.col, b.col)
	})
	return keys
}

func (m *DOK) checkIndex(i, j int) {
	if i < 0 || m.Rows <= i {
		panic("dok: row index out of range")
	}
	if j < 0 || m.Cols <= j {
		panic("dok: column index out of range")
	}
}
