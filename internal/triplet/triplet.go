// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package triplet provides a sparse matrix in coordinate format. Elements may
// be appended more than once, their values add up.
package triplet

import "gonum.org/v1/gonum/mat"

type triplet struct {
	i, j int
	v    float64
}

type Matrix struct {
	r, c int
	data []triplet
}

var (
	_ mat.Matrix      = (*Matrix)(nil)
	_ mat.NonZeroDoer = (*Matrix)(nil)
)

func New(r, c int) *Matrix {
	return &Matrix{
		r: r,
		c: c,
	}
}

func (m *Matrix) Dims() (r, c int) {
	return m.r, m.c
}

// At returns the sum of the values appended at (i, j). It is linear in the
// number of stored elements.
func (m *Matrix) At(i, j int) float64 {
	m.checkIndex(i, j)
	var v float64
	for _, aij := range m.data {
		if aij.i == i && aij.j == j {
			v += aij.v
		}
	}
	return v
}

func (m *Matrix) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// NNZ returns the number of stored elements, counting duplicates.
func (m *Matrix) NNZ() int {
	return len(m.data)
}

func (m *Matrix) Append(i, j int, v float64) {
	m.checkIndex(i, j)
	m.data = append(m.data, triplet{i, j, v})
}

// DoNonZero calls fn for every stored element in the order of appending.
func (m *Matrix) DoNonZero(fn func(i, j int, v float64)) {
	for _, aij := range m.data {
		fn(aij.i, aij.j, aij.v)
	}
}

func (m *Matrix) MulVec(dst, x []float64) {
	if m.c != len(x) {
		panic("triplet: dimension mismatch")
	}
	if m.r != len(dst) {
		panic("triplet: dimension mismatch")
	}
	for i := range dst {
		dst[i] = 0
	}
	for _, aij := range m.data {
		dst[aij.i] += aij.v * x[aij.j]
	}
}

func (m *Matrix) MulTransVec(dst, x []float64) {
	if m.c != len(dst) {
		panic("triplet: dimension mismatch")
	}
	if m.r != len(x) {
		panic("triplet: dimension mismatch")
	}
	for i := range dst {
		dst[i] = 0
	}
	for _, aij := range m.data {
		dst[aij.j] += aij.v * x[aij.i]
	}
}

func (m *Matrix) checkIndex(i, j int) {
	if i < 0 || m.r <= i {
		panic("triplet: row index out of range")
	}
	if j < 0 || m.c <= j {
		panic("triplet: column index out of range")
	}
}
