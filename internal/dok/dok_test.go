// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dok

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestDOK(t *testing.T) {
	m := New(3, 2)
	m.SetAt(0, 0, 1)
	m.SetAt(2, 1, 3)
	m.AddAt(2, 1, 1)
	m.AddAt(1, 0, 2)
	m.SetAt(0, 1, 5)
	m.SetAt(0, 1, 0)

	assert.Equal(t, 3, m.NNZ())
	assert.True(t, mat.Equal(m, mat.NewDense(3, 2, []float64{
		1, 0,
		2, 0,
		0, 4,
	})))
	assert.Equal(t, 2.0, m.T().At(0, 1))

	var visited [][3]float64
	m.DoNonZero(func(i, j int, v float64) {
		visited = append(visited, [3]float64{float64(i), float64(j), v})
	})
	assert.Equal(t, [][3]float64{{0, 0, 1}, {1, 0, 2}, {2, 1, 4}}, visited)

	assert.Panics(t, func() { m.At(3, 0) })
	assert.Panics(t, func() { m.SetAt(0, -1, 1) })
}

func TestDOKOrder(t *testing.T) {
	m := New(2, 4)
	for j := 3; j >= 0; j-- {
		m.SetAt(1, j, float64(j+1))
		m.SetAt(0, 3-j, float64(j+5))
	}
	var got [][2]int
	m.DoNonZero(func(i, j int, _ float64) {
		got = append(got, [2]int{i, j})
	})
	assert.Equal(t, [][2]int{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {1, 0}, {1, 1}, {1, 2}, {1, 3}}, got)
}

func TestDOKMulVec(t *testing.T) {
	m := New(2, 3)
	m.SetAt(0, 0, 1)
	m.SetAt(0, 2, 2)
	m.SetAt(1, 1, -1)

	dst := []float64{100, 100}
	m.MulVec(dst, []float64{1, 2, 3})
	assert.Equal(t, []float64{7, -2}, dst)

	dstT := []float64{100, 100, 100}
	m.MulTransVec(dstT, []float64{1, 2})
	assert.Equal(t, []float64{1, -2, 2}, dstT)

	tr := m.Triplet()
	tr.MulVec(dst, []float64{1, 2, 3})
	assert.Equal(t, []float64{7, -2}, dst)
	assert.Panics(t, func() { m.MulVec(dst, []float64{1}) })
}
