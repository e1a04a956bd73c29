// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package triplet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestMatrix(t *testing.T) {
	m := New(2, 2)
	m.Append(0, 0, 1)
	m.Append(0, 1, 2)
	m.Append(0, 0, 3)
	m.Append(1, 1, 4)

	assert.Equal(t, 4, m.NNZ())
	assert.Equal(t, 4.0, m.At(0, 0), "duplicates add up")
	assert.True(t, mat.Equal(m, mat.NewDense(2, 2, []float64{4, 2, 0, 4})))
	assert.Equal(t, 2.0, m.T().At(1, 0))

	dst := []float64{9, 9}
	m.MulVec(dst, []float64{1, 1})
	assert.Equal(t, []float64{6, 4}, dst)
	m.MulTransVec(dst, []float64{1, 1})
	assert.Equal(t, []float64{4, 6}, dst)

	var sum float64
	m.DoNonZero(func(_, _ int, v float64) { sum += v })
	assert.Equal(t, 10.0, sum)

	assert.Panics(t, func() { m.Append(2, 0, 1) })
	assert.Panics(t, func() { m.MulVec(dst, []float64{1}) })
}
