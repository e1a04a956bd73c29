// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"math/rand"
	"testing"
)

func TestCG(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, tc := range symmetricCases(rnd) {
		r := checkSolve(t, tc, &CG{}, Settings{Tolerance: 1e-14})
		if r.Stats.PSolve != 0 {
			t.Errorf("Case %v: unexpected PSolve count %v", tc.name, r.Stats.PSolve)
		}
	}
}
