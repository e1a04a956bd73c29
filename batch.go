// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// SolveConcurrent solves the linear systems
//  A*x_i = bs[i]
// concurrently, one goroutine per right-hand side and at most limit of them
// at a time. If limit is not positive, the number of goroutines is not
// limited.
//
// setup is called once for every right-hand side and must return a new Method
// and Settings whose Monitor and Preconditioner are not shared with any other
// solve. The matrix a is only read and is shared by all solves.
//
// The returned results are in the order of bs. The first error cancels the
// remaining solves and is returned together with the results obtained so far.
func SolveConcurrent(ctx context.Context, a mat.Matrix, bs [][]float64, setup func(i int) (Method, Settings), limit int) ([]Result, error) {
	results := make([]Result, len(bs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, b := range bs {
		g.Go(func() error {
			method, settings := setup(i)
			r, err := Solve(ctx, a, b, nil, method, settings)
			results[i] = r
			if err != nil {
				return fmt.Errorf("krylov: right-hand side %d: %w", i, err)
			}
			return nil
		})
	}
	return results, g.Wait()
}
