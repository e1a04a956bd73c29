// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives the outcome of every solve that has it in its Settings.
// Implementations must be safe for concurrent use if they are shared by
// concurrent solves.
type Recorder interface {
	RecordSolve(method string, status Status, stats Stats)
}

// PrometheusRecorder is a Recorder that exports solve statistics as Prometheus
// metrics.
type PrometheusRecorder struct {
	solves     *prometheus.CounterVec
	iterations *prometheus.HistogramVec
	matvec     *prometheus.CounterVec
	psolve     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a PrometheusRecorder and registers its metrics
// with reg. If reg is nil, prometheus.DefaultRegisterer is used.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &PrometheusRecorder{
		solves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "krylov_solves_total",
			Help: "Number of iterative solves by method and final status.",
		}, []string{"method", "status"}),
		iterations: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "krylov_iterations",
			Help:    "Number of iterations per solve.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"method"}),
		matvec: f.NewCounterVec(prometheus.CounterOpts{
			Name: "krylov_matvec_total",
			Help: "Number of matrix-vector products.",
		}, []string{"method"}),
		psolve: f.NewCounterVec(prometheus.CounterOpts{
			Name: "krylov_psolve_total",
			Help: "Number of preconditioner solves.",
		}, []string{"method"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "krylov_solve_duration_seconds",
			Help:    "Duration of iterative solves.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// RecordSolve implements the Recorder interface.
func (r *PrometheusRecorder) RecordSolve(method string, status Status, stats Stats) {
	r.solves.WithLabelValues(method, status.String()).Inc()
	r.iterations.WithLabelValues(method).Observe(float64(stats.Iterations))
	r.matvec.WithLabelValues(method).Add(float64(stats.MatVec))
	r.psolve.WithLabelValues(method).Add(float64(stats.PSolve))
	r.duration.WithLabelValues(method).Observe(stats.Runtime.Seconds())
}
