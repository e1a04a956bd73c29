// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package krylov

// Status is the verdict of a stop criterion or a Monitor on the state of an
// iteration. Continue is the zero value and the only non-terminal status.
type Status int

const (
	Continue Status = iota
	// Converged signals that the residual satisfies the tolerance.
	Converged
	// StoppedWithoutConvergence signals that the iteration budget has been
	// exhausted or that the iteration stagnated.
	StoppedWithoutConvergence
	// Diverged signals that the residual grows.
	Diverged
	// Cancelled signals an external cancellation request or a method that
	// cannot proceed.
	Cancelled
	// Failure signals a hard failure such as a NaN residual.
	Failure
)

var statusStrings = [...]string{
	Continue:                  "Continue",
	Converged:                 "Converged",
	StoppedWithoutConvergence: "StoppedWithoutConvergence",
	Diverged:                  "Diverged",
	Cancelled:                 "Cancelled",
	Failure:                   "Failure",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusStrings) {
		return "UnknownStatus"
	}
	return statusStrings[s]
}

// precedence orders statuses when the verdicts of several criteria are
// combined. A higher value wins.
func (s Status) precedence() int {
	switch s {
	case Continue:
		return 0
	case StoppedWithoutConvergence:
		return 1
	case Converged:
		return 2
	case Diverged:
		return 3
	case Cancelled:
		return 4
	case Failure:
		return 5
	}
	return -1
}

// sticky reports whether s, once reached by a Monitor, persists until the
// Monitor is reset. Converged is provisional because a method may re-check it
// against the true residual.
func (s Status) sticky() bool {
	return s != Continue && s != Converged
}
