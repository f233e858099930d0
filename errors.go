package cvrp

import (
	"errors"

	"github.com/jpjj/cvrp-hgs/problem"
)

// ErrInstanceInvalid wraps problem.ErrInvalid at the package boundary: the
// depot (index 0) has nonzero demand, a customer has zero demand (a second
// depot), a demand is negative, or some customer's demand exceeds capacity.
// Fatal; no search begins.
var ErrInstanceInvalid = problem.ErrInvalid

// ErrNoFeasibleFound is returned when the driver's stopping criterion
// fires before any feasible individual was ever produced. The returned
// Solution still carries the best (lowest-cost) infeasible individual
// found, with Feasible set to false.
var ErrNoFeasibleFound = errors.New("cvrp: no feasible solution found before stopping")
