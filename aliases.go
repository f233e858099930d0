package cvrp

import (
	"github.com/jpjj/cvrp-hgs/config"
	"github.com/jpjj/cvrp-hgs/individual"
	"github.com/jpjj/cvrp-hgs/problem"
)

// Problem, Point, Config, and Individual are re-exported here so callers
// depend only on the root package; the layered subpackages exist to keep
// the internal dependency graph acyclic; see doc.go.
type (
	Problem    = problem.Problem
	Point      = problem.Point
	Config     = config.Config
	Individual = individual.Individual
)

// NewProblem validates and builds a Problem instance. coord and demand
// must each have length n+1 with index 0 the depot (demand[0]==0).
func NewProblem(name string, capacity float64, maxVehicles int, coord []Point, demand []float64) (*Problem, error) {
	return problem.New(name, capacity, maxVehicles, coord, demand)
}

// DefaultConfig returns the Config defaults named in the external
// interface specification. Callers still need to set InitialPenalty
// (recommended Q/10) once the instance's capacity is known.
func DefaultConfig() Config {
	return config.Default()
}
