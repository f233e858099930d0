package cvrp

import "github.com/jpjj/cvrp-hgs/individual"

// Solution is the core's output: a set of routes (customer ids, depot
// omitted), their total cost, and whether the solution is feasible: every
// route respects capacity and, when the instance sets MaxVehicles, the
// route count does not exceed it.
type Solution struct {
	Routes   [][]int
	Cost     float64
	Feasible bool
}

func newSolution(ind *individual.Individual) *Solution {
	routes := make([][]int, len(ind.Routes))
	for i, r := range ind.Routes {
		routes[i] = append([]int(nil), r.Customers...)
	}
	return &Solution{
		Routes:   routes,
		Cost:     ind.CostFeasible,
		Feasible: ind.IsFeasible,
	}
}
