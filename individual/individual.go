// Package individual defines the Individual chromosome type: a giant-tour
// permutation plus its Split decoding into routes, feasibility, and cost.
package individual

import (
	"github.com/jpjj/cvrp-hgs/problem"
	"github.com/jpjj/cvrp-hgs/split"
)

// Individual is a chromosome (a permutation of 1..N, depot omitted) plus its
// derived routes, costs, and feasibility. Individuals are created by random
// generation or crossover, mutated only by local search, and discarded once
// consumed by population insertion or replacement.
type Individual struct {
	Chromosome []int

	Routes []split.Route

	// CostFeasible is the plain total distance, ignoring any excess load.
	CostFeasible float64

	// CostPenalized is CostFeasible + λ·excessLoad + λ·excessRoutes, where
	// excessRoutes is max(0, len(Routes)-MaxVehicles) when MaxVehicles>0.
	CostPenalized float64

	ExcessLoad   float64
	ExcessRoutes int

	IsFeasible bool

	// Successor[c] is customer c's successor in the giant-tour
	// reconstruction (0, the depot, for the last customer of each route),
	// used to compute broken-pairs distance between individuals.
	Successor []int

	// BiasedFitness is set by the population manager's Rank: a cost-rank
	// plus diversity-rank composite, lower is better. Zero until the
	// individual's subpopulation has been ranked at least once.
	BiasedFitness float64
}

// New builds an Individual from a chromosome by decoding it with Split and
// scoring the decoding under the given penalty coefficient and, advisorily,
// MaxVehicles.
func New(chromosome []int, prob *problem.Problem, penalty float64) *Individual {
	ind := &Individual{Chromosome: append([]int(nil), chromosome...)}
	ind.Decode(prob, penalty)
	return ind
}

// Decode re-runs Split on the individual's current chromosome, refreshing
// Routes, costs, feasibility, and the diversity descriptor. Local search
// does not call this (it replaces Routes directly and recomputes costs via
// Recost); Decode is for fresh chromosomes from crossover or random
// initialization.
func (ind *Individual) Decode(prob *problem.Problem, penalty float64) {
	plan := split.Split(ind.Chromosome, prob)
	ind.Routes = plan.Routes
	ind.ExcessLoad = plan.ExcessLoad
	ind.recost(prob, penalty)
}

// DecodePenalized decodes allowing capacity overflow at the given penalty.
// Nothing in the genetic loop calls it; the repair path re-educates a
// clone under a boosted penalty instead.
func (ind *Individual) DecodePenalized(prob *problem.Problem, penalty float64) {
	plan := split.Penalized(ind.Chromosome, prob, penalty)
	ind.Routes = plan.Routes
	ind.ExcessLoad = plan.ExcessLoad
	ind.recost(prob, penalty)
}

// Recost recomputes CostFeasible, CostPenalized, IsFeasible, ExcessLoad, and
// the diversity descriptor from the current Routes, without re-running
// Split. Local search's Educate calls this once, after its run has written
// the optimized routes back.
func (ind *Individual) Recost(prob *problem.Problem, penalty float64) {
	ind.ExcessLoad = 0
	for _, r := range ind.Routes {
		over := r.Load - prob.Capacity
		if over > 0 {
			ind.ExcessLoad += over
		}
	}
	ind.recost(prob, penalty)
}

func (ind *Individual) recost(prob *problem.Problem, penalty float64) {
	ind.CostFeasible = 0
	for _, r := range ind.Routes {
		ind.CostFeasible += r.Distance
	}

	ind.ExcessRoutes = 0
	if prob.MaxVehicles > 0 && len(ind.Routes) > prob.MaxVehicles {
		ind.ExcessRoutes = len(ind.Routes) - prob.MaxVehicles
	}

	ind.IsFeasible = ind.ExcessLoad == 0 && ind.ExcessRoutes == 0
	ind.CostPenalized = ind.CostFeasible + penalty*ind.ExcessLoad + penalty*float64(ind.ExcessRoutes)

	ind.rebuildChromosome()
	ind.rebuildSuccessor(prob.N)
}

// rebuildChromosome resyncs Chromosome with the concatenation of Routes in
// order, so it reflects local search's cross-route moves rather than only
// the pre-education permutation Decode started from (Data Model invariant
// 2: concatenating routes in order reproduces the chromosome). Every path
// that mutates Routes — Decode, DecodePenalized, and local search's
// Educate via Recost — funnels through recost, so this keeps Chromosome
// current for the next crossover regardless of which path produced Routes.
func (ind *Individual) rebuildChromosome() {
	ind.Chromosome = ind.Chromosome[:0]
	for _, r := range ind.Routes {
		ind.Chromosome = append(ind.Chromosome, r.Customers...)
	}
}

// rebuildSuccessor recomputes the giant-tour successor descriptor used for
// broken-pairs diversity: each customer's successor within its route, with
// the depot (0) as the successor of a route's last customer (so a rotation
// of a route does not change the descriptor of routes other than the
// rotated one).
func (ind *Individual) rebuildSuccessor(n int) {
	if cap(ind.Successor) < n+1 {
		ind.Successor = make([]int, n+1)
	} else {
		ind.Successor = ind.Successor[:n+1]
		for i := range ind.Successor {
			ind.Successor[i] = 0
		}
	}
	for _, r := range ind.Routes {
		for i, c := range r.Customers {
			next := 0
			if i+1 < len(r.Customers) {
				next = r.Customers[i+1]
			}
			ind.Successor[c] = next
		}
	}
}

// BrokenPairsDistance returns the fraction of successor relations that
// differ between ind and other: a value in [0,1].
func (ind *Individual) BrokenPairsDistance(other *Individual) float64 {
	n := len(ind.Successor) - 1
	if n <= 0 {
		return 0
	}
	diff := 0
	for c := 1; c <= n; c++ {
		if ind.Successor[c] != other.Successor[c] {
			diff++
		}
	}
	return float64(diff) / float64(n)
}

// Hash returns a simple order-sensitive hash of the chromosome, used by the
// population manager to detect and remove duplicate individuals before
// survivor selection.
func (ind *Individual) Hash() uint64 {
	var h uint64 = 1469598103934665603 // FNV offset basis
	for _, c := range ind.Chromosome {
		h ^= uint64(c)
		h *= 1099511628211 // FNV prime
	}
	return h
}

// Clone returns a deep copy safe to mutate independently.
func (ind *Individual) Clone() *Individual {
	clone := &Individual{
		Chromosome:    append([]int(nil), ind.Chromosome...),
		Routes:        append([]split.Route(nil), ind.Routes...),
		CostFeasible:  ind.CostFeasible,
		CostPenalized: ind.CostPenalized,
		ExcessLoad:    ind.ExcessLoad,
		ExcessRoutes:  ind.ExcessRoutes,
		IsFeasible:    ind.IsFeasible,
		Successor:     append([]int(nil), ind.Successor...),
		BiasedFitness: ind.BiasedFitness,
	}
	for i := range clone.Routes {
		clone.Routes[i].Customers = append([]int(nil), ind.Routes[i].Customers...)
	}
	return clone
}
