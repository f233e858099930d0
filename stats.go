package cvrp

import (
	"fmt"
	"math"
)

// Stats summarizes one subpopulation's cost spread for the driver's
// per-iteration log line: the extremes, mean, and deviation of the
// penalized cost, plus how much excess load the subpopulation is carrying.
// The mean and deviation follow Welford's recurrence so the driver folds
// individuals one at a time without buffering the subpopulation.
type Stats struct {
	count      int
	minCost    float64
	maxCost    float64
	meanCost   float64
	costDevSq  float64 // accumulated squared deviation of penalized cost
	excessLoad float64 // summed excess load across folded individuals
	overloaded int     // individuals carrying any excess load
}

// Insert folds one individual's penalized cost and excess load into the
// summary and returns the updated value.
func (s Stats) Insert(costPenalized, excessLoad float64) Stats {
	if s.count == 0 {
		s.minCost = math.Inf(+1)
		s.maxCost = math.Inf(-1)
	}

	n := s.count + 1
	diff := costPenalized - s.meanCost

	s.minCost = math.Min(s.minCost, costPenalized)
	s.maxCost = math.Max(s.maxCost, costPenalized)
	s.meanCost += diff / float64(n)
	s.costDevSq += diff * diff * float64(s.count) / float64(n)
	s.excessLoad += excessLoad
	if excessLoad > 0 {
		s.overloaded++
	}
	s.count = n

	return s
}

// Len returns the number of individuals folded into the summary.
func (s Stats) Len() int {
	return s.count
}

// MinCost returns the lowest penalized cost seen.
func (s Stats) MinCost() float64 {
	return s.minCost
}

// MaxCost returns the highest penalized cost seen.
func (s Stats) MaxCost() float64 {
	return s.maxCost
}

// MeanCost returns the average penalized cost.
func (s Stats) MeanCost() float64 {
	return s.meanCost
}

// StdDeviation returns the population standard deviation of the penalized
// cost.
func (s Stats) StdDeviation() float64 {
	if s.count == 0 {
		return 0
	}
	return math.Sqrt(s.costDevSq / float64(s.count))
}

// ExcessLoad returns the summed excess load across every folded
// individual; zero for a feasible subpopulation.
func (s Stats) ExcessLoad() float64 {
	return s.excessLoad
}

// Overloaded returns how many folded individuals carry any excess load.
func (s Stats) Overloaded() int {
	return s.overloaded
}

// String returns a one-line human-readable summary.
func (s Stats) String() string {
	if s.overloaded == 0 {
		return fmt.Sprintf("n=%d min=%.2f mean=%.2f max=%.2f sd=%.2f",
			s.count, s.minCost, s.meanCost, s.maxCost, s.StdDeviation())
	}
	return fmt.Sprintf("n=%d min=%.2f mean=%.2f max=%.2f sd=%.2f overloaded=%d excess=%.1f",
		s.count, s.minCost, s.meanCost, s.maxCost, s.StdDeviation(), s.overloaded, s.excessLoad)
}
