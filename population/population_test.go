package population_test

import (
	"testing"

	"github.com/jpjj/cvrp-hgs/individual"
	"github.com/jpjj/cvrp-hgs/population"
	"github.com/jpjj/cvrp-hgs/problem"
	"github.com/jpjj/cvrp-hgs/split"
	"github.com/stretchr/testify/require"
)

func mustProblem(t *testing.T) *problem.Problem {
	t.Helper()
	coord := []problem.Point{{0, 0}, {10, 0}, {0, 10}, {-10, 0}, {0, -10}, {5, 5}}
	demand := []float64{0, 1, 1, 1, 1, 1}
	p, err := problem.New("t", 3, 0, coord, demand)
	require.NoError(t, err)
	return p
}

func infeasibleIndividual(t *testing.T, p *problem.Problem, penalty float64) *individual.Individual {
	t.Helper()
	ind := &individual.Individual{
		Chromosome: []int{1, 2, 3, 4, 5},
		Routes: []split.Route{
			{Customers: []int{1, 2, 3, 4, 5}, Load: 5, Distance: 100},
		},
	}
	ind.Recost(p, penalty)
	require.False(t, ind.IsFeasible)
	return ind
}

func TestRankRemovesDuplicateChromosomes(t *testing.T) {
	p := mustProblem(t)
	sub := population.Subpopulation{NClose: 2, NElite: 1}
	a := individual.New([]int{1, 2, 3, 4, 5}, p, 10)
	b := individual.New([]int{1, 2, 3, 4, 5}, p, 10) // same chromosome, distinct pointer
	c := individual.New([]int{5, 4, 3, 2, 1}, p, 10)
	sub.Insert(a)
	sub.Insert(b)
	sub.Insert(c)

	sub.Rank()
	require.Len(t, sub.Individuals, 2)
}

func TestPopulationInsertRoutesByFeasibility(t *testing.T) {
	p := mustProblem(t)
	pop := population.New(10, 10, 2, 1)

	feasible := individual.New([]int{1, 2, 3, 4, 5}, p, 10)
	infeasible := infeasibleIndividual(t, p, 10)

	pop.Insert(feasible)
	pop.Insert(infeasible)

	require.Len(t, pop.Feasible.Individuals, 1)
	require.Len(t, pop.Infeasible.Individuals, 1)
}

func TestPopulationPruneOverflowEnforcesSizeBound(t *testing.T) {
	p := mustProblem(t)
	pop := population.New(3, 2, 2, 1)

	perms := [][]int{
		{1, 2, 3, 4, 5},
		{2, 1, 3, 4, 5},
		{3, 2, 1, 4, 5},
		{4, 2, 3, 1, 5},
		{5, 2, 3, 4, 1},
		{1, 3, 2, 4, 5},
	}
	for _, perm := range perms {
		pop.Insert(individual.New(perm, p, 10))
	}

	require.LessOrEqual(t, len(pop.Feasible.Individuals), pop.MinSize+pop.GenerationSize)
}

func TestBestFeasibleReturnsLowestCost(t *testing.T) {
	p := mustProblem(t)
	pop := population.New(10, 10, 2, 1)

	var best *individual.Individual
	for _, perm := range [][]int{{1, 2, 3, 4, 5}, {5, 4, 3, 2, 1}, {2, 4, 1, 3, 5}} {
		ind := individual.New(perm, p, 10)
		if best == nil || ind.CostPenalized < best.CostPenalized {
			best = ind
		}
		pop.Insert(ind)
	}

	got := pop.BestFeasible()
	require.NotNil(t, got)
	require.InDelta(t, best.CostPenalized, got.CostPenalized, 1e-9)
}
