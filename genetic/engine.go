// Package genetic runs the per-iteration HGS loop: parent selection,
// order crossover, education, repair, penalty adaptation, and
// diversification, over a population.Population.
package genetic

import (
	"math/rand/v2"

	"github.com/jpjj/cvrp-hgs/config"
	"github.com/jpjj/cvrp-hgs/individual"
	"github.com/jpjj/cvrp-hgs/localsearch"
	"github.com/jpjj/cvrp-hgs/perm"
	"github.com/jpjj/cvrp-hgs/population"
	"github.com/jpjj/cvrp-hgs/problem"
	"github.com/jpjj/cvrp-hgs/sel"
)

// Engine owns one run's population and local-search scratch space. It
// holds no randomness itself; every method that samples takes the
// driver's *rand.Rand explicitly.
type Engine struct {
	prob    *problem.Problem
	cfg     config.Config
	pop     *population.Population
	search  *localsearch.Engine
	penalty float64

	iteration        int
	sinceImprovement int

	// best and bestInfeasible are clones of the best individuals ever
	// produced, kept outside the population so survivor selection and
	// diversification can never lose them: the reported best-feasible
	// cost is non-increasing over iterations.
	best           *individual.Individual
	bestInfeasible *individual.Individual
	improvedInStep bool

	windowTotal    int
	windowFeasible int
}

// New builds an Engine with an empty population; call Initialize before
// the first Step.
func New(prob *problem.Problem, cfg config.Config) *Engine {
	return &Engine{
		prob:    prob,
		cfg:     cfg,
		pop:     population.New(cfg.MinPopSize, cfg.GenerationSize, cfg.NClose, cfg.NElite),
		search:  localsearch.NewEngine(prob, cfg.Granularity),
		penalty: cfg.InitialPenalty,
	}
}

// Initialize seeds the population with MinPopSize random chromosomes,
// each educated to a local optimum before insertion.
func (e *Engine) Initialize(rng *rand.Rand) {
	for i := 0; i < e.cfg.MinPopSize; i++ {
		ind := e.randomEducated(rng)
		e.pop.Insert(ind)
		e.recordFeasibility(ind.IsFeasible)
	}
}

func (e *Engine) randomEducated(rng *rand.Rand) *individual.Individual {
	chromosome := perm.New(rng, e.prob.N)
	for i := range chromosome {
		chromosome[i]++ // perm.New draws from [0,n); customer ids are [1,n]
	}
	ind := individual.New(chromosome, e.prob, e.penalty)
	e.search.Educate(ind, e.penalty, rng)
	e.noteBest(ind)
	return ind
}

// noteBest snapshots ind if it beats the best (in)feasible individual seen
// so far. Snapshots are clones: the population is free to discard the
// originals during pruning or diversification.
func (e *Engine) noteBest(ind *individual.Individual) {
	if ind.IsFeasible {
		if e.best == nil || ind.CostFeasible < e.best.CostFeasible-1e-9 {
			e.best = ind.Clone()
			e.improvedInStep = true
		}
		return
	}
	if e.bestInfeasible == nil || ind.CostPenalized < e.bestInfeasible.CostPenalized {
		e.bestInfeasible = ind.Clone()
	}
}

// Step runs one iteration of the genetic loop and reports whether the
// best feasible cost improved.
func (e *Engine) Step(rng *rand.Rand) bool {
	e.iteration++
	e.improvedInStep = false

	e.pop.Feasible.Rank()
	e.pop.Infeasible.Rank()
	pool := e.tournamentPool()

	p1 := sel.BinaryTournament(rng, pool)
	p2 := sel.BinaryTournament(rng, pool)

	child := make([]int, e.prob.N)
	perm.OrderX(rng, child, p1.Chromosome, p2.Chromosome)

	ind := individual.New(child, e.prob, e.penalty)
	e.search.Educate(ind, e.penalty, rng)

	e.insertWithRepair(ind, rng)
	e.adaptPenalty()

	if e.improvedInStep {
		e.sinceImprovement = 0
	} else {
		e.sinceImprovement++
	}
	if e.sinceImprovement >= e.cfg.ItDiv {
		e.diversify(rng)
		e.sinceImprovement = 0
	}
	return e.improvedInStep
}

func (e *Engine) tournamentPool() []sel.Candidate[*individual.Individual] {
	all := e.pop.All()
	pool := make([]sel.Candidate[*individual.Individual], len(all))
	for i, ind := range all {
		pool[i] = sel.Candidate[*individual.Individual]{Value: ind, Fitness: ind.BiasedFitness}
	}
	return pool
}

// insertWithRepair inserts a feasible child directly. An infeasible child
// is, with probability PRepair, re-educated under a 10x boosted penalty;
// if that repair yields a feasible individual it is inserted into the
// feasible subpopulation under the restored penalty. Either way, the
// original infeasible child is always inserted into the infeasible
// subpopulation.
func (e *Engine) insertWithRepair(ind *individual.Individual, rng *rand.Rand) {
	if ind.IsFeasible {
		e.noteBest(ind)
		e.pop.Insert(ind)
		e.recordFeasibility(true)
		return
	}

	if rng.Float64() < e.cfg.PRepair {
		boosted := e.penalty * 10
		if boosted > e.cfg.MaxPenalty {
			boosted = e.cfg.MaxPenalty
		}
		repaired := ind.Clone()
		e.search.Educate(repaired, boosted, rng)
		if repaired.IsFeasible {
			repaired.Recost(e.prob, e.penalty)
			e.noteBest(repaired)
			e.pop.Insert(repaired)
		}
	}

	e.noteBest(ind)
	e.pop.Insert(ind)
	e.recordFeasibility(false)
}

func (e *Engine) recordFeasibility(feasible bool) {
	e.windowTotal++
	if feasible {
		e.windowFeasible++
	}
}

// adaptPenalty reacts every AdaptInterval iterations to the fraction of
// recently inserted children that were feasible: too few and λ rises,
// making infeasibility costlier; too many and λ falls, loosening the
// search back toward infeasible territory where it can find shortcuts.
func (e *Engine) adaptPenalty() {
	if e.cfg.AdaptInterval <= 0 || e.iteration%e.cfg.AdaptInterval != 0 || e.windowTotal == 0 {
		return
	}
	f := float64(e.windowFeasible) / float64(e.windowTotal)
	switch {
	case f < 0.05:
		e.penalty *= 1.2
	case f > 0.25:
		e.penalty /= 1.2
	}
	if e.penalty < e.cfg.MinPenalty {
		e.penalty = e.cfg.MinPenalty
	}
	if e.penalty > e.cfg.MaxPenalty {
		e.penalty = e.cfg.MaxPenalty
	}
	e.windowTotal, e.windowFeasible = 0, 0
}

// diversify keeps each subpopulation's best MinPopSize/3 individuals and
// regenerates the rest from fresh random chromosomes.
func (e *Engine) diversify(rng *rand.Rand) {
	keep := e.cfg.MinPopSize / 3
	e.pop.Feasible.Rank()
	e.pop.Infeasible.Rank()
	if len(e.pop.Feasible.Individuals) > keep {
		e.pop.Feasible.Individuals = e.pop.Feasible.Individuals[:keep]
	}
	if len(e.pop.Infeasible.Individuals) > keep {
		e.pop.Infeasible.Individuals = e.pop.Infeasible.Individuals[:keep]
	}
	for e.pop.Size() < e.cfg.MinPopSize {
		ind := e.randomEducated(rng)
		e.pop.Insert(ind)
		e.recordFeasibility(ind.IsFeasible)
	}
}

// BestFeasible returns the best feasible individual found so far, or nil.
// The returned individual is a snapshot owned by the engine: it survives
// pruning and diversification, so its cost never regresses.
func (e *Engine) BestFeasible() *individual.Individual {
	return e.best
}

// BestInfeasible returns the lowest-penalized-cost infeasible individual
// ever produced, used to report a result when the search never finds a
// feasible one.
func (e *Engine) BestInfeasible() *individual.Individual {
	return e.bestInfeasible
}

// Iteration returns the number of Step calls so far.
func (e *Engine) Iteration() int { return e.iteration }

// IterationsSinceImprovement returns how many Step calls have passed
// since the best feasible cost last improved.
func (e *Engine) IterationsSinceImprovement() int { return e.sinceImprovement }

// Penalty returns the current value of λ.
func (e *Engine) Penalty() float64 { return e.penalty }

// PopulationSize returns the combined size of both subpopulations.
func (e *Engine) PopulationSize() int { return e.pop.Size() }

// FeasibleCosts returns the cost decomposition of every individual in the
// feasible subpopulation, for callers that summarize cost spread (e.g.
// the driver's logging via a Stats accumulator).
func (e *Engine) FeasibleCosts() []population.CostPoint { return e.pop.FeasibleCosts() }

// InfeasibleCosts returns the cost decomposition of every individual in
// the infeasible subpopulation.
func (e *Engine) InfeasibleCosts() []population.CostPoint { return e.pop.InfeasibleCosts() }
