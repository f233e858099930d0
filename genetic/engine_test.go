package genetic_test

import (
	"math/rand/v2"
	"testing"

	"github.com/jpjj/cvrp-hgs/config"
	"github.com/jpjj/cvrp-hgs/genetic"
	"github.com/jpjj/cvrp-hgs/problem"
	"github.com/stretchr/testify/require"
)

func smallProblem(t *testing.T) *problem.Problem {
	t.Helper()
	coord := []problem.Point{
		{0, 0}, {10, 0}, {0, 10}, {-10, 0}, {0, -10},
		{7, 7}, {-7, 7}, {-7, -7}, {7, -7}, {3, 0},
	}
	demand := []float64{0, 1, 2, 1, 2, 1, 1, 2, 1, 2}
	p, err := problem.New("t", 4, 0, coord, demand)
	require.NoError(t, err)
	return p
}

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.MinPopSize = 8
	cfg.GenerationSize = 6
	cfg.NElite = 2
	cfg.NClose = 3
	cfg.Granularity = 5
	cfg.AdaptInterval = 5
	cfg.ItDiv = 3
	cfg.InitialPenalty = 1
	return cfg
}

func newRNG() *rand.Rand {
	return rand.New(rand.NewChaCha8([32]byte{11}))
}

func TestInitializePopulatesToMinPopSize(t *testing.T) {
	p := smallProblem(t)
	e := genetic.New(p, smallConfig())
	e.Initialize(newRNG())
	require.Equal(t, smallConfig().MinPopSize, e.PopulationSize())
}

func TestStepNeverRegressesBestFeasibleCost(t *testing.T) {
	p := smallProblem(t)
	e := genetic.New(p, smallConfig())
	rng := newRNG()
	e.Initialize(rng)

	var prevCost float64
	havePrev := false
	for i := 0; i < 50; i++ {
		e.Step(rng)
		best := e.BestFeasible()
		if best == nil {
			continue
		}
		if havePrev {
			require.LessOrEqual(t, best.CostFeasible, prevCost+1e-9)
		}
		prevCost = best.CostFeasible
		havePrev = true
	}
	require.True(t, havePrev, "expected at least one feasible individual across 50 iterations")
}

func TestPenaltyStaysWithinBounds(t *testing.T) {
	p := smallProblem(t)
	cfg := smallConfig()
	e := genetic.New(p, cfg)
	rng := newRNG()
	e.Initialize(rng)

	for i := 0; i < 40; i++ {
		e.Step(rng)
		require.GreaterOrEqual(t, e.Penalty(), cfg.MinPenalty)
		require.LessOrEqual(t, e.Penalty(), cfg.MaxPenalty)
	}
}

func TestIterationCounterAdvances(t *testing.T) {
	p := smallProblem(t)
	e := genetic.New(p, smallConfig())
	rng := newRNG()
	e.Initialize(rng)
	for i := 1; i <= 5; i++ {
		e.Step(rng)
		require.Equal(t, i, e.Iteration())
	}
}

func TestDeterministicGivenSameSeed(t *testing.T) {
	p := smallProblem(t)
	run := func() float64 {
		e := genetic.New(p, smallConfig())
		rng := rand.New(rand.NewChaCha8([32]byte{5}))
		e.Initialize(rng)
		for i := 0; i < 30; i++ {
			e.Step(rng)
		}
		best := e.BestFeasible()
		if best == nil {
			return -1
		}
		return best.CostFeasible
	}
	require.Equal(t, run(), run())
}
