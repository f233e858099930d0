package cvrp

import (
	"context"
	"encoding/binary"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/jpjj/cvrp-hgs/genetic"
	"github.com/jpjj/cvrp-hgs/population"
)

// Reporter receives a progress snapshot after every completed iteration.
// The metrics package implements it against Prometheus gauges/counters;
// the core depends only on this interface, never on metrics directly.
type Reporter interface {
	Report(iteration int, penalty float64, populationSize int, bestFeasibleCost float64, haveBestFeasible bool)
}

// Driver owns the single PRNG instance, the genetic engine, and the
// stopping criteria for one search run, per the single-threaded,
// synchronous concurrency model.
type Driver struct {
	cfg      Config
	rng      *rand.Rand
	engine   *genetic.Engine
	reporter Reporter
	log      *zap.Logger
}

// NewDriver builds a Driver for prob under cfg. cfg.Seed seeds the
// driver's one PRNG instance, via math/rand/v2's ChaCha8 generator (the
// stdlib stand-in for the ChaCha12 source named in the design notes).
func NewDriver(prob *Problem, cfg Config) *Driver {
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:8], cfg.Seed)
	return &Driver{
		cfg:    cfg,
		rng:    rand.New(rand.NewChaCha8(seed)),
		engine: genetic.New(prob, cfg),
		log:    zap.NewNop(),
	}
}

// SetReporter installs an optional progress reporter; Run calls it once
// per completed iteration.
func (d *Driver) SetReporter(r Reporter) {
	d.reporter = r
}

// SetLogger installs a structured logger for lifecycle and per-iteration
// events. Core packages (split, localsearch, population, genetic) stay
// logger-free; only the Driver logs. A nil logger is ignored; the Driver
// defaults to a no-op logger so Run is always safe to call without one.
func (d *Driver) SetLogger(log *zap.Logger) {
	if log != nil {
		d.log = log
	}
}

// Run drives the genetic loop until one of the stopping criteria fires:
// ctx is cancelled, TimeLimit elapses, or MaxIterNoImprove iterations pass
// without an improvement to the best feasible individual. It returns the
// best feasible Solution found, or the best infeasible one plus
// ErrNoFeasibleFound if none was ever produced.
func (d *Driver) Run(ctx context.Context) (*Solution, error) {
	d.log.Info("search starting",
		zap.Int("minPopSize", d.cfg.MinPopSize),
		zap.Int("generationSize", d.cfg.GenerationSize),
		zap.Uint64("seed", d.cfg.Seed))
	d.engine.Initialize(d.rng)
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			d.log.Info("search stopping: context cancelled", zap.Int("iteration", d.engine.Iteration()))
			return d.result()
		default:
		}
		if d.cfg.TimeLimit > 0 && time.Since(start) >= d.cfg.TimeLimit {
			d.log.Info("search stopping: time limit reached", zap.Int("iteration", d.engine.Iteration()))
			return d.result()
		}
		if d.cfg.MaxIterNoImprove > 0 && d.engine.IterationsSinceImprovement() >= d.cfg.MaxIterNoImprove {
			d.log.Info("search stopping: no improvement", zap.Int("iteration", d.engine.Iteration()))
			return d.result()
		}

		d.engine.Step(d.rng)
		d.report()
	}
}

func (d *Driver) report() {
	best := d.engine.BestFeasible()
	var cost float64
	if best != nil {
		cost = best.CostFeasible
	}
	if ce := d.log.Check(zap.DebugLevel, "iteration complete"); ce != nil {
		feasibleStats := costStats(d.engine.FeasibleCosts())
		infeasibleStats := costStats(d.engine.InfeasibleCosts())
		ce.Write(
			zap.Int("iteration", d.engine.Iteration()),
			zap.Float64("penalty", d.engine.Penalty()),
			zap.Int("populationSize", d.engine.PopulationSize()),
			zap.Float64("bestFeasibleCost", cost),
			zap.Bool("haveBestFeasible", best != nil),
			zap.String("feasibleSubpop", feasibleStats.String()),
			zap.String("infeasibleSubpop", infeasibleStats.String()),
		)
	}
	if d.reporter == nil {
		return
	}
	d.reporter.Report(d.engine.Iteration(), d.engine.Penalty(), d.engine.PopulationSize(), cost, best != nil)
}

// costStats folds a subpopulation's cost decompositions into a Stats
// accumulator, used only for the driver's log line: the search itself
// never branches on these numbers.
func costStats(points []population.CostPoint) Stats {
	var s Stats
	for _, p := range points {
		s = s.Insert(p.Penalized, p.ExcessLoad)
	}
	return s
}

func (d *Driver) result() (*Solution, error) {
	if best := d.engine.BestFeasible(); best != nil {
		d.log.Info("search finished with feasible solution", zap.Float64("cost", best.CostFeasible))
		return newSolution(best), nil
	}
	d.log.Warn("search finished without a feasible solution")
	if worst := d.engine.BestInfeasible(); worst != nil {
		return newSolution(worst), ErrNoFeasibleFound
	}
	return nil, ErrNoFeasibleFound
}
