// Package config holds the search tunables read by the driver and the
// genetic engine (which passes the relevant values on to the localsearch
// and population packages), mirroring the Options/DefaultOptions
// convention used by katalvlaran/lvlath's tsp package.
package config

import "time"

// Config holds every tunable of the HGS search. The zero value is not
// meaningful; build one with Default and override fields as needed.
type Config struct {
	// Granularity is the number of nearest neighbors per customer
	// considered by local search moves involving that customer (Γ).
	Granularity int

	// MinPopSize is the target minimum subpopulation size (μ).
	MinPopSize int

	// GenerationSize is the number of individuals generated before
	// survivor selection prunes back to MinPopSize (λ_g).
	GenerationSize int

	// NElite is the number of elite individuals that anchor biased
	// fitness toward pure cost ranking (n_elite).
	NElite int

	// NClose is the number of closest individuals averaged over when
	// computing an individual's diversity contribution.
	NClose int

	// PRepair is the probability of attempting a penalty-boosted repair
	// pass on an infeasible child before giving up on feasibility.
	PRepair float64

	// AdaptInterval is the number of iterations between penalty
	// coefficient (λ) adaptations.
	AdaptInterval int

	// ItDiv is the number of iterations without improvement to the best
	// feasible individual before diversification triggers.
	ItDiv int

	// InitialPenalty is the starting value of λ, the per-unit-of-excess-load
	// penalty coefficient. Q/10 is the recommended starting point.
	InitialPenalty float64

	// MinPenalty and MaxPenalty clamp λ across the whole run.
	MinPenalty float64
	MaxPenalty float64

	// TimeLimit bounds wall-clock search time. Zero means no limit (only
	// MaxIterNoImprove applies).
	TimeLimit time.Duration

	// MaxIterNoImprove stops the search after this many iterations without
	// an improvement to the best feasible individual.
	MaxIterNoImprove int

	// Seed seeds the driver's single PRNG instance. Identical seed +
	// config + instance produces an identical result.
	Seed uint64
}

// Default returns a fully populated Config with the defaults named in the
// external interface specification:
//   - Granularity 20, MinPopSize 25, GenerationSize 40, NElite 4, NClose 5
//   - PRepair 0.5, AdaptInterval 100, ItDiv 4000
//   - MaxIterNoImprove 20000, TimeLimit 60s
//   - Penalty bounds [0.1, 100000]; InitialPenalty must be set from the
//     instance's capacity (Q/10) by the caller once Q is known.
func Default() Config {
	return Config{
		Granularity:      20,
		MinPopSize:       25,
		GenerationSize:   40,
		NElite:           4,
		NClose:           5,
		PRepair:          0.5,
		AdaptInterval:    100,
		ItDiv:            4000,
		MinPenalty:       0.1,
		MaxPenalty:       100000,
		TimeLimit:        60 * time.Second,
		MaxIterNoImprove: 20000,
		Seed:             0,
	}
}
