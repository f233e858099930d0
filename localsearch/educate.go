package localsearch

import (
	"math/rand/v2"

	"github.com/jpjj/cvrp-hgs/individual"
)

// Educate runs local search to a local optimum against ind's current
// routes and writes the result back, recomputing costs and feasibility
// under penalty. This is the sole entry point the genetic engine calls;
// build/run/extract stay unexported so callers cannot desynchronize them.
func (e *Engine) Educate(ind *individual.Individual, penalty float64, rng *rand.Rand) {
	e.build(ind.Routes, penalty)
	e.run(rng)
	ind.Routes = e.extract()
	ind.Recost(e.prob, penalty)
}
