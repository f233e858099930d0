// Package sel provides parent selection for the genetic loop.
//
// HGS selects parents by binary tournament on biased fitness, where lower
// is better (biased fitness combines a cost rank and a diversity rank; see
// the population package). Selection takes an explicit *rand.Rand so a
// driver holding the search's one PRNG instance can reproduce a run exactly
// from a fixed seed.
package sel
