package sel

import "math/rand/v2"

// Candidate pairs a value with a fitness score. Lower fitness wins.
type Candidate[T any] struct {
	Value   T
	Fitness float64
}

// BinaryTournament draws two distinct candidates at random from pool and
// returns the value with the lower fitness. With a single candidate it is
// returned unconditionally.
func BinaryTournament[T any](rng *rand.Rand, pool []Candidate[T]) T {
	x := rng.IntN(len(pool))
	y := x
	for y == x && len(pool) > 1 {
		y = rng.IntN(len(pool))
	}
	if pool[y].Fitness < pool[x].Fitness {
		return pool[y].Value
	}
	return pool[x].Value
}
