package perm

import (
	"math/rand/v2"
)

// OrderX performs order crossover (OX): it inherits a random contiguous
// slice of one parent verbatim, then fills the remaining positions with the
// other parent's customers in the order they appear, skipping any already
// placed. This is the crossover HGS uses to combine two giant tours.
func OrderX(rng *rand.Rand, child, mom, dad []int) {
	if len(child) < 2 {
		copy(child, mom)
		return
	}
	if rng.Float64() < 0.5 {
		mom, dad = dad, mom
	}
	sub, left, right := RandSlice(rng, mom)
	copy(child[left:right], sub)
	i, j := right, right
	for i < left || right <= i {
		if Search(sub, dad[j]) == -1 {
			child[i] = dad[j]
			i = (i + 1) % len(child)
		}
		j = (j + 1) % len(child)
	}
}
