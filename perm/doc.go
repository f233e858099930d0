// Package perm provides common operators and helpers for customer-index
// permutations (giant tours, depot omitted).
//
// The crossover operators each take 3 integer slices: the "mother" and
// "father" slices provide the genetic material filled into the "child"
// slice, which the caller must allocate. Every operator that needs
// randomness takes an explicit *rand.Rand instead of reading a package
// global, so a driver holding the search's one PRNG instance can reproduce
// a run exactly from a fixed seed.
package perm
