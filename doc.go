// Package cvrp implements Hybrid Genetic Search (HGS) for the Capacitated
// Vehicle Routing Problem: given a depot, a set of customers with demands
// and planar coordinates, and a fleet of identical-capacity vehicles,
// partition customers into routes starting and ending at the depot that
// minimize total Euclidean distance while never exceeding vehicle capacity.
//
// The search is single-threaded and deterministic under a fixed seed. A
// Problem is built once and never mutated; a Driver owns the one PRNG
// instance and the population, and alternates crossover, education (local
// search), and penalty adaptation until a stopping criterion is met.
//
// Subpackages: split (chromosome -> routes), localsearch (the Relocate,
// Swap, 2-Opt, 2-Opt*, SWAP* neighborhoods), population (biased-fitness
// subpopulations), genetic (the generational loop), perm (permutation
// operators), sel (selection), and instance (the plain-text file format).
package cvrp
