// Package population maintains the two subpopulations (feasible,
// infeasible) HGS searches over, ranked by a fitness that balances cost
// against diversity, with survivor selection on overflow.
package population

import (
	"sort"

	"github.com/jpjj/cvrp-hgs/individual"
)

// Subpopulation holds individuals ranked by biased fitness, best first.
// nClose and nElite parameterize the diversity contribution to fitness;
// see Rank.
type Subpopulation struct {
	Individuals []*individual.Individual
	NClose      int
	NElite      int
}

// Insert appends ind without ranking; call Rank to refresh order and
// Prune to enforce the size bound afterward.
func (s *Subpopulation) Insert(ind *individual.Individual) {
	s.Individuals = append(s.Individuals, ind)
}

// CostPoint is the cost decomposition of one individual, reported to
// callers that summarize a subpopulation's spread (e.g. the driver's
// per-iteration log line via a Stats accumulator).
type CostPoint struct {
	Penalized  float64
	ExcessLoad float64
}

// Costs returns the cost decomposition of every individual, in no
// particular order.
func (s *Subpopulation) Costs() []CostPoint {
	costs := make([]CostPoint, len(s.Individuals))
	for i, ind := range s.Individuals {
		costs[i] = CostPoint{Penalized: ind.CostPenalized, ExcessLoad: ind.ExcessLoad}
	}
	return costs
}

// Best returns the individual with the lowest CostPenalized, or nil if
// the subpopulation is empty.
func (s *Subpopulation) Best() *individual.Individual {
	if len(s.Individuals) == 0 {
		return nil
	}
	best := s.Individuals[0]
	for _, ind := range s.Individuals[1:] {
		if ind.CostPenalized < best.CostPenalized {
			best = ind
		}
	}
	return best
}

// Rank removes duplicate chromosomes (by hash, keeping the first copy
// seen), then sorts Individuals by biased fitness, best (lowest) first.
// Biased fitness combines a cost rank r_c with a diversity rank r_d:
//
//	fitness = r_c + (1 - nElite/|subpop|) * r_d
//
// where r_d ranks individuals by diversity score descending (the most
// diverse individual gets r_d=0), and diversity score is the mean
// broken-pairs distance to each individual's NClose closest neighbors.
func (s *Subpopulation) Rank() {
	s.dedup()
	n := len(s.Individuals)
	if n == 0 {
		return
	}

	byCost := append([]*individual.Individual(nil), s.Individuals...)
	sort.Slice(byCost, func(i, j int) bool {
		return byCost[i].CostPenalized < byCost[j].CostPenalized
	})
	costRank := make(map[*individual.Individual]int, n)
	for i, ind := range byCost {
		costRank[ind] = i
	}

	diversity := s.diversityScores()
	byDiversity := append([]*individual.Individual(nil), s.Individuals...)
	sort.Slice(byDiversity, func(i, j int) bool {
		return diversity[byDiversity[i]] > diversity[byDiversity[j]]
	})
	diversityRank := make(map[*individual.Individual]int, n)
	for i, ind := range byDiversity {
		diversityRank[ind] = i
	}

	elitePressure := 1 - float64(s.NElite)/float64(n)
	for _, ind := range s.Individuals {
		ind.BiasedFitness = float64(costRank[ind]) + elitePressure*float64(diversityRank[ind])
	}

	sort.Slice(s.Individuals, func(i, j int) bool {
		return s.Individuals[i].BiasedFitness < s.Individuals[j].BiasedFitness
	})
}

// diversityScores computes, for every individual, the mean broken-pairs
// distance to its NClose closest neighbors in the subpopulation.
func (s *Subpopulation) diversityScores() map[*individual.Individual]float64 {
	scores := make(map[*individual.Individual]float64, len(s.Individuals))
	for _, a := range s.Individuals {
		dists := make([]float64, 0, len(s.Individuals)-1)
		for _, b := range s.Individuals {
			if a == b {
				continue
			}
			dists = append(dists, a.BrokenPairsDistance(b))
		}
		sort.Float64s(dists)
		k := s.NClose
		if k > len(dists) {
			k = len(dists)
		}
		if k == 0 {
			scores[a] = 0
			continue
		}
		var sum float64
		for _, d := range dists[:k] {
			sum += d
		}
		scores[a] = sum / float64(k)
	}
	return scores
}

// dedup removes individuals whose chromosome hash has already been seen,
// keeping the first occurrence.
func (s *Subpopulation) dedup() {
	seen := make(map[uint64]bool, len(s.Individuals))
	kept := s.Individuals[:0]
	for _, ind := range s.Individuals {
		h := ind.Hash()
		if seen[h] {
			continue
		}
		seen[h] = true
		kept = append(kept, ind)
	}
	s.Individuals = kept
}

// Prune trims the subpopulation down to at most mu individuals, dropping
// from the worst (tail) end. Rank must be called first so the tail holds
// the worst biased fitness.
func (s *Subpopulation) Prune(mu int) {
	if len(s.Individuals) > mu {
		s.Individuals = s.Individuals[:mu]
	}
}

// Population is the full HGS population: a feasible and an infeasible
// subpopulation, each holding at most MinSize+GenerationSize individuals
// after every Insert; a subpopulation that grows past that bound is cut
// back to at most MinSize.
type Population struct {
	Feasible   Subpopulation
	Infeasible Subpopulation

	MinSize        int
	GenerationSize int
}

// New builds an empty Population with the given sizing and diversity
// parameters.
func New(minSize, generationSize, nClose, nElite int) *Population {
	return &Population{
		Feasible:       Subpopulation{NClose: nClose, NElite: nElite},
		Infeasible:     Subpopulation{NClose: nClose, NElite: nElite},
		MinSize:        minSize,
		GenerationSize: generationSize,
	}
}

// Insert routes ind into the feasible or infeasible subpopulation
// according to ind.IsFeasible, then prunes each subpopulation that has
// grown past MinSize+GenerationSize.
func (p *Population) Insert(ind *individual.Individual) {
	if ind.IsFeasible {
		p.Feasible.Insert(ind)
	} else {
		p.Infeasible.Insert(ind)
	}
	p.pruneOverflow()
}

func (p *Population) pruneOverflow() {
	max := p.MinSize + p.GenerationSize
	if len(p.Feasible.Individuals) > max {
		p.Feasible.Rank()
		p.Feasible.Prune(p.MinSize)
	}
	if len(p.Infeasible.Individuals) > max {
		p.Infeasible.Rank()
		p.Infeasible.Prune(p.MinSize)
	}
}

// BestFeasible returns the best individual currently in the feasible
// subpopulation, or nil if none has been inserted yet. Callers that need
// the best ever produced (pruning may have discarded it) track their own
// snapshot; see genetic.Engine.
func (p *Population) BestFeasible() *individual.Individual {
	return p.Feasible.Best()
}

// FeasibleCosts returns the cost decomposition of every individual in the
// feasible subpopulation.
func (p *Population) FeasibleCosts() []CostPoint {
	return p.Feasible.Costs()
}

// InfeasibleCosts returns the cost decomposition of every individual in
// the infeasible subpopulation.
func (p *Population) InfeasibleCosts() []CostPoint {
	return p.Infeasible.Costs()
}

// Size returns the combined size of both subpopulations.
func (p *Population) Size() int {
	return len(p.Feasible.Individuals) + len(p.Infeasible.Individuals)
}

// All returns every individual across both subpopulations, used as the
// tournament pool for parent selection.
func (p *Population) All() []*individual.Individual {
	all := make([]*individual.Individual, 0, p.Size())
	all = append(all, p.Feasible.Individuals...)
	all = append(all, p.Infeasible.Individuals...)
	return all
}
