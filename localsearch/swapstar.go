package localsearch

import (
	"math"

	"github.com/jpjj/cvrp-hgs/problem"
)

// sectorHalfWidth bounds how far two routes' mean polar angles may differ,
// in turns, before SWAP* skips the pair outright.
const sectorHalfWidth = 0.25

// insertionSlot is one candidate position to insert a customer into a
// route: after the customer named 'after' (0 meaning "at the very head,
// right after the depot"), at the given additional distance cost.
type insertionSlot struct {
	after int
	delta float64
}

// routeInsertCache holds the top-3 insertion slots computed per candidate
// customer for one route, valid as of 'generation'. Invalidated wholesale
// whenever the route's timestamp advances, since removing even one
// customer from the route can change any of the top-3 positions.
type routeInsertCache struct {
	generation int64
	results    map[int][3]insertionSlot
}

// bestInsertions returns the three cheapest positions to insert customer x
// into route rid, recomputing from scratch the first time x is queried
// against the route's current generation.
func (e *Engine) bestInsertions(rid, x int) [3]insertionSlot {
	c := &e.cache[rid]
	if c.generation != e.routes[rid].timestamp || c.results == nil {
		c.generation = e.routes[rid].timestamp
		c.results = make(map[int][3]insertionSlot)
	}
	if slots, ok := c.results[x]; ok {
		return slots
	}
	slots := e.computeBestInsertions(rid, x)
	c.results[x] = slots
	return slots
}

func (e *Engine) computeBestInsertions(rid, x int) [3]insertionSlot {
	var best [3]insertionSlot
	for i := range best {
		best[i] = insertionSlot{delta: math.Inf(1)}
	}
	consider := func(after, next int) {
		var cost float64
		switch {
		case after == 0 && next == 0:
			cost = 2 * e.dist(0, x) // empty route: depot -> x -> depot
		case after == 0:
			cost = e.dist(0, x) + e.dist(x, next) - e.dist(0, next)
		case next == 0:
			cost = e.dist(after, x) + e.dist(x, 0) - e.dist(after, 0)
		default:
			cost = e.dist(after, x) + e.dist(x, next) - e.dist(after, next)
		}
		for i := range best {
			if cost < best[i].delta {
				copy(best[i+1:], best[i:len(best)-1])
				best[i] = insertionSlot{after: after, delta: cost}
				return
			}
		}
	}

	r := &e.routes[rid]
	if r.numNodes == 0 {
		consider(0, 0)
		return best
	}
	consider(0, r.head)
	for c := r.head; c != 0; c = e.nodes[c].next {
		consider(c, e.nodes[c].next)
	}
	return best
}

// bestValidInsertion is bestInsertions filtered against the removal of
// 'exclude' from the route: both the slot anchored on exclude and the slot
// anchored on exclude's predecessor price an edge through exclude, so
// removing it invalidates at most 2 of the cached top-3 (which is why a
// depth of 3 suffices). Falls back to a fresh computation if every cached
// slot is invalidated.
func (e *Engine) bestValidInsertion(rid, x, exclude int) insertionSlot {
	if e.routes[rid].numNodes == 1 {
		// exclude is the route's only customer; x lands alone.
		return insertionSlot{after: 0, delta: 2 * e.dist(0, x)}
	}
	pe := e.pred(exclude)
	for _, s := range e.bestInsertions(rid, x) {
		if s.after != exclude && s.after != pe && !math.IsInf(s.delta, 1) {
			return s
		}
	}
	for _, s := range e.computeBestInsertions(rid, x) {
		if s.after != exclude && s.after != pe && !math.IsInf(s.delta, 1) {
			return s
		}
	}
	return insertionSlot{delta: math.Inf(1)}
}

// swapStarPass runs SWAP* across every unordered pair of distinct active
// routes whose polar sectors intersect, once per call (each SWAP* moves a
// customer in both directions, so one order per pair covers both). Returns
// true if any move was applied.
func (e *Engine) swapStarPass() bool {
	improved := false
	for r1 := 1; r1 < len(e.routes); r1++ {
		if !e.routes[r1].active || e.routes[r1].numNodes == 0 {
			continue
		}
		for r2 := r1 + 1; r2 < len(e.routes); r2++ {
			if !e.routes[r2].active || e.routes[r2].numNodes == 0 {
				continue
			}
			if !problem.SectorsIntersect(e.routes[r1].meanAngle(), e.routes[r2].meanAngle(), sectorHalfWidth) {
				continue
			}
			if e.swapStarRoutePair(r1, r2) {
				improved = true
			}
		}
	}
	return improved
}

// swapStarRoutePair tries every (u,v) customer pair between two routes,
// applying the first improving SWAP* found for each u before moving on.
func (e *Engine) swapStarRoutePair(r1, r2 int) bool {
	improved := false
	u := e.routes[r1].head
	for u != 0 {
		uNext := e.nodes[u].next
		v := e.routes[r2].head
		for v != 0 {
			vNext := e.nodes[v].next
			if e.trySwapStar(u, r1, v, r2) {
				improved = true
				break
			}
			v = vNext
		}
		u = uNext
	}
	return improved
}

// SWAP*: remove u from r1 and v from r2, then reinsert each at its best
// position in the other's route (not necessarily each other's former
// position).
func (e *Engine) trySwapStar(u, r1, v, r2 int) bool {
	removalGainU := e.dist(e.pred(u), u) + e.dist(u, e.succ(u)) - e.dist(e.pred(u), e.succ(u))
	removalGainV := e.dist(e.pred(v), v) + e.dist(v, e.succ(v)) - e.dist(e.pred(v), e.succ(v))

	slotU := e.bestValidInsertion(r2, u, v)
	slotV := e.bestValidInsertion(r1, v, u)

	delta := (slotU.delta - removalGainU) + (slotV.delta - removalGainV)

	du, dv := e.prob.Demand[u], e.prob.Demand[v]
	oldLoad1, newLoad1 := e.routes[r1].load, e.routes[r1].load-du+dv
	oldLoad2, newLoad2 := e.routes[r2].load, e.routes[r2].load-dv+du
	delta += e.penaltyDelta(oldLoad1, newLoad1, oldLoad2, newLoad2)
	if delta >= -epsilon {
		return false
	}

	e.unlink(u)
	e.unlink(v)
	e.spliceAfter(u, slotU.after, r2)
	e.spliceAfter(v, slotV.after, r1)
	e.recomputeRoute(r1)
	e.recomputeRoute(r2)
	return true
}
