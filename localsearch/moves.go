package localsearch

// tryMoves attempts the eight pairwise moves against (u,v) in fixed
// catalog order, applying and returning true on the first strictly
// improving one: relocate single, relocate pair (forward, reversed),
// swap single, swap pair-single, swap pair-pair, 2-opt, 2-opt*.
func (e *Engine) tryMoves(u, v int) bool {
	switch {
	case e.tryRelocateSingle(u, v):
	case e.tryRelocatePair(u, v, false):
	case e.tryRelocatePair(u, v, true):
	case e.trySwapSingle(u, v):
	case e.trySwapPairSingle(u, v):
	case e.trySwapPairPair(u, v):
	case e.try2Opt(u, v):
	case e.try2OptStar(u, v):
	default:
		return false
	}
	return true
}

func (e *Engine) pred(c int) int { return e.nodes[c].prev }
func (e *Engine) succ(c int) int { return e.nodes[c].next }

// penaltyDelta returns the change in load penalty across the two affected
// routes when oldA->newA and oldB->newB. If ra==rb, both loads change on
// the same route and the caller should pass the combined before/after
// loads instead; single-route moves compute their own delta inline.
func (e *Engine) penaltyDelta(oldA, newA, oldB, newB float64) float64 {
	return (e.loadPenalty(newA) - e.loadPenalty(oldA)) + (e.loadPenalty(newB) - e.loadPenalty(oldB))
}

// Relocate: move u to be v's successor.
func (e *Engine) tryRelocateSingle(u, v int) bool {
	if v == e.pred(u) {
		return false
	}
	ru, rv := e.nodes[u].route, e.nodes[v].route
	pu, su := e.pred(u), e.succ(u)
	vSucc := e.succ(v)

	removalGain := e.dist(pu, u) + e.dist(u, su) - e.dist(pu, su)
	insertionCost := e.dist(v, u) + e.dist(u, vSucc) - e.dist(v, vSucc)
	delta := insertionCost - removalGain

	if ru != rv {
		oldU, newU := e.routes[ru].load, e.routes[ru].load-e.prob.Demand[u]
		oldV, newV := e.routes[rv].load, e.routes[rv].load+e.prob.Demand[u]
		delta += e.penaltyDelta(oldU, newU, oldV, newV)
	}
	if delta >= -epsilon {
		return false
	}

	e.unlink(u)
	e.spliceAfter(u, v, rv)
	e.recomputeRoute(ru)
	if ru != rv {
		e.recomputeRoute(rv)
	}
	return true
}

// Relocate pair: move (u,u+) after v, forward (reversed=false) or
// with the pair's order flipped (reversed=true).
func (e *Engine) tryRelocatePair(u, v int, reversed bool) bool {
	u2 := e.succ(u)
	if u2 == 0 || v == u || v == u2 || v == e.pred(u) {
		return false
	}
	ru, rv := e.nodes[u].route, e.nodes[v].route
	pu, su2 := e.pred(u), e.succ(u2)
	vSucc := e.succ(v)

	removalGain := e.dist(pu, u) + e.dist(u2, su2) - e.dist(pu, su2)
	var insertionCost float64
	if reversed {
		insertionCost = e.dist(v, u2) + e.dist(u, vSucc) - e.dist(v, vSucc)
	} else {
		insertionCost = e.dist(v, u) + e.dist(u2, vSucc) - e.dist(v, vSucc)
	}
	delta := insertionCost - removalGain

	moved := e.prob.Demand[u] + e.prob.Demand[u2]
	if ru != rv {
		oldU, newU := e.routes[ru].load, e.routes[ru].load-moved
		oldV, newV := e.routes[rv].load, e.routes[rv].load+moved
		delta += e.penaltyDelta(oldU, newU, oldV, newV)
	}
	if delta >= -epsilon {
		return false
	}

	e.unlink(u)
	e.unlink(u2)
	if reversed {
		e.spliceAfter(u2, v, rv)
		e.spliceAfter(u, u2, rv)
	} else {
		e.spliceAfter(u, v, rv)
		e.spliceAfter(u2, u, rv)
	}
	e.recomputeRoute(ru)
	if ru != rv {
		e.recomputeRoute(rv)
	}
	return true
}

// adjacent reports whether a and b are neighbors in the linked list, in
// either direction.
func (e *Engine) adjacent(a, b int) bool {
	return e.pred(a) == b || e.succ(a) == b
}

// Swap: exchange single nodes u and v. Adjacent pairs are left to the
// relocate moves, which already cover every reordering reachable by
// relocating one node across its neighbor.
func (e *Engine) trySwapSingle(u, v int) bool {
	if e.adjacent(u, v) {
		return false
	}
	ru, rv := e.nodes[u].route, e.nodes[v].route
	pu, su := e.pred(u), e.succ(u)
	pv, sv := e.pred(v), e.succ(v)

	removalGainU := e.dist(pu, u) + e.dist(u, su) - e.dist(pu, su)
	removalGainV := e.dist(pv, v) + e.dist(v, sv) - e.dist(pv, sv)
	insertionCostU := e.dist(pv, u) + e.dist(u, sv) - e.dist(pv, sv)
	insertionCostV := e.dist(pu, v) + e.dist(v, su) - e.dist(pu, su)
	delta := (insertionCostU - removalGainV) + (insertionCostV - removalGainU)

	if ru != rv {
		du, dv := e.prob.Demand[u], e.prob.Demand[v]
		oldU, newU := e.routes[ru].load, e.routes[ru].load-du+dv
		oldV, newV := e.routes[rv].load, e.routes[rv].load-dv+du
		delta += e.penaltyDelta(oldU, newU, oldV, newV)
	}
	if delta >= -epsilon {
		return false
	}

	e.unlink(u)
	e.unlink(v)
	e.spliceAfter(v, pu, ru)
	e.spliceAfter(u, pv, rv)
	e.recomputeRoute(ru)
	if ru != rv {
		e.recomputeRoute(rv)
	}
	return true
}

// Swap pair-single: exchange the pair (u,u+) with the single node v.
func (e *Engine) trySwapPairSingle(u, v int) bool {
	u2 := e.succ(u)
	if u2 == 0 || v == u || v == u2 || e.adjacent(u, v) || e.adjacent(u2, v) {
		return false
	}
	ru, rv := e.nodes[u].route, e.nodes[v].route
	pu, su2 := e.pred(u), e.succ(u2)
	pv, sv := e.pred(v), e.succ(v)

	removalGainU := e.dist(pu, u) + e.dist(u2, su2) - e.dist(pu, su2)
	removalGainV := e.dist(pv, v) + e.dist(v, sv) - e.dist(pv, sv)
	insertionCostV := e.dist(pu, v) + e.dist(v, su2) - e.dist(pu, su2)
	insertionCostU := e.dist(pv, u) + e.dist(u2, sv) - e.dist(pv, sv)
	delta := (insertionCostU - removalGainV) + (insertionCostV - removalGainU)

	moved := e.prob.Demand[u] + e.prob.Demand[u2]
	dv := e.prob.Demand[v]
	if ru != rv {
		oldU, newU := e.routes[ru].load, e.routes[ru].load-moved+dv
		oldV, newV := e.routes[rv].load, e.routes[rv].load-dv+moved
		delta += e.penaltyDelta(oldU, newU, oldV, newV)
	}
	if delta >= -epsilon {
		return false
	}

	e.unlink(u)
	e.unlink(u2)
	e.unlink(v)
	e.spliceAfter(v, pu, ru)
	e.spliceAfter(u, pv, rv)
	e.spliceAfter(u2, u, rv)
	e.recomputeRoute(ru)
	if ru != rv {
		e.recomputeRoute(rv)
	}
	return true
}

// Swap pair-pair: exchange the pair (u,u+) with the pair (v,v+).
func (e *Engine) trySwapPairPair(u, v int) bool {
	u2, v2 := e.succ(u), e.succ(v)
	if u2 == 0 || v2 == 0 || v == u || v == u2 || v2 == u {
		return false
	}
	if e.adjacent(u, v) || e.adjacent(u, v2) || e.adjacent(u2, v) || e.adjacent(u2, v2) {
		return false
	}
	ru, rv := e.nodes[u].route, e.nodes[v].route
	pu, su2 := e.pred(u), e.succ(u2)
	pv, sv2 := e.pred(v), e.succ(v2)

	removalGainU := e.dist(pu, u) + e.dist(u2, su2) - e.dist(pu, su2)
	removalGainV := e.dist(pv, v) + e.dist(v2, sv2) - e.dist(pv, sv2)
	insertionCostV := e.dist(pu, v) + e.dist(v2, su2) - e.dist(pu, su2)
	insertionCostU := e.dist(pv, u) + e.dist(u2, sv2) - e.dist(pv, sv2)
	delta := (insertionCostU - removalGainV) + (insertionCostV - removalGainU)

	movedU := e.prob.Demand[u] + e.prob.Demand[u2]
	movedV := e.prob.Demand[v] + e.prob.Demand[v2]
	if ru != rv {
		oldU, newU := e.routes[ru].load, e.routes[ru].load-movedU+movedV
		oldV, newV := e.routes[rv].load, e.routes[rv].load-movedV+movedU
		delta += e.penaltyDelta(oldU, newU, oldV, newV)
	}
	if delta >= -epsilon {
		return false
	}

	e.unlink(u)
	e.unlink(u2)
	e.unlink(v)
	e.unlink(v2)
	e.spliceAfter(v, pu, ru)
	e.spliceAfter(v2, v, ru)
	e.spliceAfter(u, pv, rv)
	e.spliceAfter(u2, u, rv)
	e.recomputeRoute(ru)
	if ru != rv {
		e.recomputeRoute(rv)
	}
	return true
}

// 2-opt within a single route: reverse the segment between u and v.
func (e *Engine) try2Opt(u, v int) bool {
	ru, rv := e.nodes[u].route, e.nodes[v].route
	if ru != rv || !e.before(u, v) {
		return false
	}
	su, sv := e.succ(u), e.succ(v)
	if su == v {
		return false // adjacent: reversing a length-1 segment is a no-op
	}

	oldCost := e.dist(u, su) + e.dist(v, sv)
	newCost := e.dist(u, v) + e.dist(su, sv)
	delta := newCost - oldCost
	if delta >= -epsilon {
		return false
	}

	e.reverseSegment(su, v)
	e.recomputeRoute(ru)
	return true
}

// reverseSegment reverses the sublist from..to (inclusive) in place by
// flipping every prev/next pointer strictly inside it; the caller is
// responsible for recomputing route aggregates afterward.
func (e *Engine) reverseSegment(from, to int) {
	before := e.nodes[from].prev
	after := e.nodes[to].next

	c := from
	for c != 0 {
		next := e.nodes[c].next
		e.nodes[c].prev, e.nodes[c].next = e.nodes[c].next, e.nodes[c].prev
		if c == to {
			break
		}
		c = next
	}

	rid := e.nodes[from].route
	e.nodes[to].prev = before
	e.nodes[from].next = after
	if before != 0 {
		e.nodes[before].next = to
	} else {
		e.routes[rid].head = to
	}
	if after != 0 {
		e.nodes[after].prev = from
	} else {
		e.routes[rid].tail = from
	}
}

// 2-opt* between routes: reconnect u->v+ and v->u+, swapping tails.
func (e *Engine) try2OptStar(u, v int) bool {
	ru, rv := e.nodes[u].route, e.nodes[v].route
	if ru == rv {
		return false
	}
	su, sv := e.succ(u), e.succ(v)

	oldCost := e.dist(u, su) + e.dist(v, sv)
	newCost := e.dist(u, sv) + e.dist(v, su)
	delta := newCost - oldCost

	loadU := e.tailDemand(su, ru)
	loadV := e.tailDemand(sv, rv)
	oldU, newU := e.routes[ru].load, e.routes[ru].load-loadU+loadV
	oldV, newV := e.routes[rv].load, e.routes[rv].load-loadV+loadU
	delta += e.penaltyDelta(oldU, newU, oldV, newV)
	if delta >= -epsilon {
		return false
	}

	e.relinkTails(u, su, ru, v, sv, rv)
	e.recomputeRoute(ru)
	e.recomputeRoute(rv)
	return true
}

// tailDemand returns the demand of the suffix starting at head (0 if the
// suffix is empty, i.e. head was the route's tail+1 sentinel), in O(1) via
// the route's current load and head's precomputed prefix sum
// (node.demandBefore), instead of walking the suffix per candidate move.
func (e *Engine) tailDemand(head, rid int) float64 {
	if head == 0 {
		return 0
	}
	return e.routes[rid].load - e.nodes[head].demandBefore
}

// relinkTails swaps the suffixes after u and after v between routes ru and
// rv: u's old tail (starting at su) is reassigned to rv after v, and v's
// old tail (starting at sv) is reassigned to ru after u.
func (e *Engine) relinkTails(u, su, ru, v, sv, rv int) {
	oldTailU := e.routes[ru].tail
	oldTailV := e.routes[rv].tail

	e.nodes[u].next = sv
	if sv != 0 {
		e.nodes[sv].prev = u
	}
	if sv == 0 {
		e.routes[ru].tail = u
	} else {
		e.routes[ru].tail = oldTailV
	}

	e.nodes[v].next = su
	if su != 0 {
		e.nodes[su].prev = v
	}
	if su == 0 {
		e.routes[rv].tail = v
	} else {
		e.routes[rv].tail = oldTailU
	}

	for c := su; c != 0; c = e.nodes[c].next {
		e.nodes[c].route = rv
	}
	for c := sv; c != 0; c = e.nodes[c].next {
		e.nodes[c].route = ru
	}
}
