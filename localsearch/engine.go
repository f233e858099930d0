package localsearch

import "math/rand/v2"

// epsilon is the minimum improvement a move must produce to be applied;
// matches strictly-improving moves only, avoiding cycling between
// equal-cost configurations.
const epsilon = 1e-10

// run repeatedly sweeps customers in a randomized but stable order, trying
// every pairwise move on each (u,v) pair drawn from u's granular neighbor
// list and, after each full pass, SWAP* across every route pair whose
// polar sectors intersect. It stops when a full pass plus a SWAP* pass
// leave every route unchanged.
func (e *Engine) run(rng *rand.Rand) {
	rng.Shuffle(len(e.order), func(i, j int) {
		e.order[i], e.order[j] = e.order[j], e.order[i]
	})

	improvementFound := true
	for improvementFound {
		improvementFound = false
		e.currentTime++

		for _, u := range e.order {
			if e.nodes[u].route == 0 {
				continue
			}
			improvedU := false
			for _, v := range e.prob.Neighbors(u, e.granularity) {
				if e.nodes[v].route == 0 || u == v {
					continue
				}
				if e.skipPair(u, v) {
					continue
				}
				if e.tryMoves(u, v) {
					improvementFound = true
					improvedU = true
					break
				}
			}
			if !improvedU {
				e.nodes[u].lastTestedTimestamp = e.currentTime
			}
		}

		if e.swapStarPass() {
			improvementFound = true
		}
	}
}

// skipPair reports whether the (u,v) pair was already tested since both
// of their routes last changed, per the timestamp reactivation scheme.
func (e *Engine) skipPair(u, v int) bool {
	lastTested := e.nodes[u].lastTestedTimestamp
	if e.nodes[v].lastTestedTimestamp > lastTested {
		lastTested = e.nodes[v].lastTestedTimestamp
	}
	routeTime := e.routes[e.nodes[u].route].timestamp
	if vt := e.routes[e.nodes[v].route].timestamp; vt > routeTime {
		routeTime = vt
	}
	return lastTested >= routeTime
}

// loadPenalty is λ·max(0, load-Q), the per-route excess-capacity cost.
func (e *Engine) loadPenalty(load float64) float64 {
	over := load - e.prob.Capacity
	if over <= 0 {
		return 0
	}
	return e.penalty * over
}

// recomputeRoute walks a route's node list from scratch, refreshing
// distance, load, angleSum, numNodes, each node's position, and each
// node's demandBefore (the prefix demand sum up to that node). Called
// after any splice that touches the route; O(route length), not O(1), but
// keeps the bookkeeping impossible to get subtly wrong across many move
// kinds. demandBefore is what lets try2OptStar's delta evaluation query a
// route's tail demand in O(1) instead of walking the tail per candidate.
//
// The route's timestamp is stamped from the advanced global clock, so it
// compares newer than every node lastTestedTimestamp recorded so far: any
// pair touching this route is reactivated, and the SWAP* insertion cache
// sees a fresh generation.
func (e *Engine) recomputeRoute(rid int) {
	r := &e.routes[rid]
	e.currentTime++
	r.timestamp = e.currentTime
	if r.head == 0 {
		r.tail, r.numNodes, r.load, r.distance, r.angleSum = 0, 0, 0, 0, 0
		return
	}
	var load, dist, angleSum float64
	prev := 0
	pos := 0
	c := r.head
	for c != 0 {
		n := &e.nodes[c]
		n.position = pos
		n.prev = prev
		n.demandBefore = load
		load += e.prob.Demand[c]
		angleSum += e.prob.Angle[c]
		if prev == 0 {
			dist += e.dist(0, c)
		} else {
			dist += e.dist(prev, c)
		}
		prev = c
		pos++
		c = n.next
	}
	dist += e.dist(prev, 0)
	r.tail = prev
	r.numNodes = pos
	r.load = load
	r.distance = dist
	r.angleSum = angleSum
}

// unlink splices customer c out of its current route's list without
// touching that route's aggregates; the caller must call recomputeRoute
// on the old route afterward.
func (e *Engine) unlink(c int) {
	n := &e.nodes[c]
	if n.prev != 0 {
		e.nodes[n.prev].next = n.next
	} else {
		e.routes[n.route].head = n.next
	}
	if n.next != 0 {
		e.nodes[n.next].prev = n.prev
	} else {
		e.routes[n.route].tail = n.prev
	}
	n.prev, n.next = 0, 0
}

// spliceAfter inserts customer c into route rid immediately after anchor
// (anchor==0 means c becomes the new head of an empty route). The caller
// must call recomputeRoute on rid afterward.
func (e *Engine) spliceAfter(c, anchor, rid int) {
	n := &e.nodes[c]
	n.route = rid
	if anchor == 0 {
		old := e.routes[rid].head
		n.next = old
		n.prev = 0
		if old != 0 {
			e.nodes[old].prev = c
		} else {
			e.routes[rid].tail = c
		}
		e.routes[rid].head = c
		return
	}
	an := &e.nodes[anchor]
	next := an.next
	an.next = c
	n.prev = anchor
	n.next = next
	if next != 0 {
		e.nodes[next].prev = c
	} else {
		e.routes[rid].tail = c
	}
}

// before reports whether node a occupies an earlier position than b within
// the same route.
func (e *Engine) before(a, b int) bool {
	return e.nodes[a].position < e.nodes[b].position
}
