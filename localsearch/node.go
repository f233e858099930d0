// Package localsearch implements the neighborhood engine that turns a
// Split decoding into a local optimum under the penalized cost, using an
// arena-backed linked-list route representation, granular pruning, and
// timestamp-based move reactivation.
package localsearch

import (
	"github.com/jpjj/cvrp-hgs/problem"
	"github.com/jpjj/cvrp-hgs/split"
)

// node is one customer's position within a route's doubly linked list.
// prev/next are node handles; 0 means "the depot", i.e. this node is the
// route's head (prev==0) or tail (next==0). Node handles equal customer
// ids, so the arena needs no separate allocator.
type node struct {
	route               int
	prev, next          int
	position            int
	demandBefore        float64 // sum of demand of every node from the route head up to (excluding) this node
	lastTestedTimestamp int64
}

// route is one vehicle route: a doubly linked list of customer nodes plus
// its running load, distance, and the sum of its customers' polar angles
// (for the route's mean angle; see meanAngle). timestamp is
// bumped on every structural change so the move loop and the SWAP*
// insertion cache know to reconsider it.
type route struct {
	head, tail int
	numNodes   int
	load       float64
	distance   float64
	angleSum   float64
	timestamp  int64
	active     bool
}

// Engine holds the scratch arena used to run local search against one
// Individual at a time. It is allocated once per driver run and reused
// across every Individual passed to build, so education never allocates
// in the hot path beyond what a single build/run/extract cycle needs.
type Engine struct {
	prob        *problem.Problem
	penalty     float64
	granularity int

	nodes  []node  // indexed by customer id, 1..N
	routes []route // indexed by route id, 1..N (upper bound: one route per customer)

	order []int // customer visit order for one Run, reshuffled per call

	currentTime int64

	cache []routeInsertCache // per route id, lazy SWAP* best-insertion cache
}

// NewEngine allocates an Engine sized for prob. The same Engine should be
// reused across every Individual produced during a search, via repeated
// build/run/extract calls.
func NewEngine(prob *problem.Problem, granularity int) *Engine {
	e := &Engine{
		prob:        prob,
		granularity: granularity,
		nodes:       make([]node, prob.N+1),
		routes:      make([]route, prob.N+1),
		order:       make([]int, prob.N),
		cache:       make([]routeInsertCache, prob.N+1),
	}
	for i := range e.order {
		e.order[i] = i + 1
	}
	return e
}

// dist is a shorthand for the problem's distance matrix lookup.
func (e *Engine) dist(a, b int) float64 {
	return e.prob.Dist[a][b]
}

// build loads routes into the arena, discarding whatever the previous
// build left behind. Route ids are assigned in the order routes appear in
// plan. The global clock keeps running across builds; every fresh route is
// stamped one tick ahead of the zeroed node timestamps so the first pass
// tests every pair.
func (e *Engine) build(routes []split.Route, penalty float64) {
	e.penalty = penalty
	for i := range e.routes {
		e.routes[i] = route{}
	}
	for i := range e.nodes {
		e.nodes[i] = node{}
	}
	for i := range e.cache {
		e.cache[i] = routeInsertCache{}
	}
	e.currentTime++

	for idx, r := range routes {
		rid := idx + 1
		e.routes[rid].active = true
		e.routes[rid].timestamp = e.currentTime
		prev := 0
		var angleSum, demandBefore float64
		for pos, c := range r.Customers {
			e.nodes[c] = node{route: rid, prev: prev, position: pos, demandBefore: demandBefore}
			if prev != 0 {
				e.nodes[prev].next = c
			} else {
				e.routes[rid].head = c
			}
			prev = c
			angleSum += e.prob.Angle[c]
			demandBefore += e.prob.Demand[c]
		}
		e.routes[rid].tail = prev
		e.routes[rid].numNodes = len(r.Customers)
		e.routes[rid].load = r.Load
		e.routes[rid].distance = r.Distance
		e.routes[rid].angleSum = angleSum
	}
}

// extract reads the arena back out into route slices ordered by route id,
// skipping any route that became empty during the search (a Relocate/Swap
// sequence can strand a route with zero customers).
func (e *Engine) extract() []split.Route {
	out := make([]split.Route, 0, len(e.routes))
	for rid := range e.routes {
		r := &e.routes[rid]
		if !r.active || r.numNodes == 0 {
			continue
		}
		customers := make([]int, 0, r.numNodes)
		for c := r.head; c != 0; c = e.nodes[c].next {
			customers = append(customers, c)
		}
		out = append(out, split.Route{
			Customers: customers,
			Load:      r.load,
			Distance:  r.distance,
		})
	}
	return out
}

// meanAngle returns the arithmetic mean of the route's customer angles, in
// turns. It is not a circular mean: a route whose customers straddle angle
// 0 (e.g. 0.95 and 0.05 turns) gets a mean near 0.5, not near 0.
func (r *route) meanAngle() float64 {
	if r.numNodes == 0 {
		return 0
	}
	return r.angleSum / float64(r.numNodes)
}
