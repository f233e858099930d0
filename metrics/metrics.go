// Package metrics exports HGS search progress as Prometheus metrics. The
// core depends only on the cvrp.Reporter interface; this package is an
// optional collaborator wired in by cmd/cvrp-hgs when --metrics-addr is
// set.
package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reporter implements cvrp.Reporter against a dedicated Prometheus
// registry, so it can be mounted on its own /metrics endpoint without
// pulling in whatever the process's default registry carries.
type Reporter struct {
	registry *prometheus.Registry

	iterations       prometheus.Counter
	penalty          prometheus.Gauge
	populationSize   prometheus.Gauge
	bestFeasibleCost prometheus.Gauge
	hasFeasible      prometheus.Gauge
}

// NewReporter registers the search's gauges and counters against a fresh
// registry.
func NewReporter() *Reporter {
	r := &Reporter{registry: prometheus.NewRegistry()}

	r.iterations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cvrp_hgs_iterations_total",
		Help: "Number of genetic-loop iterations completed.",
	})
	r.penalty = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cvrp_hgs_penalty_coefficient",
		Help: "Current excess-load penalty coefficient (lambda).",
	})
	r.populationSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cvrp_hgs_population_size",
		Help: "Combined size of the feasible and infeasible subpopulations.",
	})
	r.bestFeasibleCost = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cvrp_hgs_best_feasible_cost",
		Help: "Total distance of the best feasible individual found so far.",
	})
	r.hasFeasible = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cvrp_hgs_has_feasible",
		Help: "1 if a feasible individual has been found, 0 otherwise.",
	})

	r.registry.MustRegister(r.iterations, r.penalty, r.populationSize, r.bestFeasibleCost, r.hasFeasible)
	return r
}

// Report implements cvrp.Reporter.
func (r *Reporter) Report(iteration int, penalty float64, populationSize int, bestFeasibleCost float64, haveBestFeasible bool) {
	r.iterations.Add(1)
	r.penalty.Set(penalty)
	r.populationSize.Set(float64(populationSize))
	if haveBestFeasible {
		r.bestFeasibleCost.Set(bestFeasibleCost)
		r.hasFeasible.Set(1)
	} else {
		r.hasFeasible.Set(0)
	}
}

// Serve starts an HTTP server exposing /metrics on addr and blocks until
// ctx is cancelled or the server fails. A cancelled context always yields
// a nil error; any other shutdown failure is returned.
func (r *Reporter) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
