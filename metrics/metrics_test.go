package metrics_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jpjj/cvrp-hgs/metrics"
	"github.com/stretchr/testify/require"
)

func TestReportUpdatesGauges(t *testing.T) {
	r := metrics.NewReporter()
	r.Report(1, 1.5, 30, 0, false)
	r.Report(2, 1.8, 30, 123.4, true)

	body := scrape(t, r)
	require.Contains(t, body, "cvrp_hgs_iterations_total 2")
	require.Contains(t, body, "cvrp_hgs_penalty_coefficient 1.8")
	require.Contains(t, body, "cvrp_hgs_population_size 30")
	require.Contains(t, body, "cvrp_hgs_best_feasible_cost 123.4")
	require.Contains(t, body, "cvrp_hgs_has_feasible 1")
}

func TestServeRespectsContextCancellation(t *testing.T) {
	r := metrics.NewReporter()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- r.Serve(ctx, "127.0.0.1:0")
	}()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}

func scrape(t *testing.T, r *metrics.Reporter) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ln := "127.0.0.1:19876"
	go r.Serve(ctx, ln)
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get("http://" + ln + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(b))
}
