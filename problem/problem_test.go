package problem_test

import (
	"errors"
	"testing"

	"github.com/jpjj/cvrp-hgs/problem"
	"github.com/stretchr/testify/require"
)

func square() *problem.Problem {
	coord := []problem.Point{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 0, Y: 1},
		{X: -1, Y: 0},
		{X: 0, Y: -1},
	}
	demand := []float64{0, 1, 1, 1, 1}
	p, err := problem.New("square", 4, 0, coord, demand)
	if err != nil {
		panic(err)
	}
	return p
}

func TestNewProblemSymmetricDistances(t *testing.T) {
	p := square()
	for i := 0; i <= p.N; i++ {
		for j := 0; j <= p.N; j++ {
			require.InDelta(t, p.Dist[i][j], p.Dist[j][i], 1e-12)
		}
		require.Zero(t, p.Dist[i][i])
	}
}

func TestNewProblemProximityOrdering(t *testing.T) {
	p := square()
	neighbors := p.Neighbors(1, 3)
	require.Len(t, neighbors, 3)
	for i := 1; i < len(neighbors); i++ {
		require.LessOrEqual(t, p.Dist[1][neighbors[i-1]], p.Dist[1][neighbors[i]])
	}
}

func TestNewProblemRejectsExcessiveDemand(t *testing.T) {
	coord := []problem.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
	demand := []float64{0, 10}
	_, err := problem.New("bad", 5, 0, coord, demand)
	require.Error(t, err)
	require.True(t, errors.Is(err, problem.ErrInvalid))
}

func TestNewProblemRejectsNonZeroDepotDemand(t *testing.T) {
	coord := []problem.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
	demand := []float64{3, 1}
	_, err := problem.New("bad", 5, 0, coord, demand)
	require.ErrorIs(t, err, problem.ErrInvalid)
}

func TestNeighborsClampsToAvailable(t *testing.T) {
	p := square()
	require.Len(t, p.Neighbors(1, 100), 3)
}
