package main

import (
	"fmt"
	"math"
	"strings"

	cvrp "github.com/jpjj/cvrp-hgs"
)

// printVisualization renders a coarse ASCII scatter plot of the depot,
// customers, and route membership to stdout for the -v flag. No example
// in the retrieval pack ships a terminal-graphics dependency for this
// (no termbox/tview/bubbletea in any go.mod), so this stays on stdlib
// fmt/strings rather than inventing a dependency the pack never shows.
func printVisualization(prob *cvrp.Problem, sol *cvrp.Solution) {
	const width, height = 60, 24

	minX, maxX := prob.Coord[0].X, prob.Coord[0].X
	minY, maxY := prob.Coord[0].Y, prob.Coord[0].Y
	for _, c := range prob.Coord {
		minX, maxX = math.Min(minX, c.X), math.Max(maxX, c.X)
		minY, maxY = math.Min(minY, c.Y), math.Max(maxY, c.Y)
	}
	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	grid := make([][]byte, height)
	for i := range grid {
		grid[i] = make([]byte, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	plot := func(x, y float64, mark byte) {
		col := int((x - minX) / spanX * float64(width-1))
		row := int((maxY - y) / spanY * float64(height-1))
		if col >= 0 && col < width && row >= 0 && row < height {
			grid[row][col] = mark
		}
	}

	marks := []byte("abcdefghijklmnopqrstuvwxyz")
	for i, route := range sol.Routes {
		mark := marks[i%len(marks)]
		for _, cust := range route {
			plot(prob.Coord[cust].X, prob.Coord[cust].Y, mark)
		}
	}
	plot(prob.Coord[0].X, prob.Coord[0].Y, 'D')

	var b strings.Builder
	b.WriteString(strings.Repeat("-", width+2))
	b.WriteByte('\n')
	for _, row := range grid {
		b.WriteByte('|')
		b.Write(row)
		b.WriteString("|\n")
	}
	b.WriteString(strings.Repeat("-", width+2))
	fmt.Println(b.String())
	fmt.Printf("D=depot, letters=route index mod 26, %d routes, cost %.2f\n", len(sol.Routes), sol.Cost)
}
