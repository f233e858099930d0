// Package instance reads and writes the plain-text CVRP instance and
// solution file formats. It is a collaborator: the core consumes a
// *problem.Problem and produces a *cvrp.Solution, and never imports
// this package.
package instance

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jpjj/cvrp-hgs/problem"
)

// ErrParse is wrapped by every error Parse returns, so callers can detect
// a malformed instance file with errors.Is regardless of which field
// failed to parse.
var ErrParse = errors.New("instance: parse error")

// Parsed holds the raw fields read from an instance file, before they are
// validated and assembled into a *problem.Problem by problem.New. IDs are
// informational; Coord/Demand are positional in file order with index 0
// the depot.
type Parsed struct {
	Name        string
	Capacity    float64
	MaxVehicles int
	IDs         []int
	Coord       []problem.Point
	Demand      []float64
}

// Parse reads the instance file format:
//
//	<name>
//	<capacity> [<maxVehicles>]
//	<id> <x> <y> <demand>
//	...
//
// The depot is the unique row with demand 0. Returns ErrParse wrapping a
// description of the malformed line; does not itself validate capacity
// feasibility (that is problem.New's job, via problem.ErrInvalid).
func Parse(r io.Reader) (*Parsed, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	name, ok := nextNonBlank(sc)
	if !ok {
		return nil, fmt.Errorf("%w: missing name line", ErrParse)
	}

	capLine, ok := nextNonBlank(sc)
	if !ok {
		return nil, fmt.Errorf("%w: missing capacity line", ErrParse)
	}
	capFields := strings.Fields(capLine)
	if len(capFields) == 0 {
		return nil, fmt.Errorf("%w: empty capacity line", ErrParse)
	}
	capacity, err := strconv.ParseFloat(capFields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: capacity %q: %v", ErrParse, capFields[0], err)
	}
	maxVehicles := 0
	if len(capFields) > 1 {
		maxVehicles, err = strconv.Atoi(capFields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: maxVehicles %q: %v", ErrParse, capFields[1], err)
		}
	}

	p := &Parsed{Name: name, Capacity: capacity, MaxVehicles: maxVehicles}
	for {
		line, ok := nextNonBlank(sc)
		if !ok {
			break
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: customer row %q: want 4 fields, got %d", ErrParse, line, len(fields))
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: id %q: %v", ErrParse, fields[0], err)
		}
		x, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: x %q: %v", ErrParse, fields[1], err)
		}
		y, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: y %q: %v", ErrParse, fields[2], err)
		}
		demand, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: demand %q: %v", ErrParse, fields[3], err)
		}
		p.IDs = append(p.IDs, id)
		p.Coord = append(p.Coord, problem.Point{X: x, Y: y})
		p.Demand = append(p.Demand, demand)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if err := p.reorderDepotFirst(); err != nil {
		return nil, err
	}
	return p, nil
}

// reorderDepotFirst moves the unique zero-demand row to index 0, matching
// problem.New's convention that the depot is index 0. Returns ErrParse if
// the depot is missing or duplicated; problem.New performs the rest of
// instance validation.
func (p *Parsed) reorderDepotFirst() error {
	depotIdx := -1
	for i, d := range p.Demand {
		if d == 0 {
			if depotIdx != -1 {
				return fmt.Errorf("%w: duplicate depot rows (ids %d and %d)", ErrParse, p.IDs[depotIdx], p.IDs[i])
			}
			depotIdx = i
		}
	}
	if depotIdx == -1 {
		return fmt.Errorf("%w: no depot row (demand 0) found", ErrParse)
	}
	if depotIdx == 0 {
		return nil
	}
	p.IDs[0], p.IDs[depotIdx] = p.IDs[depotIdx], p.IDs[0]
	p.Coord[0], p.Coord[depotIdx] = p.Coord[depotIdx], p.Coord[0]
	p.Demand[0], p.Demand[depotIdx] = p.Demand[depotIdx], p.Demand[0]
	return nil
}

// Build assembles a *problem.Problem from the parsed fields via
// problem.New, which performs full instance validation (ErrInvalid).
func (p *Parsed) Build() (*problem.Problem, error) {
	return problem.New(p.Name, p.Capacity, p.MaxVehicles, p.Coord, p.Demand)
}

func nextNonBlank(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		return line, true
	}
	return "", false
}

// Solution is the minimal shape instance.Write needs from the core's
// output: routes of customer ids (depot omitted) and the total cost. The
// root package's Solution satisfies this via the same field names, kept
// as a separate type here so instance never imports the root package
// (the core never imports instance, so a two-way import would cycle).
type Solution struct {
	Routes [][]int
	Cost   float64
}

// Write renders the solution output file format: one route per line,
// customer ids space-separated (depot omitted), followed by a line
// "Cost <total>" with total rounded to 2 decimal places. IDs, when
// non-nil, remaps internal indices 1..N back to the file's original
// informational ids; pass nil to write internal indices directly.
func Write(w io.Writer, sol Solution, ids []int) error {
	bw := bufio.NewWriter(w)
	for _, route := range sol.Routes {
		parts := make([]string, len(route))
		for i, idx := range route {
			id := idx
			if ids != nil && idx >= 0 && idx < len(ids) {
				id = ids[idx]
			}
			parts[i] = strconv.Itoa(id)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "Cost %.2f\n", sol.Cost); err != nil {
		return err
	}
	return bw.Flush()
}
