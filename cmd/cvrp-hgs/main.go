// Command cvrp-hgs reads a CVRP instance file, runs Hybrid Genetic Search,
// and writes the best solution found. It is the one place the algorithmic
// core (package cvrp and its subpackages) is wired to its collaborators:
// the instance file parser/writer, the CLI flag surface, structured
// logging, and an optional Prometheus metrics endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cvrp "github.com/jpjj/cvrp-hgs"
	"github.com/jpjj/cvrp-hgs/instance"
	"github.com/jpjj/cvrp-hgs/metrics"
)

// Process exit codes: 0 solved, 1 parse/IO error, 2 infeasible instance.
const (
	exitOK             = 0
	exitParseError     = 1
	exitInfeasibleInst = 2
)

type flags struct {
	input          string
	output         string
	timeLimit      time.Duration
	iterations     int
	minPopSize     int
	generationSize int
	nElite         int
	granularity    int
	seed           uint64
	visualize      bool
	verbose        bool
	metricsAddr    string
	logLevel       string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	f := &flags{}
	cmd := newRootCommand(f)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if ec, ok := err.(exitCoder); ok {
			return ec.ExitCode()
		}
		fmt.Fprintln(os.Stderr, err)
		return exitParseError
	}
	return 0
}

// exitCoder lets RunE report a specific process exit code (1 vs 2)
// without cobra printing the error twice.
type exitCoder interface {
	error
	ExitCode() int
}

type codedErr struct {
	code int
	err  error
}

func (c codedErr) Error() string { return c.err.Error() }
func (c codedErr) ExitCode() int { return c.code }
func (c codedErr) Unwrap() error { return c.err }

func newRootCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cvrp-hgs",
		Short:         "Hybrid Genetic Search solver for the Capacitated Vehicle Routing Problem",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return solve(cmd.Context(), f)
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(fs *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(name)
	})
	fs.StringVarP(&f.input, "input", "i", "", "instance file path (required)")
	fs.StringVarP(&f.output, "output", "o", "", "solution output file path (required)")
	fs.DurationVarP(&f.timeLimit, "time-limit", "t", 60*time.Second, "wall-clock time limit (e.g. 60s, 2m)")
	fs.IntVar(&f.iterations, "iterations", 20000, "max iterations without improvement before stopping")
	fs.IntVar(&f.minPopSize, "min_pop_size", 25, "target minimum subpopulation size")
	fs.IntVar(&f.generationSize, "generation_size", 40, "generation size before survivor selection")
	fs.IntVar(&f.nElite, "n_elite", 4, "elite count anchoring biased fitness")
	fs.IntVar(&f.granularity, "granularity", 20, "nearest-neighbor granularity for local search")
	fs.Uint64Var(&f.seed, "seed", 0, "PRNG seed")
	fs.BoolVarP(&f.visualize, "visualize", "v", false, "render a terminal visualization of the best solution")
	fs.BoolVar(&f.verbose, "verbose", false, "verbose human-readable progress output")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "address to serve Prometheus /metrics on (empty disables)")
	fs.StringVar(&f.logLevel, "log-level", "info", "zap log level: debug, info, warn, error")

	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

func solve(ctx context.Context, f *flags) error {
	log, err := buildLogger(f.logLevel)
	if err != nil {
		return codedErr{exitParseError, err}
	}
	defer log.Sync()

	in, err := os.Open(f.input)
	if err != nil {
		return codedErr{exitParseError, fmt.Errorf("open input: %w", err)}
	}
	defer in.Close()

	parsed, err := instance.Parse(in)
	if err != nil {
		return codedErr{exitParseError, fmt.Errorf("parse instance: %w", err)}
	}

	prob, err := parsed.Build()
	if err != nil {
		log.Error("instance invalid", zap.Error(err))
		return codedErr{exitInfeasibleInst, err}
	}

	cfg := cvrp.DefaultConfig()
	cfg.TimeLimit = f.timeLimit
	cfg.MaxIterNoImprove = f.iterations
	cfg.MinPopSize = f.minPopSize
	cfg.GenerationSize = f.generationSize
	cfg.NElite = f.nElite
	cfg.Granularity = f.granularity
	cfg.Seed = f.seed
	cfg.InitialPenalty = prob.Capacity / 10

	driver := cvrp.NewDriver(prob, cfg)
	driver.SetLogger(log)

	if f.metricsAddr != "" {
		reporter := metrics.NewReporter()
		driver.SetReporter(reporter)
		srvCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := reporter.Serve(srvCtx, f.metricsAddr); err != nil {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	sol, runErr := driver.Run(runCtx)
	if runErr != nil && sol == nil {
		return codedErr{exitInfeasibleInst, runErr}
	}

	out, err := os.Create(f.output)
	if err != nil {
		return codedErr{exitParseError, fmt.Errorf("create output: %w", err)}
	}
	defer out.Close()

	if err := instance.Write(out, instance.Solution{Routes: sol.Routes, Cost: sol.Cost}, parsed.IDs); err != nil {
		return codedErr{exitParseError, fmt.Errorf("write output: %w", err)}
	}

	if f.verbose {
		log.Sugar().Infof("best solution: %d routes, cost %.2f, feasible=%v", len(sol.Routes), sol.Cost, sol.Feasible)
	}
	if f.visualize {
		printVisualization(prob, sol)
	}

	if runErr != nil {
		// NoFeasibleFound: a solution was still written (the best
		// infeasible individual), but report failure via exit code.
		return codedErr{exitInfeasibleInst, runErr}
	}
	return nil
}

func buildLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
