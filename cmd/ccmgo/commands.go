package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/susannvorberg/ccmgo/ccmerr"
)

// runError carries an optimizer's reported code (or a synthetic negative
// one for a fatal pre-optimization error) through urfave/cli's error
// return path so run() can translate it per the exit-code contract: 0 if
// code > 0, otherwise |code|.
type runError struct {
	code    int
	message string
}

func (e *runError) Error() string { return e.message }

func fatalf(format string, args ...interface{}) error {
	return &runError{code: 1, message: fmt.Sprintf(format, args...)}
}

// ccmgoFlags declares the full CLI surface: objective/algorithm selection,
// regularization, pseudocounts, weighting, initialization, outputs, and
// debug options.
func ccmgoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "objective", Value: "pll", Usage: "One of pll, cd, tree-cd, triplet-pll."},
		&cli.StringFlag{Name: "algorithm", Value: "gd", Usage: "One of gd, cg, nd."},
		&cli.IntFlag{Name: "iterations", Value: 100, Usage: "Maximum optimizer iterations."},

		&cli.Float64Flag{Name: "lambda-v", Value: 10, Usage: "L2 regularization strength on single potentials."},
		&cli.Float64Flag{Name: "lambda-w-base", Value: 0.2, Usage: "L2 regularization base strength on pair potentials (scaled by ncol-1)."},

		&cli.StringFlag{Name: "pseudocount", Value: "submat", Usage: "One of submat, constant, none."},
		&cli.IntFlag{Name: "pseudocount-n", Value: 1, Usage: "Pseudocount mass N."},

		&cli.StringFlag{Name: "weighting", Value: "simple", Usage: "One of simple, uniform."},
		&cli.Float64Flag{Name: "weighting-threshold", Value: 0.8, Usage: "Identity threshold for simple weighting."},

		&cli.StringFlag{Name: "init-raw", Usage: "Initialize potentials from a raw-parameter file (oldraw or msgpack, sniffed by extension)."},

		// cd / tree-cd
		&cli.IntFlag{Name: "gibbs-steps", Value: 1, Usage: "Gibbs sweeps per CD/TreeCD evaluation."},
		&cli.IntFlag{Name: "n-samples", Value: 0, Usage: "CD synthetic alignment size; 0 matches the real alignment's row count."},
		&cli.BoolFlag{Name: "persistent", Usage: "Persist the CD sample chain across evaluations (PCD)."},
		&cli.BoolFlag{Name: "pll-sampling", Usage: "Resample a single random column per CD evaluation instead of a full sweep."},
		&cli.StringFlag{Name: "tree", Usage: "Newick tree path (tree-cd only)."},
		&cli.StringFlag{Name: "ancestor", Usage: "FASTA file with a single ancestor sequence (tree-cd only); generated by Gibbs sampling if omitted."},
		&cli.StringSliceFlag{Name: "id0", Usage: "Clade identifiers the tree is rerooted under (tree-cd only); defaults to no rerooting."},
		&cli.Float64Flag{Name: "mutation-rate", Value: 1, Usage: "Tree-mutation rate (tree-cd only)."},

		// triplet-pll
		&cli.IntFlag{Name: "n-triplets", Value: 50, Usage: "Number of column triples to restrict triplet-pll to."},

		// outputs
		&cli.StringFlag{Name: "out-matrix", Usage: "Write the APC-corrected contact-score matrix here."},
		&cli.StringFlag{Name: "out-raw-matrix", Usage: "Write the uncorrected Frobenius matrix here."},
		&cli.StringFlag{Name: "out-oldraw", Usage: "Write fitted potentials as an oldraw text file here."},
		&cli.StringFlag{Name: "out-msgpack", Usage: "Write fitted potentials as a msgpack file here."},
		&cli.StringFlag{Name: "out-triplets", Usage: "Write picked triplet scores here (triplet-pll only)."},

		// debug
		&cli.StringFlag{Name: "debug-trajectory", Usage: "Write one fx/||g|| line per iteration here."},
		&cli.StringFlag{Name: "debug-cd-msa", Usage: "Write the final CD sampled alignment as FASTA here (accepted with tree-cd, which writes no file)."},
		&cli.StringFlag{Name: "compare-raw", Usage: "Compare the fitted potentials against a raw-parameter file and log the max absolute difference."},
	}
}

// ccmgoAction is the CLI's single action: it validates flags, runs the
// fit-and-score pipeline, and translates the result into run's exit-code
// contract.
func ccmgoAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fatalf("expected exactly one positional argument (the alignment path), got %d", c.Args().Len())
	}

	cfg, err := parseConfig(c)
	if err != nil {
		return translateError(err)
	}

	logger := newLogger(cfg.debugTrajectory)

	result, err := runPipeline(context.Background(), cfg, logger)
	if err != nil {
		return translateError(err)
	}

	return &runError{code: exitCode(result.optimizeCode), message: ""}
}

// translateError maps the ccmerr taxonomy onto runError: input/config
// errors are always fatal (code 1, matching "fatal before optimization
// starts" / "fatal at parse time"); anything else is also reported fatal
// since the pipeline has no other source of hard failure.
func translateError(err error) error {
	switch err.(type) {
	case *ccmerr.InputError, *ccmerr.ConfigError:
		return &runError{code: 1, message: err.Error()}
	default:
		return &runError{code: 1, message: err.Error()}
	}
}

// exitCode implements the spec's exit-code contract: 0 if the optimizer
// reported a positive code, otherwise |code|.
func exitCode(optimizeCode int) int {
	if optimizeCode > 0 {
		return 0
	}
	if optimizeCode < 0 {
		return -optimizeCode
	}
	return 0
}
