package main

import (
	"github.com/urfave/cli/v2"

	"github.com/susannvorberg/ccmgo/ccmerr"
)

// config collects every flag value ccmgoAction needs, validated and typed.
type config struct {
	alignmentPath string

	objective string
	algorithm string
	iterations int

	lambdaV      float64
	lambdaWBase  float64

	pseudocount  string
	pseudocountN int

	weighting           string
	weightingThreshold  float64

	initRaw string

	gibbsSteps  int
	nSamples    int
	persistent  bool
	pllSampling bool

	treePath     string
	ancestorPath string
	id0          []string
	mutationRate float64

	nTriplets int

	outMatrix     string
	outRawMatrix  string
	outOldraw     string
	outMsgpack    string
	outTriplets   string

	debugTrajectory string
	debugCDMSA      string
	compareRaw      string
}

var validObjectives = map[string]bool{"pll": true, "cd": true, "tree-cd": true, "triplet-pll": true}
var validAlgorithms = map[string]bool{"gd": true, "cg": true, "nd": true}
var validPseudocounts = map[string]bool{"submat": true, "constant": true, "none": true}
var validWeightings = map[string]bool{"simple": true, "uniform": true}

// parseConfig reads and validates every flag, returning a ccmerr.InputError
// for an unknown objective/algorithm/pseudocount/weighting name or when no
// output is requested, and a ccmerr.ConfigError for an invalid combination
// of flags (per SPEC_FULL.md's error taxonomy: both are fatal before
// optimization starts).
func parseConfig(c *cli.Context) (config, error) {
	cfg := config{
		alignmentPath: c.Args().Get(0),

		objective:  c.String("objective"),
		algorithm:  c.String("algorithm"),
		iterations: c.Int("iterations"),

		lambdaV:     c.Float64("lambda-v"),
		lambdaWBase: c.Float64("lambda-w-base"),

		pseudocount:  c.String("pseudocount"),
		pseudocountN: c.Int("pseudocount-n"),

		weighting:          c.String("weighting"),
		weightingThreshold: c.Float64("weighting-threshold"),

		initRaw: c.String("init-raw"),

		gibbsSteps:  c.Int("gibbs-steps"),
		nSamples:    c.Int("n-samples"),
		persistent:  c.Bool("persistent"),
		pllSampling: c.Bool("pll-sampling"),

		treePath:     c.String("tree"),
		ancestorPath: c.String("ancestor"),
		id0:          c.StringSlice("id0"),
		mutationRate: c.Float64("mutation-rate"),

		nTriplets: c.Int("n-triplets"),

		outMatrix:    c.String("out-matrix"),
		outRawMatrix: c.String("out-raw-matrix"),
		outOldraw:    c.String("out-oldraw"),
		outMsgpack:   c.String("out-msgpack"),
		outTriplets:  c.String("out-triplets"),

		debugTrajectory: c.String("debug-trajectory"),
		debugCDMSA:      c.String("debug-cd-msa"),
		compareRaw:      c.String("compare-raw"),
	}

	// Per SPEC_FULL.md's error taxonomy, an unknown strategy/transform name
	// or a missing output request are input errors, not configuration
	// errors -- the distinguishing feature of a configuration error is an
	// invalid *combination* of otherwise-valid flags.
	if !validObjectives[cfg.objective] {
		return cfg, ccmerr.NewInputError("unknown --objective %q", cfg.objective)
	}
	if !validAlgorithms[cfg.algorithm] {
		return cfg, ccmerr.NewInputError("unknown --algorithm %q", cfg.algorithm)
	}
	if !validPseudocounts[cfg.pseudocount] {
		return cfg, ccmerr.NewInputError("unknown --pseudocount %q", cfg.pseudocount)
	}
	if !validWeightings[cfg.weighting] {
		return cfg, ccmerr.NewInputError("unknown --weighting %q", cfg.weighting)
	}

	if cfg.outMatrix == "" && cfg.outRawMatrix == "" && cfg.outOldraw == "" && cfg.outMsgpack == "" && cfg.outTriplets == "" {
		return cfg, ccmerr.NewInputError("no output requested: pass at least one of --out-matrix, --out-raw-matrix, --out-oldraw, --out-msgpack, --out-triplets")
	}

	if cfg.objective == "tree-cd" && cfg.treePath == "" {
		return cfg, ccmerr.NewConfigError("--objective tree-cd requires --tree")
	}
	if cfg.objective != "tree-cd" && cfg.treePath != "" {
		return cfg, ccmerr.NewConfigError("--tree is only valid with --objective tree-cd")
	}

	if cfg.debugCDMSA != "" && cfg.objective != "cd" && cfg.objective != "tree-cd" {
		return cfg, ccmerr.NewConfigError("--debug-cd-msa is only valid with --objective cd or tree-cd")
	}
	if cfg.outTriplets != "" && cfg.objective != "triplet-pll" {
		return cfg, ccmerr.NewConfigError("--out-triplets is only valid with --objective triplet-pll")
	}
	if cfg.pllSampling && cfg.objective != "cd" {
		return cfg, ccmerr.NewConfigError("--pll-sampling is only valid with --objective cd")
	}
	if cfg.persistent && cfg.objective != "cd" {
		return cfg, ccmerr.NewConfigError("--persistent is only valid with --objective cd")
	}

	return cfg, nil
}
