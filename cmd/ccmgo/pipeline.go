package main

import (
	"context"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/susannvorberg/ccmgo/alphabet"
	"github.com/susannvorberg/ccmgo/bio/fasta"
	"github.com/susannvorberg/ccmgo/ccmerr"
	"github.com/susannvorberg/ccmgo/contactmatrix"
	"github.com/susannvorberg/ccmgo/counts"
	"github.com/susannvorberg/ccmgo/digest"
	"github.com/susannvorberg/ccmgo/msa"
	"github.com/susannvorberg/ccmgo/objfun"
	"github.com/susannvorberg/ccmgo/optimize"
	"github.com/susannvorberg/ccmgo/phylo"
	"github.com/susannvorberg/ccmgo/potts"
	"github.com/susannvorberg/ccmgo/rawfile"
	"github.com/susannvorberg/ccmgo/regularize"
	"github.com/susannvorberg/ccmgo/sampler"
	"github.com/susannvorberg/ccmgo/score"
	"github.com/susannvorberg/ccmgo/triplets"
)

// pipelineResult is everything ccmgoAction needs after runPipeline returns,
// to translate into the exit-code contract.
type pipelineResult struct {
	optimizeCode int
}

// runPipeline reads the alignment, fits the selected objective, scores the
// result, and writes every requested output. It is the single place the
// whole dependency chain (msa -> counts -> objfun -> optimize -> score ->
// contactmatrix/rawfile/triplets) is wired together.
func runPipeline(ctx context.Context, cfg config, logger *slog.Logger) (pipelineResult, error) {
	alignment, err := readAlignment(cfg.alignmentPath)
	if err != nil {
		return pipelineResult{}, err
	}
	ncol := alignment.Ncol

	weights, err := computeWeights(ctx, cfg, alignment)
	if err != nil {
		return pipelineResult{}, err
	}
	neff := msa.Neff(weights)

	f1, _, err := computeFrequencies(cfg, alignment, weights)
	if err != nil {
		return pipelineResult{}, err
	}
	center := msa.Centering(f1)

	reg := regularize.NewL2(cfg.lambdaV, cfg.lambdaWBase, ncol, center, cfg.objective == "tree-cd")

	rng := sampler.New(1)

	build, err := newObjectiveBuilder(cfg, alignment, weights, reg, rng)
	if err != nil {
		return pipelineResult{}, err
	}

	x0, err := build.initialVector(cfg, center)
	if err != nil {
		return pipelineResult{}, err
	}

	xFinal, report, err := runOptimizer(ctx, cfg, build.objective, x0, logger)
	if err != nil {
		return pipelineResult{}, err
	}

	params := build.finalize(xFinal)

	if cfg.debugCDMSA != "" {
		if err := writeDebugSample(cfg.debugCDMSA, build); err != nil {
			return pipelineResult{}, err
		}
	}

	if err := writeOutputs(cfg, alignment, params, neff, report); err != nil {
		return pipelineResult{}, err
	}

	if cfg.compareRaw != "" {
		if err := logCompareRaw(cfg.compareRaw, params, logger); err != nil {
			return pipelineResult{}, err
		}
	}

	return pipelineResult{optimizeCode: report.Code}, nil
}

func readAlignment(path string) (*msa.MSA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ccmerr.NewInputError("cannot open alignment %q: %v", path, err)
	}
	defer f.Close()
	m, err := msa.ReadFasta(f)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func computeWeights(ctx context.Context, cfg config, m *msa.MSA) ([]float64, error) {
	switch cfg.weighting {
	case "uniform":
		return msa.WeightsUniform(m), nil
	case "simple":
		return msa.WeightsSimple(ctx, m, cfg.weightingThreshold)
	default:
		return nil, ccmerr.NewInputError("unknown --weighting %q", cfg.weighting)
	}
}

func computeFrequencies(cfg config, m *msa.MSA, weights []float64) (f1 [][]float64, f2 [][][][]float64, err error) {
	opts := msa.FrequencyOptions{N: float64(cfg.pseudocountN)}
	switch cfg.pseudocount {
	case "none":
		opts.Mode = msa.PseudocountNone
	case "constant":
		opts.Mode = msa.PseudocountConstant
	case "submat":
		opts.Mode = msa.PseudocountSubstitutionMatrix
	default:
		return nil, nil, ccmerr.NewInputError("unknown --pseudocount %q", cfg.pseudocount)
	}
	return msa.Frequencies(m, weights, opts)
}

// objectiveBuilder bundles the constructed objfun.Objective with the
// type-specific operations (Finalize, InitFromCentering, and the debug
// sample dump) that objfun's per-variant concrete types expose but its
// shared Objective interface does not.
type objectiveBuilder struct {
	objective objfun.Objective

	pll       *objfun.PLL
	cd        *objfun.CD
	treeCD    *objfun.TreeCD
	tripletPLL *objfun.TripletPLL
}

func (b *objectiveBuilder) finalize(x []float64) potts.Params {
	switch {
	case b.pll != nil:
		return b.pll.Finalize(x)
	case b.cd != nil:
		return b.cd.Finalize(x)
	case b.treeCD != nil:
		return b.treeCD.Finalize(x)
	default:
		return b.tripletPLL.Finalize(x)
	}
}

// initialVector builds the starting point: from --init-raw if given,
// otherwise from the zero-coupling centering point every variant shares.
func (b *objectiveBuilder) initialVector(cfg config, center [][20]float64) ([]float64, error) {
	if cfg.initRaw != "" {
		raw, err := readRawFile(cfg.initRaw)
		if err != nil {
			return nil, err
		}
		ncol := b.ncol()
		if raw.Params.Ncol != ncol {
			return nil, ccmerr.NewInputError("init-raw %q has ncol=%d, alignment has ncol=%d", cfg.initRaw, raw.Params.Ncol, ncol)
		}
		return b.pack(raw.Params.Single, raw.Params.Pair), nil
	}

	switch {
	case b.pll != nil:
		return b.pll.InitFromCentering(center), nil
	case b.cd != nil:
		return b.cd.InitFromCentering(center), nil
	default:
		v := potts.NewSingle(b.ncol())
		for i := 0; i < b.ncol(); i++ {
			for a := 0; a < 20; a++ {
				v.Set(i, a, center[i][a])
			}
		}
		return b.pack(v, potts.NewPair(b.ncol())), nil
	}
}

func (b *objectiveBuilder) ncol() int {
	switch {
	case b.pll != nil:
		return b.pll.MSA.Ncol
	case b.cd != nil:
		return b.cd.Ncol
	case b.treeCD != nil:
		return b.treeCD.Ncol
	default:
		return b.tripletPLL.MSA.Ncol
	}
}

func (b *objectiveBuilder) pack(v potts.Single, w potts.Pair) []float64 {
	switch {
	case b.pll != nil:
		return b.pll.Packing.Pack(v, w)
	case b.cd != nil:
		return b.cd.Packing.Pack(v, w)
	case b.treeCD != nil:
		return b.treeCD.Packing.Pack(v, w)
	default:
		return b.tripletPLL.Packing.Pack(v, w)
	}
}

// newObjectiveBuilder constructs the selected objective, wiring in CD's
// Gibbs sampler, TreeCD's phylogeny, or triplet-pll's pre-fit pair
// selection as needed.
func newObjectiveBuilder(cfg config, m *msa.MSA, weights []float64, reg regularize.L2, rng *sampler.RNG) (*objectiveBuilder, error) {
	switch cfg.objective {
	case "pll":
		pll := objfun.NewPLL(m, weights, reg)
		return &objectiveBuilder{objective: pll, pll: pll}, nil

	case "cd":
		cd := objfun.NewCD(m, weights, counts.FromMSAData(m.Data, weights, m.Ncol), reg, rng, cfg.gibbsSteps, cfg.nSamples, cfg.persistent, cfg.pllSampling)
		return &objectiveBuilder{objective: cd, cd: cd}, nil

	case "tree-cd":
		tree, seq0, err := buildTreeCDInputs(cfg, m, rng)
		if err != nil {
			return nil, err
		}
		tcd := objfun.NewTreeCD(m.Ncol, counts.FromMSAData(m.Data, weights, m.Ncol), reg, rng, tree, seq0, cfg.mutationRate, nil)
		return &objectiveBuilder{objective: tcd, treeCD: tcd}, nil

	case "triplet-pll":
		active, err := pickTripletPairs(cfg, m, weights, reg)
		if err != nil {
			return nil, err
		}
		tpll := objfun.NewTripletPLL(m, weights, reg, active)
		return &objectiveBuilder{objective: tpll, tripletPLL: tpll}, nil

	default:
		return nil, ccmerr.NewInputError("unknown --objective %q", cfg.objective)
	}
}

// buildTreeCDInputs parses --tree, optionally rerooting it under --id0,
// and determines the ancestor sequence either from --ancestor or (absent
// that) by Gibbs-sampling a poly-alanine start under the zero-coupling
// model.
func buildTreeCDInputs(cfg config, m *msa.MSA, rng *sampler.RNG) (*phylo.Tree, []uint8, error) {
	data, err := os.ReadFile(cfg.treePath)
	if err != nil {
		return nil, nil, ccmerr.NewInputError("cannot open tree %q: %v", cfg.treePath, err)
	}
	tree, err := phylo.ParseNewick(string(data))
	if err != nil {
		return nil, nil, err
	}
	if len(cfg.id0) > 0 {
		tree, err = tree.Reroot(cfg.id0)
		if err != nil {
			return nil, nil, err
		}
	}

	if cfg.ancestorPath != "" {
		f, err := os.Open(cfg.ancestorPath)
		if err != nil {
			return nil, nil, ccmerr.NewInputError("cannot open ancestor sequence %q: %v", cfg.ancestorPath, err)
		}
		defer f.Close()
		ancestorMSA, err := msa.ReadFasta(f)
		if err != nil {
			return nil, nil, err
		}
		if ancestorMSA.Ncol != m.Ncol || ancestorMSA.Nrow != 1 {
			return nil, nil, ccmerr.NewInputError("ancestor sequence %q must be a single record of length %d", cfg.ancestorPath, m.Ncol)
		}
		return tree, ancestorMSA.Data[0], nil
	}

	v := potts.NewSingle(m.Ncol)
	w := potts.NewPair(m.Ncol)
	seq0 := sampler.GenerateAncestorSequence(rng, v, w, m.Ncol, cfg.gibbsSteps)
	return tree, seq0, nil
}

// pickTripletPairs runs a cheap PLL pre-fit (a handful of gradient-descent
// iterations starting from the zero-coupling model) purely to obtain an
// initial coupling estimate, scores it with the Frobenius norm (no APC), and selects the
// nTriplets best-scoring column pairs (extended to triples) as the set
// triplet-pll restricts itself to. This pre-pass is a supplemented design
// decision: the objective needs *some* triple selection before it can run
// at all, and the natural source of a pair-quality ranking already in this
// codebase is the ordinary PLL's own fitted couplings.
func pickTripletPairs(cfg config, m *msa.MSA, weights []float64, reg regularize.L2) (map[[2]int]bool, error) {
	ncol := m.Ncol
	prefit := objfun.NewPLL(m, weights, reg)
	center := msa.Centering(flatPseudoFrequencies(m, weights))
	x0 := prefit.InitFromCentering(center)

	preIterations := 20
	if preIterations > cfg.iterations {
		preIterations = cfg.iterations
	}
	xFit, _, err := optimize.GradientDescent(context.Background(), prefit, x0, optimize.DefaultGradientDescentOptions(preIterations))
	if err != nil {
		return nil, err
	}
	params := prefit.Finalize(xFit)

	frob := score.Frobenius(params.Pair, ncol)
	columnScore := make([]float64, ncol)
	pairs := make([]triplets.Pair, 0, ncol*ncol)
	for i := 0; i < ncol; i++ {
		for j := i + 1; j < ncol; j++ {
			pairs = append(pairs, triplets.Pair{I: i, J: j, Score: frob[i][j]})
			columnScore[i] += frob[i][j]
			columnScore[j] += frob[i][j]
		}
	}

	picks := triplets.PickTriples(pairs, columnScore, cfg.nTriplets)
	return objfun.ActivePairsFromTriples(picks), nil
}

// flatPseudoFrequencies recomputes f1 with the default (constant N=1)
// pseudocount, purely to feed pickTripletPairs's centering point; it does
// not need to match the main run's pseudocount configuration exactly,
// since it only informs which pairs to pick, not the final fit.
func flatPseudoFrequencies(m *msa.MSA, weights []float64) [][]float64 {
	f1, _, err := msa.Frequencies(m, weights, msa.FrequencyOptions{Mode: msa.PseudocountConstant, N: 1})
	if err != nil {
		f1 = make([][]float64, m.Ncol)
		for i := range f1 {
			f1[i] = make([]float64, 21)
			for a := range f1[i] {
				f1[i][a] = 1.0 / 21.0
			}
		}
	}
	return f1
}

func runOptimizer(ctx context.Context, cfg config, obj objfun.Objective, x0 []float64, logger *slog.Logger) ([]float64, optimize.Report, error) {
	switch cfg.algorithm {
	case "gd":
		opts := optimize.DefaultGradientDescentOptions(cfg.iterations)
		opts.Logger = logger
		return optimize.GradientDescent(ctx, obj, x0, opts)

	case "cg":
		opts := optimize.DefaultCGOptions(cfg.iterations)
		opts.Logger = logger
		return optimize.ConjugateGradient(ctx, obj, x0, opts)

	case "nd":
		result, err := optimize.CheckGradient(obj, x0, 1e-5)
		if err != nil {
			return x0, optimize.Report{}, err
		}
		logger.Info("numerical gradient check", "max_abs_diff", result.MaxAbsDiff, "at", result.MaxAbsDiffAt)
		return x0, optimize.Report{FinalFx: 0, Iterations: 0, Converged: true, Code: 1}, nil

	default:
		return nil, optimize.Report{}, ccmerr.NewInputError("unknown --algorithm %q", cfg.algorithm)
	}
}

func readRawFile(path string) (rawfile.Raw, error) {
	if strings.HasSuffix(path, ".braw") || strings.HasSuffix(path, ".msgpack") {
		return rawfile.ReadMsgpack(path)
	}
	return rawfile.ReadOldRaw(path)
}

func writeDebugSample(path string, b *objectiveBuilder) error {
	var data [][]uint8
	switch {
	case b.cd != nil:
		data = b.cd.SampledData()
	case b.treeCD != nil:
		// TreeCD does not persist a sample between calls (its synthetic
		// alignment is the tree's leaves, regenerated fresh every
		// Evaluate), so there is nothing to dump once fitting has
		// finished and no file is written.
		return nil
	default:
		return ccmerr.NewConfigError("--debug-cd-msa is only valid with --objective cd or tree-cd")
	}

	f, err := os.Create(path)
	if err != nil {
		return ccmerr.NewInputError("cannot create debug CD sample file %q: %v", path, err)
	}
	defer f.Close()

	for i, row := range data {
		record := fasta.Record{Identifier: "sample_" + strconv.Itoa(i), Sequence: decodeSequence(row)}
		if _, err := record.WriteTo(f); err != nil {
			return err
		}
	}
	return nil
}

// decodeSequence turns encoded residue codes back into alphabet.Potts21
// letters for the debug FASTA dump.
func decodeSequence(row []uint8) string {
	var sb strings.Builder
	for _, code := range row {
		letter, err := alphabet.Potts21.Decode(int(code))
		if err != nil {
			sb.WriteByte('X')
			continue
		}
		sb.WriteString(letter)
	}
	return sb.String()
}

func writeOutputs(cfg config, alignment *msa.MSA, params potts.Params, neff float64, report optimize.Report) error {
	ncol := params.Ncol
	frob := score.Frobenius(params.Pair, ncol)

	meta := map[string]interface{}{
		"objective":       cfg.objective,
		"algorithm":       cfg.algorithm,
		"iterations":      report.Iterations,
		"converged":       report.Converged,
		"alignment_digest": digest.MSA(alignment.Identifiers, alignment.Data),
		"neff":            neff,
	}

	if cfg.outRawMatrix != "" {
		if err := contactmatrix.Write(cfg.outRawMatrix, frob, meta); err != nil {
			return err
		}
	}
	if cfg.outMatrix != "" {
		apc := score.APC(frob)
		if err := contactmatrix.Write(cfg.outMatrix, apc, meta); err != nil {
			return err
		}
	}
	if cfg.outOldraw != "" {
		if err := rawfile.WriteOldRaw(cfg.outOldraw, rawfile.Raw{Params: params, Meta: meta}); err != nil {
			return err
		}
	}
	if cfg.outMsgpack != "" {
		if err := rawfile.WriteMsgpack(cfg.outMsgpack, rawfile.Raw{Params: params, Meta: meta}); err != nil {
			return err
		}
	}
	if cfg.outTriplets != "" {
		if err := writeTriplets(cfg.outTriplets, params); err != nil {
			return err
		}
	}
	return nil
}

// writeTriplets derives per-state triplet potentials for every column
// triple i<j<k whose pair (i,j) has an active (nonzero) coupling and at
// least one of (j,k) and (i,k) does too, approximating each triple's joint
// contribution as the sum of its three constituent pairwise couplings --
// the natural second-order proxy for a third-order statistic, since this
// model only ever fits pairwise terms. States whose summed score is exactly
// zero are skipped. The records use triplets.Write's report format.
func writeTriplets(path string, params potts.Params) error {
	ncol := params.Ncol
	activeTriples := make(map[[3]int]bool)
	for i := 0; i < ncol; i++ {
		for j := i + 1; j < ncol; j++ {
			if !pairHasSignal(params.Pair, i, j, ncol) {
				continue
			}
			for k := j + 1; k < ncol; k++ {
				if pairHasSignal(params.Pair, j, k, ncol) || pairHasSignal(params.Pair, i, k, ncol) {
					activeTriples[[3]int{i, j, k}] = true
				}
			}
		}
	}

	var records []triplets.Triplet
	for triple := range activeTriples {
		i, j, k := triple[0], triple[1], triple[2]
		for a := 0; a < 20; a++ {
			for b := 0; b < 20; b++ {
				for c := 0; c < 20; c++ {
					s := params.Pair.At(i, j, a, b, ncol) + params.Pair.At(j, k, b, c, ncol) + params.Pair.At(i, k, a, c, ncol)
					if s == 0 {
						continue
					}
					records = append(records, triplets.Triplet{I: i, J: j, K: k, A: a, B: b, C: c, Score: s})
				}
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return ccmerr.NewInputError("cannot create triplet file %q: %v", path, err)
	}
	defer f.Close()
	return triplets.Write(f, records)
}

func pairHasSignal(w potts.Pair, i, j, ncol int) bool {
	for a := 0; a < 20; a++ {
		for b := 0; b < 20; b++ {
			if w.At(i, j, a, b, ncol) != 0 {
				return true
			}
		}
	}
	return false
}

func logCompareRaw(path string, params potts.Params, logger *slog.Logger) error {
	raw, err := readRawFile(path)
	if err != nil {
		return err
	}
	if raw.Params.Ncol != params.Ncol {
		return ccmerr.NewInputError("compare-raw %q has ncol=%d, fitted model has ncol=%d", path, raw.Params.Ncol, params.Ncol)
	}

	var maxDiff float64
	for i := range params.Single {
		if d := math.Abs(params.Single[i] - raw.Params.Single[i]); d > maxDiff {
			maxDiff = d
		}
	}
	for i := range params.Pair {
		if d := math.Abs(params.Pair[i] - raw.Params.Pair[i]); d > maxDiff {
			maxDiff = d
		}
	}

	logger.Info("compare-raw", "path", path, "max_abs_diff", maxDiff)
	return nil
}

