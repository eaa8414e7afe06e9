package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/susannvorberg/ccmgo/ccmerr"
)

// runParseConfig drives parseConfig through a real *cli.App so argument
// parsing (flag defaults, repeated StringSlice flags, etc.) matches exactly
// what ccmgoAction sees in production, without needing to hand-construct a
// flag.FlagSet.
func runParseConfig(t *testing.T, args ...string) (config, error) {
	t.Helper()
	var cfg config
	var cfgErr error
	app := &cli.App{
		Name:  "ccmgo",
		Flags: ccmgoFlags(),
		Action: func(c *cli.Context) error {
			cfg, cfgErr = parseConfig(c)
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"ccmgo"}, args...)))
	return cfg, cfgErr
}

func TestParseConfigValidMinimal(t *testing.T) {
	cfg, err := runParseConfig(t, "--out-matrix", "out.mat", "align.fasta")
	require.NoError(t, err)
	require.Equal(t, "align.fasta", cfg.alignmentPath)
	require.Equal(t, "pll", cfg.objective)
	require.Equal(t, "gd", cfg.algorithm)
	require.Equal(t, "out.mat", cfg.outMatrix)
}

func TestParseConfigUnknownObjective(t *testing.T) {
	_, err := runParseConfig(t, "--objective", "bogus", "--out-matrix", "out.mat", "align.fasta")
	require.Error(t, err)
	require.IsType(t, &ccmerr.InputError{}, err)
}

func TestParseConfigUnknownAlgorithm(t *testing.T) {
	_, err := runParseConfig(t, "--algorithm", "bogus", "--out-matrix", "out.mat", "align.fasta")
	require.Error(t, err)
	require.IsType(t, &ccmerr.InputError{}, err)
}

func TestParseConfigUnknownPseudocount(t *testing.T) {
	_, err := runParseConfig(t, "--pseudocount", "bogus", "--out-matrix", "out.mat", "align.fasta")
	require.Error(t, err)
	require.IsType(t, &ccmerr.InputError{}, err)
}

func TestParseConfigUnknownWeighting(t *testing.T) {
	_, err := runParseConfig(t, "--weighting", "bogus", "--out-matrix", "out.mat", "align.fasta")
	require.Error(t, err)
	require.IsType(t, &ccmerr.InputError{}, err)
}

func TestParseConfigNoOutputRequested(t *testing.T) {
	_, err := runParseConfig(t, "align.fasta")
	require.Error(t, err)
	require.IsType(t, &ccmerr.InputError{}, err)
}

func TestParseConfigTreeCDRequiresTree(t *testing.T) {
	_, err := runParseConfig(t, "--objective", "tree-cd", "--out-matrix", "out.mat", "align.fasta")
	require.Error(t, err)
	require.IsType(t, &ccmerr.ConfigError{}, err)
}

func TestParseConfigTreeOnlyValidWithTreeCD(t *testing.T) {
	_, err := runParseConfig(t, "--objective", "pll", "--tree", "t.nwk", "--out-matrix", "out.mat", "align.fasta")
	require.Error(t, err)
	require.IsType(t, &ccmerr.ConfigError{}, err)
}

func TestParseConfigDebugCDMSAOnlyValidWithCD(t *testing.T) {
	_, err := runParseConfig(t, "--objective", "pll", "--debug-cd-msa", "s.fasta", "--out-matrix", "out.mat", "align.fasta")
	require.Error(t, err)
	require.IsType(t, &ccmerr.ConfigError{}, err)
}

func TestParseConfigOutTripletsOnlyValidWithTripletPLL(t *testing.T) {
	_, err := runParseConfig(t, "--objective", "pll", "--out-triplets", "trip.txt", "align.fasta")
	require.Error(t, err)
	require.IsType(t, &ccmerr.ConfigError{}, err)
}

func TestParseConfigPLLSamplingOnlyValidWithCD(t *testing.T) {
	_, err := runParseConfig(t, "--objective", "pll", "--pll-sampling", "--out-matrix", "out.mat", "align.fasta")
	require.Error(t, err)
	require.IsType(t, &ccmerr.ConfigError{}, err)
}

func TestParseConfigPersistentOnlyValidWithCD(t *testing.T) {
	_, err := runParseConfig(t, "--objective", "pll", "--persistent", "--out-matrix", "out.mat", "align.fasta")
	require.Error(t, err)
	require.IsType(t, &ccmerr.ConfigError{}, err)
}

func TestParseConfigTreeCDWithTreeIsValid(t *testing.T) {
	cfg, err := runParseConfig(t, "--objective", "tree-cd", "--tree", "t.nwk", "--out-matrix", "out.mat", "align.fasta")
	require.NoError(t, err)
	require.Equal(t, "t.nwk", cfg.treePath)
}

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, exitCode(1))
	require.Equal(t, 0, exitCode(0))
	require.Equal(t, 3, exitCode(-3))
}
