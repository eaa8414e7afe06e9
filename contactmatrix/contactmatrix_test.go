package contactmatrix_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/susannvorberg/ccmgo/contactmatrix"
)

func TestWriteReadRoundtrip(t *testing.T) {
	mat := [][]float64{
		{0, 1.5, 2.25},
		{1.5, 0, 3.75},
		{2.25, 3.75, 0},
	}
	meta := map[string]interface{}{"objective": "pll", "iterations": float64(100)}

	path := filepath.Join(t.TempDir(), "out.mat")
	require.NoError(t, contactmatrix.Write(path, mat, meta))

	got, gotMeta, err := contactmatrix.Read(path)
	require.NoError(t, err)
	require.Len(t, got, len(mat))
	for i := range mat {
		for j := range mat[i] {
			require.InDelta(t, mat[i][j], got[i][j], 1e-12)
		}
	}
	require.Equal(t, "pll", gotMeta["objective"])
	require.Equal(t, float64(100), gotMeta["iterations"])
}

func TestWriteReadRoundtripGzip(t *testing.T) {
	mat := [][]float64{{0, 1}, {1, 0}}
	meta := map[string]interface{}{"k": "v"}

	path := filepath.Join(t.TempDir(), "out.mat.gz")
	require.NoError(t, contactmatrix.Write(path, mat, meta))

	got, gotMeta, err := contactmatrix.Read(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "v", gotMeta["k"])
}

func TestReadToleratesMissingMetaLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nometa.mat")
	require.NoError(t, contactmatrix.Write(path, [][]float64{{1, 2}}, nil))

	// Overwrite without a meta line to simulate a hand-written matrix file.
	require.NoError(t, os.WriteFile(path, []byte("1 2\n"), 0o644))

	got, meta, err := contactmatrix.Read(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Nil(t, meta)
}

func TestReadRejectsMissingFile(t *testing.T) {
	_, _, err := contactmatrix.Read(filepath.Join(t.TempDir(), "does-not-exist.mat"))
	require.Error(t, err)
}
