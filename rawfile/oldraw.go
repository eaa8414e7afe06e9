package rawfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/susannvorberg/ccmgo/ccmerr"
	"github.com/susannvorberg/ccmgo/potts"
)

// ReadOldRaw reads a raw-parameter file in the "oldraw" textual layout.
// The exact byte layout of the original collaborator's oldraw format was
// never retrieved into this codebase; the layout implemented here is a
// documented reconstruction that preserves the format's logical content
// (single potentials, pair potentials exploiting the w[i][j][a][b] ==
// w[j][i][b][a] symmetry to store each pair only once, and an opaque
// metadata dictionary), following the same "#>META> <json>" convention
// contact-matrix files use elsewhere in this package family:
//
//	#>META> <json>
//	<ncol>
//	<ncol lines of 20 whitespace-separated floats: v[i][0..19]>
//	for each i < j:
//	  # <i> <j>
//	  <441 whitespace-separated floats: w[i][j][a][b], a major, b minor>
func ReadOldRaw(path string) (Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return Raw{}, ccmerr.NewInputError("cannot open raw file %q: %v", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var meta map[string]interface{}
	if !scanner.Scan() {
		return Raw{}, ccmerr.NewInputError("raw file %q is empty", path)
	}
	metaLine := scanner.Text()
	if !strings.HasPrefix(metaLine, metaPrefix) {
		return Raw{}, ccmerr.NewInputError("raw file %q: expected %q header, got %q", path, metaPrefix, metaLine)
	}
	meta = map[string]interface{}{}
	if err := json.Unmarshal([]byte(strings.TrimPrefix(metaLine, metaPrefix)), &meta); err != nil {
		return Raw{}, ccmerr.NewInputError("raw file %q: malformed meta line: %v", path, err)
	}

	if !scanner.Scan() {
		return Raw{}, ccmerr.NewInputError("raw file %q: missing ncol line", path)
	}
	ncol, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return Raw{}, ccmerr.NewInputError("raw file %q: malformed ncol line: %v", path, err)
	}

	params := potts.NewParams(ncol)
	for i := 0; i < ncol; i++ {
		if !scanner.Scan() {
			return Raw{}, ccmerr.NewInputError("raw file %q: missing single-potential row %d", path, i)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) != 20 {
			return Raw{}, ccmerr.NewInputError("raw file %q: single-potential row %d has %d fields, want 20", path, i, len(fields))
		}
		for a, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Raw{}, ccmerr.NewInputError("raw file %q: malformed single potential at row %d col %d: %v", path, i, a, err)
			}
			params.Single.Set(i, a, v)
		}
	}

	for i := 0; i < ncol; i++ {
		for j := i + 1; j < ncol; j++ {
			if !scanner.Scan() {
				return Raw{}, ccmerr.NewInputError("raw file %q: missing pair header for (%d,%d)", path, i, j)
			}
			header := strings.Fields(scanner.Text())
			if len(header) != 3 || header[0] != "#" {
				return Raw{}, ccmerr.NewInputError("raw file %q: malformed pair header for (%d,%d): %q", path, i, j, scanner.Text())
			}
			if !scanner.Scan() {
				return Raw{}, ccmerr.NewInputError("raw file %q: missing pair block for (%d,%d)", path, i, j)
			}
			fields := strings.Fields(scanner.Text())
			if len(fields) != 21*21 {
				return Raw{}, ccmerr.NewInputError("raw file %q: pair block (%d,%d) has %d fields, want %d", path, i, j, len(fields), 21*21)
			}
			idx := 0
			for a := 0; a < 21; a++ {
				for b := 0; b < 21; b++ {
					v, err := strconv.ParseFloat(fields[idx], 64)
					if err != nil {
						return Raw{}, ccmerr.NewInputError("raw file %q: malformed pair value (%d,%d,%d,%d): %v", path, i, j, a, b, err)
					}
					params.Pair.Set(i, j, a, b, ncol, v)
					params.Pair.Set(j, i, b, a, ncol, v)
					idx++
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return Raw{}, err
	}
	return Raw{Params: params, Meta: meta}, nil
}

// WriteOldRaw writes raw in the oldraw textual layout documented on
// ReadOldRaw.
func WriteOldRaw(path string, raw Raw) error {
	f, err := os.Create(path)
	if err != nil {
		return ccmerr.NewInputError("cannot create raw file %q: %v", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)

	metaJSON, err := json.Marshal(raw.Meta)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "%s%s\n", metaPrefix, metaJSON); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "%d\n", raw.Params.Ncol); err != nil {
		return err
	}

	ncol := raw.Params.Ncol
	for i := 0; i < ncol; i++ {
		fields := make([]string, 20)
		for a := 0; a < 20; a++ {
			fields[a] = strconv.FormatFloat(raw.Params.Single.At(i, a), 'g', -1, 64)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(fields, " ")); err != nil {
			return err
		}
	}

	for i := 0; i < ncol; i++ {
		for j := i + 1; j < ncol; j++ {
			if _, err := fmt.Fprintf(bw, "# %d %d\n", i, j); err != nil {
				return err
			}
			fields := make([]string, 0, 21*21)
			for a := 0; a < 21; a++ {
				for b := 0; b < 21; b++ {
					fields = append(fields, strconv.FormatFloat(raw.Params.Pair.At(i, j, a, b, ncol), 'g', -1, 64))
				}
			}
			if _, err := fmt.Fprintln(bw, strings.Join(fields, " ")); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

const metaPrefix = "#>META> "
