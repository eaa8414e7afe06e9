/*
Package contactmatrix reads and writes the whitespace-delimited L×L
contact-score matrix file format: one row per line, doubles separated by
whitespace, with an optional trailing "#>META> <json>" line carrying an
opaque metadata dictionary. Filenames ending in ".gz" are transparently
compressed/decompressed.
*/
package contactmatrix

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/susannvorberg/ccmgo/ccmerr"
)

const metaPrefix = "#>META> "

// Write writes mat (an L×L matrix, doubles space-separated per row) to
// path, followed by a "#>META> <json>" line encoding meta. If path ends
// in ".gz", the output is gzip-compressed.
func Write(path string, mat [][]float64, meta map[string]interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return ccmerr.NewInputError("cannot create matrix file %q: %v", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	bw := bufio.NewWriter(w)
	for _, row := range mat {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(fields, " ")); err != nil {
			return err
		}
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "%s%s\n", metaPrefix, metaJSON); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Read reads an L×L matrix written by Write, tolerating gzip compression
// and an absent metadata line (returned as a nil map in that case).
func Read(path string) (mat [][]float64, meta map[string]interface{}, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, ccmerr.NewInputError("cannot open matrix file %q: %v", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, gzErr := gzip.NewReader(f)
		if gzErr != nil {
			return nil, nil, ccmerr.NewInputError("cannot read gzip matrix file %q: %v", path, gzErr)
		}
		defer gz.Close()
		r = gz
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, metaPrefix) {
			payload := strings.TrimPrefix(line, metaPrefix)
			meta = map[string]interface{}{}
			if err := json.Unmarshal([]byte(payload), &meta); err != nil {
				return nil, nil, ccmerr.NewInputError("malformed meta line in %q: %v", path, err)
			}
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), "#") || strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Fields(line)
		row := make([]float64, len(fields))
		for i, field := range fields {
			v, parseErr := strconv.ParseFloat(field, 64)
			if parseErr != nil {
				return nil, nil, ccmerr.NewInputError("malformed matrix entry %q in %q: %v", field, path, parseErr)
			}
			row[i] = v
		}
		mat = append(mat, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	return mat, meta, nil
}
