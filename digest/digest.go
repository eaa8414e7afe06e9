/*
Package digest provides a content-hashing helper for alignments and
parameter sets, used to stamp contact-matrix and raw-file metadata so a
downstream consumer can tell whether two runs were given the same input
without re-reading it.
*/
package digest

import (
	"encoding/hex"
	"strconv"
	"strings"

	"lukechampine.com/blake3"
)

// MSA hashes an encoded alignment's identifiers and residue rows into a
// single digest: each row, in order, contributes its identifier and its
// residues (as decimal codes, not raw symbols). Reordering the rows changes
// the digest.
func MSA(identifiers []string, data [][]uint8) string {
	h := blake3.New(32, nil)
	for i, row := range data {
		if i < len(identifiers) {
			h.Write([]byte(identifiers[i]))
		}
		h.Write([]byte{'\n'})
		for _, residue := range row {
			h.Write([]byte(strconv.Itoa(int(residue))))
			h.Write([]byte{','})
		}
		h.Write([]byte{'\n'})
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

// Bytes hashes an arbitrary byte blob (e.g. a serialized parameter set)
// and returns its hex-encoded digest.
func Bytes(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Strings hashes a sequence of strings joined by newlines, e.g. a
// metadata key/value listing, returning the hex-encoded digest.
func Strings(parts ...string) string {
	return Bytes([]byte(strings.Join(parts, "\n")))
}
