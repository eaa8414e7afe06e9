/*
Package msa reads multiple sequence alignments and turns them into the
weighted, pseudocounted single/pair frequencies that package objfun builds
its objectives from. It is a collaborator, not core inference: everything
here is about getting from a FASTA file on disk to the f1/f2 arrays that
package counts converts into c1/c2.
*/
package msa

import (
	"io"

	"github.com/susannvorberg/ccmgo/alphabet"
	"github.com/susannvorberg/ccmgo/bio/fasta"
	"github.com/susannvorberg/ccmgo/ccmerr"
)

// MSA is a column-aligned set of sequences encoded over alphabet.Potts21.
// Row s, column i holds the residue code for sequence s at column i
// (0..19 for an amino acid, 20 for a gap or unresolved symbol).
type MSA struct {
	Ncol        int
	Nrow        int
	Identifiers []string
	Data        [][]uint8 // [Nrow][Ncol]
}

// ReadFasta reads an aligned FASTA file from r. Every record must have the
// same sequence length; the first record fixes Ncol. Residues are encoded
// with alphabet.Potts21.EncodeResidue, which maps unresolved/ambiguous
// symbols to the gap state rather than rejecting them.
func ReadFasta(r io.Reader) (*MSA, error) {
	parser := fasta.NewParser(r, 1<<20)

	m := &MSA{}
	for {
		record, err := parser.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, ccmerr.NewInputError("reading alignment: %v", err)
		}

		if m.Ncol == 0 && m.Nrow == 0 {
			m.Ncol = len([]rune(record.Sequence))
		}
		if got := len([]rune(record.Sequence)); got != m.Ncol {
			return nil, ccmerr.NewInputError(
				"sequence %q has length %d, expected %d (from first record)",
				record.Identifier, got, m.Ncol)
		}

		row := make([]uint8, m.Ncol)
		for i, r := range record.Sequence {
			row[i] = alphabet.Potts21.EncodeResidue(r)
		}
		m.Data = append(m.Data, row)
		m.Identifiers = append(m.Identifiers, record.Identifier)
		m.Nrow++
	}

	if m.Nrow == 0 {
		return nil, ccmerr.NewInputError("alignment is empty")
	}
	return m, nil
}
