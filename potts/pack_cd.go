package potts

// CDPacking is the unpadded packing used by the CD/PCD/TreeCD objectives:
// a single block of ncol*20 followed immediately by a pair block of
// ncol*ncol*21*21, with no alignment padding between them. Pack followed by
// Unpack is the identity for any (Single, Pair) pair of matching ncol.
type CDPacking struct {
	Ncol int
}

// NewCDPacking returns a CDPacking for ncol columns.
func NewCDPacking(ncol int) CDPacking {
	return CDPacking{Ncol: ncol}
}

// NVar returns the length of the flat vector this packing produces.
func (p CDPacking) NVar() int {
	return p.Ncol*20 + p.Ncol*p.Ncol*21*21
}

// Pack flattens (v, w) into x.
func (p CDPacking) Pack(v Single, w Pair) []float64 {
	x := make([]float64, p.NVar())
	nsingle := p.Ncol * 20
	copy(x[:nsingle], v)
	copy(x[nsingle:], w)
	return x
}

// Unpack splits x back into (v, w).
func (p CDPacking) Unpack(x []float64) (Single, Pair) {
	nsingle := p.Ncol * 20
	v := make(Single, nsingle)
	copy(v, x[:nsingle])
	w := make(Pair, len(x)-nsingle)
	copy(w, x[nsingle:])
	return v, w
}

// UnpackWithGap is like Unpack but returns the single block padded with an
// explicit zero gap column, shape ncol x 21.
func (p CDPacking) UnpackWithGap(x []float64) ([]float64, Pair) {
	v, w := p.Unpack(x)
	vPadded := make([]float64, p.Ncol*21)
	for i := 0; i < p.Ncol; i++ {
		copy(vPadded[i*21:i*21+20], v[i*20:i*20+20])
	}
	return vPadded, w
}
