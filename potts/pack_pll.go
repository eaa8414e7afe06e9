package potts

// PLLPacking is the packing used by the pseudo-likelihood objective: the
// single block is zero-padded up to the next multiple of 32 so that the
// pair block starts on a 32-element boundary, matching the layout a
// vectorized PLL kernel expects. Unlike CDPacking, the padding slots are
// never written to by Pack and are simply skipped by Unpack.
type PLLPacking struct {
	Ncol          int
	NSingle       int
	NSinglePadded int
}

// NewPLLPacking returns a PLLPacking for ncol columns.
func NewPLLPacking(ncol int) PLLPacking {
	nsingle := ncol * 20
	return PLLPacking{
		Ncol:          ncol,
		NSingle:       nsingle,
		NSinglePadded: roundUp32(nsingle),
	}
}

// NVar returns the length of the flat vector this packing produces.
func (p PLLPacking) NVar() int {
	return p.NSinglePadded + p.Ncol*p.Ncol*21*21
}

// Pack flattens (v, w) into x; the padding slots between the single and
// pair blocks are zeroed.
func (p PLLPacking) Pack(v Single, w Pair) []float64 {
	x := make([]float64, p.NVar())
	copy(x[:p.NSingle], v)
	copy(x[p.NSinglePadded:], w)
	return x
}

// Unpack splits x back into (v, w), discarding the padding slots.
func (p PLLPacking) Unpack(x []float64) (Single, Pair) {
	v := make(Single, p.NSingle)
	copy(v, x[:p.NSingle])
	w := make(Pair, p.Ncol*p.Ncol*21*21)
	copy(w, x[p.NSinglePadded:])
	return v, w
}

// UnpackWithGap is like Unpack but returns the single block padded with an
// explicit zero gap column, shape ncol x 21.
func (p PLLPacking) UnpackWithGap(x []float64) ([]float64, Pair) {
	v, w := p.Unpack(x)
	vPadded := make([]float64, p.Ncol*21)
	for i := 0; i < p.Ncol; i++ {
		copy(vPadded[i*21:i*21+20], v[i*20:i*20+20])
	}
	return vPadded, w
}

// SingleGradSlice returns the writable single-block slice of a flat
// gradient vector shaped like this packing's Pack output (the padding
// slots are not included).
func (p PLLPacking) SingleGradSlice(g []float64) []float64 {
	return g[:p.NSingle]
}

// PairGradSlice returns the writable pair-block slice of a flat gradient
// vector shaped like this packing's Pack output.
func (p PLLPacking) PairGradSlice(g []float64) []float64 {
	return g[p.NSinglePadded:]
}
