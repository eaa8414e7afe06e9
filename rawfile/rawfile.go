/*
Package rawfile reads and writes raw-parameter files: the on-disk
round-trip of a fitted Potts model's single and pair potentials plus an
opaque metadata dictionary, in either of two formats ("oldraw" textual,
"msgpack" binary). Both carry the same logical content: `(L, v[L][20],
w[L][L][21][21])` plus metadata; the gap state's single potential is
always 0 and is not stored.
*/
package rawfile

import (
	"github.com/susannvorberg/ccmgo/potts"
)

// Raw is the structured content every raw-parameter format round-trips:
// the fitted Potts model plus an opaque metadata dictionary (e.g. the
// objective/algorithm used, iteration count, input digest).
type Raw struct {
	Params potts.Params
	Meta   map[string]interface{}
}
