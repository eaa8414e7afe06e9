package rawfile

import (
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/susannvorberg/ccmgo/ccmerr"
	"github.com/susannvorberg/ccmgo/potts"
)

// wireFormat is the on-the-wire msgpack encoding of a Raw: the flat
// single/pair potential slices travel verbatim (potts.Single/Pair are
// already []float64 under the hood), avoiding a round trip through a
// nested L×L×21×21 structure msgpack would otherwise have to walk
// recursively.
type wireFormat struct {
	Ncol   int                    `msgpack:"ncol"`
	Single []float64              `msgpack:"single"`
	Pair   []float64              `msgpack:"pair"`
	Meta   map[string]interface{} `msgpack:"meta"`
}

// ReadMsgpack reads a raw-parameter file in the binary msgpack layout.
func ReadMsgpack(path string) (Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Raw{}, ccmerr.NewInputError("cannot open msgpack raw file %q: %v", path, err)
	}

	var wire wireFormat
	if err := msgpack.Unmarshal(data, &wire); err != nil {
		return Raw{}, ccmerr.NewInputError("malformed msgpack raw file %q: %v", path, err)
	}

	if len(wire.Single) != wire.Ncol*20 {
		return Raw{}, ccmerr.NewInputError("msgpack raw file %q: single-potential length %d does not match ncol=%d", path, len(wire.Single), wire.Ncol)
	}
	if len(wire.Pair) != wire.Ncol*wire.Ncol*21*21 {
		return Raw{}, ccmerr.NewInputError("msgpack raw file %q: pair-potential length %d does not match ncol=%d", path, len(wire.Pair), wire.Ncol)
	}

	return Raw{
		Params: potts.Params{
			Ncol:   wire.Ncol,
			Single: potts.Single(wire.Single),
			Pair:   potts.Pair(wire.Pair),
		},
		Meta: wire.Meta,
	}, nil
}

// WriteMsgpack writes raw in the binary msgpack layout.
func WriteMsgpack(path string, raw Raw) error {
	wire := wireFormat{
		Ncol:   raw.Params.Ncol,
		Single: []float64(raw.Params.Single),
		Pair:   []float64(raw.Params.Pair),
		Meta:   raw.Meta,
	}

	data, err := msgpack.Marshal(&wire)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ccmerr.NewInputError("cannot write msgpack raw file %q: %v", path, err)
	}
	return nil
}
