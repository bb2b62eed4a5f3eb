package microdoppler

import (
	"fmt"

	"github.com/banshee-data/microdoppler/internal/dsp"
	"gonum.org/v1/gonum/mat"
)

// CompressRange transforms each pulse along fast time and keeps the
// positive-range half of the center-shifted spectrum, rows [NTS/2, NTS).
// A nil window leaves the samples unweighted.
func CompressRange(baseband *mat.CDense, window dsp.Window) (*mat.CDense, error) {
	nts, pulses := baseband.Dims()
	if nts < 2 {
		return nil, fmt.Errorf("%w: need at least 2 range samples, got %d", ErrInsufficientSamples, nts)
	}
	if window == nil {
		window = dsp.Rectangular
	}
	w := window(nts)
	if len(w) != nts {
		return nil, fmt.Errorf("%w: range window produced %d weights for %d samples", ErrInvalidConfig, len(w), nts)
	}

	half := nts / 2
	out := mat.NewCDense(nts-half, pulses, nil)
	col := make([]complex128, nts)
	spec := make([]complex128, nts)
	for p := 0; p < pulses; p++ {
		for r := 0; r < nts; r++ {
			col[r] = baseband.At(r, p) * complex(w[r], 0)
		}
		spec = dsp.FFT(spec, col)
		for k := half; k < nts; k++ {
			out.Set(k-half, p, spec[dsp.ShiftIndex(k, nts)])
		}
	}
	return out, nil
}
