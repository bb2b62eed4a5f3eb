package microdoppler

import (
	"errors"
	"fmt"

	"github.com/banshee-data/microdoppler/internal/dsp"
	"gonum.org/v1/gonum/mat"
)

// FilterClutter high-pass filters every range bin along slow time and drops
// bin 0. The returned unfiltered matrix is the compressed input minus the
// same row, so both share row indexing.
func FilterClutter(compressed *mat.CDense, filter dsp.Filter) (filtered, unfiltered *mat.CDense, err error) {
	rows, pulses := compressed.Dims()
	if rows < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 range bins, got %d", ErrInsufficientSamples, rows)
	}
	if pulses < filter.MinSamples() {
		return nil, nil, fmt.Errorf("%w: clutter filter needs at least %d pulses, got %d",
			ErrInsufficientSamples, filter.MinSamples(), pulses)
	}

	filtered = mat.NewCDense(rows-1, pulses, nil)
	unfiltered = mat.NewCDense(rows-1, pulses, nil)
	for r := 1; r < rows; r++ {
		src := rowView(compressed, r)
		y, err := filter.Apply(src)
		if err != nil {
			if errors.Is(err, dsp.ErrTooShort) {
				return nil, nil, fmt.Errorf("%w: range bin %d: %v", ErrInsufficientSamples, r, err)
			}
			return nil, nil, fmt.Errorf("range bin %d: %w", r, err)
		}
		setRow(filtered, r-1, y)
		setRow(unfiltered, r-1, src)
	}
	return filtered, unfiltered, nil
}
