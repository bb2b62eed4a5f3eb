package microdoppler

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ChannelPair is one acquisition's raw channels. Both matrices are
// pulse-major: rows index pulse and columns index range sample, with the
// leading metadata columns still attached.
type ChannelPair struct {
	Label string
	I     *mat.Dense
	Q     *mat.Dense
}

// FormBaseband drops the metadata columns and combines I and Q into a
// range-major complex matrix: baseband[r][p] = I[p][r] + i·Q[p][r].
func FormBaseband(pair ChannelPair, metadataColumns int) (*mat.CDense, error) {
	switch {
	case pair.I == nil && pair.Q == nil:
		return nil, fmt.Errorf("%w: I and Q", ErrMissingChannel)
	case pair.I == nil:
		return nil, fmt.Errorf("%w: I", ErrMissingChannel)
	case pair.Q == nil:
		return nil, fmt.Errorf("%w: Q", ErrMissingChannel)
	}

	pulses, cols := pair.I.Dims()
	qPulses, qCols := pair.Q.Dims()
	if pulses != qPulses || cols != qCols {
		return nil, fmt.Errorf("%w: I is %dx%d, Q is %dx%d", ErrShapeMismatch, pulses, cols, qPulses, qCols)
	}
	samples := cols - metadataColumns
	if samples < 1 {
		return nil, fmt.Errorf("%w: %d columns leave no range samples after %d metadata columns",
			ErrInsufficientSamples, cols, metadataColumns)
	}

	bb := mat.NewCDense(samples, pulses, nil)
	for p := 0; p < pulses; p++ {
		for r := 0; r < samples; r++ {
			bb.Set(r, p, complex(pair.I.At(p, r+metadataColumns), pair.Q.At(p, r+metadataColumns)))
		}
	}
	return bb, nil
}

// rowView aliases row i of m. Callers must not write through it.
func rowView(m *mat.CDense, i int) []complex128 {
	raw := m.RawCMatrix()
	return raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
}

// setRow copies v into row i of m.
func setRow(m *mat.CDense, i int, v []complex128) {
	raw := m.RawCMatrix()
	copy(raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols], v)
}
