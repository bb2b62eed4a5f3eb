package dsp

import (
	"errors"
	"fmt"
)

// ErrTooShort is returned when a signal is too short for the requested
// filtering or analysis.
var ErrTooShort = errors.New("signal too short")

// PadLength is the odd-extension length FiltFilt applies at each end.
func PadLength(c Coefficients) int {
	n := len(c.A)
	if len(c.B) > n {
		n = len(c.B)
	}
	return 3 * n
}

// FiltFilt applies the filter forward and then backward, giving zero phase
// distortion and a squared magnitude response. The signal is extended at both
// ends by odd reflection and both passes start from the steady state of their
// first sample, which keeps edge transients small.
//
// x must be longer than PadLength(c).
func FiltFilt(c Coefficients, x []complex128) ([]complex128, error) {
	edge := PadLength(c)
	if len(x) <= edge {
		return nil, fmt.Errorf("%w: need more than %d samples, got %d", ErrTooShort, edge, len(x))
	}
	zi, err := LFilterZI(c)
	if err != nil {
		return nil, err
	}

	ext := oddExtend(x, edge)

	y, _, err := LFilter(c, ext, scaleState(zi, ext[0]))
	if err != nil {
		return nil, err
	}
	reverse(y)
	y, _, err = LFilter(c, y, scaleState(zi, y[0]))
	if err != nil {
		return nil, err
	}
	reverse(y)

	out := make([]complex128, len(x))
	copy(out, y[edge:edge+len(x)])
	return out, nil
}

func oddExtend(x []complex128, edge int) []complex128 {
	n := len(x)
	ext := make([]complex128, 0, n+2*edge)
	for i := edge; i > 0; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := 0; i < edge; i++ {
		ext = append(ext, 2*x[n-1]-x[n-2-i])
	}
	return ext
}

func scaleState(zi []float64, v complex128) []complex128 {
	out := make([]complex128, len(zi))
	for i, z := range zi {
		out[i] = complex(z, 0) * v
	}
	return out
}

func reverse(x []complex128) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
