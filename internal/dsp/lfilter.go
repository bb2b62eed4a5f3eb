package dsp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// normalize pads B and A to a common length and scales both so A[0] == 1.
func normalize(c Coefficients) (b, a []float64, err error) {
	if len(c.A) == 0 || c.A[0] == 0 {
		return nil, nil, fmt.Errorf("%w: leading denominator coefficient must be non-zero", ErrInvalidFilter)
	}
	n := len(c.A)
	if len(c.B) > n {
		n = len(c.B)
	}
	b = make([]float64, n)
	a = make([]float64, n)
	copy(b, c.B)
	copy(a, c.A)
	a0 := a[0]
	for i := range a {
		a[i] /= a0
		b[i] /= a0
	}
	return b, a, nil
}

// LFilter runs x through the filter once, causally, using the transposed
// direct form II structure. zi is the initial state (length Order()); nil
// starts from rest. It returns the output and the final state.
func LFilter(c Coefficients, x []complex128, zi []complex128) ([]complex128, []complex128, error) {
	b, a, err := normalize(c)
	if err != nil {
		return nil, nil, err
	}
	n := len(a)
	z := make([]complex128, n-1)
	if zi != nil {
		if len(zi) != n-1 {
			return nil, nil, fmt.Errorf("%w: initial state has length %d, want %d", ErrInvalidFilter, len(zi), n-1)
		}
		copy(z, zi)
	}
	y := make([]complex128, len(x))
	if n == 1 {
		for i, v := range x {
			y[i] = complex(b[0], 0) * v
		}
		return y, z, nil
	}
	for i, v := range x {
		out := complex(b[0], 0)*v + z[0]
		for k := 0; k < n-2; k++ {
			z[k] = complex(b[k+1], 0)*v + z[k+1] - complex(a[k+1], 0)*out
		}
		z[n-2] = complex(b[n-1], 0)*v - complex(a[n-1], 0)*out
		y[i] = out
	}
	return y, z, nil
}

// LFilterZI returns the filter state that corresponds to the steady-state
// response to a unit step. Scaling it by the first sample of a signal starts
// the filter as if that value had been applied forever.
func LFilterZI(c Coefficients) ([]float64, error) {
	b, a, err := normalize(c)
	if err != nil {
		return nil, err
	}
	m := len(a) - 1
	if m == 0 {
		return []float64{}, nil
	}

	// (I - companion(a)^T) zi = b[1:] - a[1:]*b[0]
	lhs := mat.NewDense(m, m, nil)
	rhs := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		lhs.Set(i, i, lhs.At(i, i)+1)
		lhs.Set(i, 0, lhs.At(i, 0)+a[i+1])
		if i+1 < m {
			lhs.Set(i, i+1, lhs.At(i, i+1)-1)
		}
		rhs.SetVec(i, b[i+1]-a[i+1]*b[0])
	}

	var zi mat.VecDense
	if err := zi.SolveVec(lhs, rhs); err != nil {
		// A Condition error still carries a usable solution.
		if _, ok := err.(mat.Condition); !ok {
			return nil, fmt.Errorf("%w: steady-state solve: %v", ErrInvalidFilter, err)
		}
	}
	out := make([]float64, m)
	for i := range out {
		out[i] = zi.AtVec(i)
	}
	return out, nil
}
