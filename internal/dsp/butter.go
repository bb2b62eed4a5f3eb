package dsp

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// ErrInvalidFilter is returned when a filter cannot be designed from the
// requested parameters.
var ErrInvalidFilter = errors.New("invalid filter design")

// Band selects which side of the cutoff a filter passes.
type Band int

const (
	LowPass Band = iota
	HighPass
)

func (b Band) String() string {
	switch b {
	case LowPass:
		return "lowpass"
	case HighPass:
		return "highpass"
	default:
		return fmt.Sprintf("Band(%d)", int(b))
	}
}

// Coefficients are the numerator (B) and denominator (A) polynomials of a
// digital IIR filter in descending powers of z^-1, with A[0] == 1.
type Coefficients struct {
	B []float64
	A []float64
}

// Order returns the filter order.
func (c Coefficients) Order() int {
	n := len(c.A)
	if len(c.B) > n {
		n = len(c.B)
	}
	return n - 1
}

// Response evaluates the complex frequency response at normalized frequency
// w, where 1 is the Nyquist rate.
func (c Coefficients) Response(w float64) complex128 {
	z := cmplx.Exp(complex(0, -math.Pi*w))
	return evalPoly(c.B, z) / evalPoly(c.A, z)
}

func evalPoly(p []float64, z complex128) complex128 {
	var acc, zn complex128 = 0, 1
	for _, v := range p {
		acc += complex(v, 0) * zn
		zn *= z
	}
	return acc
}

// Butterworth designs a digital Butterworth filter of the given order.
// cutoff is normalized to the Nyquist rate and must lie in (0, 1).
//
// The analog prototype is frequency-warped, transformed to the requested
// band and mapped to the z-plane with the bilinear transform.
func Butterworth(order int, cutoff float64, band Band) (Coefficients, error) {
	if order < 1 {
		return Coefficients{}, fmt.Errorf("%w: order %d must be positive", ErrInvalidFilter, order)
	}
	if !(cutoff > 0 && cutoff < 1) {
		return Coefficients{}, fmt.Errorf("%w: cutoff %g must be in (0, 1)", ErrInvalidFilter, cutoff)
	}

	const fs = 2.0
	warped := 2 * fs * math.Tan(math.Pi*cutoff/fs)

	poles := make([]complex128, order)
	for i := range poles {
		m := float64(-order + 1 + 2*i)
		poles[i] = -cmplx.Exp(complex(0, math.Pi*m/float64(2*order)))
	}

	var zeros []complex128
	gain := 1.0
	switch band {
	case LowPass:
		for i := range poles {
			poles[i] *= complex(warped, 0)
		}
		gain = math.Pow(warped, float64(order))
	case HighPass:
		prod := complex(1, 0)
		for i, p := range poles {
			prod *= -p
			poles[i] = complex(warped, 0) / p
		}
		gain = real(1 / prod)
		zeros = make([]complex128, order)
	default:
		return Coefficients{}, fmt.Errorf("%w: unsupported band %v", ErrInvalidFilter, band)
	}

	fs2 := complex(2*fs, 0)
	num, den := complex(1, 0), complex(1, 0)
	zd := make([]complex128, 0, order)
	for _, z := range zeros {
		zd = append(zd, (fs2+z)/(fs2-z))
		num *= fs2 - z
	}
	pd := make([]complex128, 0, order)
	for _, p := range poles {
		pd = append(pd, (fs2+p)/(fs2-p))
		den *= fs2 - p
	}
	// Zeros at infinity map to Nyquist.
	for len(zd) < len(pd) {
		zd = append(zd, -1)
	}
	gain *= real(num / den)

	b := expand(zd)
	a := expand(pd)
	c := Coefficients{B: make([]float64, len(b)), A: make([]float64, len(a))}
	for i, v := range b {
		c.B[i] = gain * real(v)
	}
	for i, v := range a {
		c.A[i] = real(v)
	}
	return c, nil
}

// expand returns the coefficients of the monic polynomial with the given roots.
func expand(roots []complex128) []complex128 {
	c := make([]complex128, 1, len(roots)+1)
	c[0] = 1
	for _, r := range roots {
		c = append(c, 0)
		for j := len(c) - 1; j > 0; j-- {
			c[j] -= r * c[j-1]
		}
	}
	return c
}
