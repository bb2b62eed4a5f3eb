package dsp

import (
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// fftCache keeps one CmplxFFT per transform size. CmplxFFT holds internal
// work space, so each cached value is guarded by its own mutex.
var fftCache sync.Map // map[int]*lockedFFT

type lockedFFT struct {
	mu  sync.Mutex
	fft *fourier.CmplxFFT
}

func plan(n int) *lockedFFT {
	if v, ok := fftCache.Load(n); ok {
		return v.(*lockedFFT)
	}
	v, _ := fftCache.LoadOrStore(n, &lockedFFT{fft: fourier.NewCmplxFFT(n)})
	return v.(*lockedFFT)
}

// FFT returns the unnormalized forward discrete Fourier transform of seq.
// The result is written to dst when it has the right length.
func FFT(dst, seq []complex128) []complex128 {
	n := len(seq)
	if n == 0 {
		return dst[:0]
	}
	if len(dst) != n {
		dst = make([]complex128, n)
	}
	p := plan(n)
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fft.Coefficients(dst, seq)
}

// ShiftIndex maps a center-shifted position to the index of the unshifted
// spectrum it is read from, matching the usual fftshift convention: the zero
// frequency lands at n/2.
func ShiftIndex(i, n int) int {
	return (i + n - n/2) % n
}

// FFTShift returns a copy of x with the zero-frequency component moved to
// the middle of the slice.
func FFTShift(x []complex128) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	for i := range out {
		out[i] = x[ShiftIndex(i, n)]
	}
	return out
}
