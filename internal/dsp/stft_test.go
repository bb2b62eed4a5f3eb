package dsp

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFFTImpulse(t *testing.T) {
	x := make([]complex128, 8)
	x[0] = 1
	y := FFT(nil, x)
	for i, v := range y {
		assert.InDelta(t, 0, cmplx.Abs(v-1), 1e-12, "bin %d", i)
	}
	assert.Empty(t, FFT(nil, nil))
}

func TestFFTPositiveToneSign(t *testing.T) {
	const n = 16
	x := make([]complex128, n)
	for i := range x {
		x[i] = cmplx.Exp(complex(0, 2*math.Pi*3*float64(i)/n))
	}
	y := FFT(nil, x)
	assert.InDelta(t, n, cmplx.Abs(y[3]), 1e-9)
	assert.InDelta(t, 0, cmplx.Abs(y[n-3]), 1e-9)
}

func TestFFTShift(t *testing.T) {
	assert.Equal(t, []complex128{2, 3, 0, 1}, FFTShift([]complex128{0, 1, 2, 3}))
	assert.Equal(t, []complex128{3, 4, 0, 1, 2}, FFTShift([]complex128{0, 1, 2, 3, 4}))
}

func TestTukeyPeriodic(t *testing.T) {
	w := Tukey(DefaultTukeyAlpha)(16)
	want := []float64{0, 0.5, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0.5}
	require.Len(t, w, 16)
	for i := range want {
		assert.InDelta(t, want[i], w[i], 1e-12, "weight %d", i)
	}
	assert.InDelta(t, 13.5, SumSquares(w), 1e-12)

	assert.Equal(t, Rectangular(4), Tukey(0)(4))
	assert.Nil(t, Tukey(0.5)(0))
}

func TestSegmentCount(t *testing.T) {
	assert.Equal(t, 31, SegmentCount(500, 16, 0))
	assert.Equal(t, 1, SegmentCount(16, 16, 0))
	assert.Equal(t, 0, SegmentCount(15, 16, 0))
	assert.Equal(t, 3, SegmentCount(32, 16, 8))
	assert.Equal(t, 0, SegmentCount(32, 16, 16))
}

func TestSTFTTonePeak(t *testing.T) {
	const (
		n     = 160
		nfft  = 128
		cycle = 16.0 / 128 // lands exactly on bin 16 of a 128-point transform
	)
	x := make([]complex128, n)
	for i := range x {
		x[i] = cmplx.Exp(complex(0, 2*math.Pi*cycle*float64(i)))
	}
	cfg := STFTConfig{SegmentLength: 16, FFTPoints: nfft, Window: Tukey(DefaultTukeyAlpha)(16), Detrend: true}
	spec, err := STFT(x, cfg)
	require.NoError(t, err)
	require.Len(t, spec, 10)

	for s, row := range spec {
		require.Len(t, row, nfft)
		peak := 0
		for i := range row {
			assert.GreaterOrEqual(t, real(row[i]), 0.0)
			assert.Zero(t, imag(row[i]))
			if real(row[i]) > real(row[peak]) {
				peak = i
			}
		}
		assert.Equal(t, nfft/2+16, peak, "segment %d", s)
	}
}

func TestSTFTComplexMatchesDensity(t *testing.T) {
	x := make([]complex128, 64)
	for i := range x {
		x[i] = complex(math.Sin(0.3*float64(i)), math.Cos(0.17*float64(i)))
	}
	cfg := STFTConfig{SegmentLength: 16, FFTPoints: 32, Window: Tukey(DefaultTukeyAlpha)(16), Detrend: true}
	psd, err := STFT(x, cfg)
	require.NoError(t, err)
	cfg.Spectrum = ComplexSpectrum
	cpx, err := STFT(x, cfg)
	require.NoError(t, err)

	for s := range psd {
		for k := range psd[s] {
			mag := cmplx.Abs(cpx[s][k])
			assert.InDelta(t, real(psd[s][k]), mag*mag, 1e-9)
		}
	}
}

func TestSTFTDetrendRemovesMean(t *testing.T) {
	cfg := STFTConfig{SegmentLength: 16, FFTPoints: 16, Detrend: true}
	spec, err := STFT(constant(32, 5-1i), cfg)
	require.NoError(t, err)
	for _, row := range spec {
		for _, v := range row {
			assert.InDelta(t, 0, cmplx.Abs(v), 1e-20)
		}
	}
}

func TestSTFTErrors(t *testing.T) {
	_, err := STFT(constant(8, 1), STFTConfig{SegmentLength: 16, FFTPoints: 32})
	assert.ErrorIs(t, err, ErrTooShort)

	for _, cfg := range []STFTConfig{
		{SegmentLength: 0, FFTPoints: 16},
		{SegmentLength: 16, FFTPoints: 8},
		{SegmentLength: 16, Overlap: 16, FFTPoints: 16},
		{SegmentLength: 16, FFTPoints: 16, Window: []float64{1}},
	} {
		_, err := STFT(constant(64, 1), cfg)
		assert.Error(t, err)
	}
}
