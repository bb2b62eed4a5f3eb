package dsp

import (
	"fmt"
	"math"
)

// Spectrum selects what each short-time cell holds.
type Spectrum int

const (
	// PowerDensity cells hold |X|^2 scaled to a density (real-valued).
	PowerDensity Spectrum = iota
	// ComplexSpectrum cells hold the complex coefficients scaled so that
	// |cell|^2 equals the PowerDensity value.
	ComplexSpectrum
)

func (s Spectrum) String() string {
	switch s {
	case PowerDensity:
		return "psd"
	case ComplexSpectrum:
		return "complex"
	default:
		return fmt.Sprintf("Spectrum(%d)", int(s))
	}
}

// STFTConfig describes a two-sided short-time Fourier analysis.
type STFTConfig struct {
	SegmentLength int       // samples per segment
	Overlap       int       // samples shared by consecutive segments
	FFTPoints     int       // transform size, >= SegmentLength (zero padded)
	Window        []float64 // SegmentLength weights; nil means rectangular
	Detrend       bool      // subtract each segment's mean before windowing
	Spectrum      Spectrum
}

// SegmentCount returns how many full segments fit in n samples.
func SegmentCount(n, segment, overlap int) int {
	step := segment - overlap
	if segment <= 0 || step <= 0 || n < segment {
		return 0
	}
	return (n - overlap) / step
}

func (c STFTConfig) validate() error {
	if c.SegmentLength <= 0 {
		return fmt.Errorf("segment length %d must be positive", c.SegmentLength)
	}
	if c.Overlap < 0 || c.Overlap >= c.SegmentLength {
		return fmt.Errorf("overlap %d must be in [0, %d)", c.Overlap, c.SegmentLength)
	}
	if c.FFTPoints < c.SegmentLength {
		return fmt.Errorf("fft points %d must be at least the segment length %d", c.FFTPoints, c.SegmentLength)
	}
	if c.Window != nil && len(c.Window) != c.SegmentLength {
		return fmt.Errorf("window has %d weights, want %d", len(c.Window), c.SegmentLength)
	}
	return nil
}

// STFT computes the two-sided short-time spectrum of x. The result is
// indexed [segment][frequency] and each segment's spectrum is center-shifted
// so that the zero frequency sits at FFTPoints/2.
func STFT(x []complex128, cfg STFTConfig) ([][]complex128, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	segments := SegmentCount(len(x), cfg.SegmentLength, cfg.Overlap)
	if segments == 0 {
		return nil, fmt.Errorf("%w: need at least %d samples, got %d", ErrTooShort, cfg.SegmentLength, len(x))
	}
	win := cfg.Window
	if win == nil {
		win = Rectangular(cfg.SegmentLength)
	}
	scale := 1 / SumSquares(win)
	amp := math.Sqrt(scale)

	step := cfg.SegmentLength - cfg.Overlap
	frame := make([]complex128, cfg.FFTPoints)
	coeffs := make([]complex128, cfg.FFTPoints)
	out := make([][]complex128, segments)
	for s := range out {
		seg := x[s*step : s*step+cfg.SegmentLength]

		var mean complex128
		if cfg.Detrend {
			for _, v := range seg {
				mean += v
			}
			mean /= complex(float64(len(seg)), 0)
		}
		for i := range frame {
			frame[i] = 0
		}
		for i, v := range seg {
			frame[i] = (v - mean) * complex(win[i], 0)
		}

		coeffs = FFT(coeffs, frame)

		row := make([]complex128, cfg.FFTPoints)
		for i := range row {
			c := coeffs[ShiftIndex(i, cfg.FFTPoints)]
			switch cfg.Spectrum {
			case ComplexSpectrum:
				row[i] = c * complex(amp, 0)
			default:
				re, im := real(c), imag(c)
				row[i] = complex((re*re+im*im)*scale, 0)
			}
		}
		out[s] = row
	}
	return out, nil
}
